package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvk-labs/modelcmp/internal/config"
	"github.com/vvk-labs/modelcmp/pkg/modelcmp"
)

var initCmd = &cobra.Command{
	Use:   "init [definition-file]",
	Short: "Scaffold a comparison definition file",
	Long: `Write a starter comparison definition to the given path
(default: ` + modelcmp.DefinitionFileName + `).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing definition file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := modelcmp.DefinitionFileName
	if len(args) > 0 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite): %w", path, modelcmp.ErrInvalidConfig)
	}

	if err := os.WriteFile(path, []byte(config.Template), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(os.Stderr, "Wrote %s — edit the endpoint addresses, then run: modelcmp compare %s\n", path, path)
	return nil
}
