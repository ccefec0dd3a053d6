package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvk-labs/modelcmp/internal/discover"
	"github.com/vvk-labs/modelcmp/internal/engine"
	"github.com/vvk-labs/modelcmp/internal/logging"
	"github.com/vvk-labs/modelcmp/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate [definition-file]",
	Short: "Check endpoint compatibility without building a comparison",
	Long: `Resolve both endpoints and run the compatibility checks, reporting
the engine variant that a compare run would select.

validate never prompts and never mutates either endpoint: a compatibility
level mismatch that compare would offer to upgrade is only reported here.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("env-file", "", "Load credentials from a dotenv file before connecting")
}

func runValidate(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	envFile, _ := cmd.Flags().GetString("env-file")
	if err := loadEnvFile(envFile, logger); err != nil {
		return err
	}

	cfg, err := loadDefinition(args, logger)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	opener := newSessionOpener(cfg, logger)
	resolver := discover.NewResolver(opener, logger)
	if err := resolver.Resolve(cmd.Context(), cfg); err != nil {
		return err
	}

	if err := validate.NewPipeline(logger).Validate(cfg); err != nil {
		return err
	}

	variant := engine.SelectVariant(cfg.Source.CompatibilityLevel)
	fmt.Printf("compatible engine=%s source_level=%d target_level=%d\n",
		variant, cfg.Source.CompatibilityLevel, cfg.Target.CompatibilityLevel)

	if engine.Needed(variant, cfg) {
		fmt.Printf("note: target is behind the source; compare will offer to upgrade it to %d\n",
			cfg.Source.CompatibilityLevel)
	}
	return nil
}
