// Package cli wires the modelcmp commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const asciiLogo = `                      _      _
  _ __ ___   ___   __| | ___| | ___ _ __ ___  _ __
 | '_ ` + "`" + ` _ \ / _ \ / _` + "`" + ` |/ _ \ |/ __| '_ ` + "`" + ` _ \| '_ \
 | | | | | | (_) | (_| |  __/ | (__| | | | | | |_) |
 |_| |_| |_|\___/ \__,_|\___|_|\___|_| |_| |_| .__/
                                             |_|`

var rootCmd = &cobra.Command{
	Use:   "modelcmp",
	Short: "Compatibility gate for analytical-model comparisons",
	Long: asciiLogo + `

modelcmp decides whether two analytical-model endpoints can be diffed against
each other and which comparison engine applies: the structured engine for
tabular-format models (compatibility level 1200 and above) or the dimensional
engine for cube-format models.

When the source model's compatibility level is ahead of the target's,
modelcmp can interactively upgrade the target to match before the comparison
engine is handed off.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid definition or parameters
  11 - Endpoint connection failed
  12 - Cancelled by operator during discovery
  13 - Models failed a compatibility check
  14 - Operator declined the compatibility upgrade`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for modelcmp")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
