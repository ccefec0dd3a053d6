package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvk-labs/modelcmp/internal/config"
	"github.com/vvk-labs/modelcmp/internal/engine"
	"github.com/vvk-labs/modelcmp/internal/logging"
	"github.com/vvk-labs/modelcmp/internal/tui"
	"github.com/vvk-labs/modelcmp/internal/ui"
	"github.com/vvk-labs/modelcmp/internal/xmla"
	"github.com/vvk-labs/modelcmp/pkg/modelcmp"
)

var compareCmd = &cobra.Command{
	Use:   "compare [definition-file]",
	Short: "Validate two model endpoints and produce a comparison handle",
	Long: `Resolve both endpoints of a comparison definition, run the
compatibility checks, and select the comparison engine.

When the structured engine is selected and the source compatibility level is
ahead of the target's, an interactive prompt offers to upgrade the target.
The upgrade is committed to the live target endpoint.

The definition file defaults to ` + modelcmp.DefinitionFileName + ` in the
current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().Bool("non-interactive", false, "Never prompt; skip upgrade negotiation entirely")
	compareCmd.Flags().BoolP("yes", "y", false, "Pre-approve the compatibility upgrade prompt")
	compareCmd.Flags().String("env-file", "", "Load credentials from a dotenv file before connecting")
}

func runCompare(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	nonInteractive, _ := cmd.Flags().GetBool("non-interactive")
	autoYes, _ := cmd.Flags().GetBool("yes")
	envFile, _ := cmd.Flags().GetString("env-file")

	if err := loadEnvFile(envFile, logger); err != nil {
		return err
	}

	cfg, err := loadDefinition(args, logger)
	if err != nil {
		return err
	}

	// --yes pre-approves the upgrade, so negotiation stays enabled even
	// when no terminal is attached. Otherwise negotiation requires a real
	// interactive session.
	interactive := autoYes || (!nonInteractive && tui.IsInteractive())
	cfg.Interactive = interactive

	factory := engine.NewFactory(newSessionOpener(cfg, logger), pickConfirmer(autoYes), logger)

	comparison, err := factory.Build(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	fmt.Printf("engine=%s source_level=%d target_level=%d id=%s\n",
		comparison.Variant,
		comparison.Config.Source.CompatibilityLevel,
		comparison.Config.Target.CompatibilityLevel,
		comparison.ID)
	return nil
}

// loadDefinition reads the definition file named in args, or the default
// file, and converts it to a runtime config.
func loadDefinition(args []string, logger modelcmp.Logger) (*modelcmp.ComparisonConfig, error) {
	path := modelcmp.DefinitionFileName
	if len(args) > 0 {
		path = args[0]
	}

	logger.Verbose("loading comparison definition from %s", path)
	def, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return def.ToComparisonConfig(false), nil
}

// loadEnvFile loads a dotenv file into the process environment when one was
// requested.
func loadEnvFile(path string, logger modelcmp.Logger) error {
	if path == "" {
		return nil
	}
	logger.Verbose("loading environment from %s", path)
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// pickConfirmer chooses the Confirmer implementation for this run.
func pickConfirmer(autoYes bool) modelcmp.Confirmer {
	if autoYes {
		return ui.NewAutoConfirmer()
	}
	if tui.IsInteractive() {
		return tui.NewConfirmPrompt()
	}
	return ui.NewConsoleConfirmer()
}

// newSessionOpener builds the XMLA opener, attaching an Azure token provider
// when either endpoint is a cloud-hosted dataset. Service Principal
// credentials from the environment win over the default credential chain.
func newSessionOpener(cfg *modelcmp.ComparisonConfig, logger modelcmp.Logger) modelcmp.SessionOpener {
	needsCloud := cfg.Source.IsCloud() || cfg.Target.IsCloud()
	if !needsCloud {
		return xmla.NewOpener(nil, nil, logger)
	}

	tenantID := os.Getenv("AZURE_TENANT_ID")
	clientID := os.Getenv("AZURE_CLIENT_ID")
	clientSecret := os.Getenv("AZURE_CLIENT_SECRET")

	if tenantID != "" && clientID != "" && clientSecret != "" {
		provider, err := xmla.NewServicePrincipalProvider(tenantID, clientID, clientSecret)
		if err == nil {
			logger.Verbose("authenticating cloud endpoints as %s", provider)
			return xmla.NewOpener(nil, provider, logger)
		}
		logger.Error("service principal setup failed, falling back to default credentials: %v", err)
	}

	provider, err := xmla.NewDefaultCredentialProvider()
	if err != nil {
		// Leave the opener without a provider; opening the cloud endpoint
		// will surface a clear configuration error.
		logger.Error("azure credential chain unavailable: %v", err)
		return xmla.NewOpener(nil, nil, logger)
	}
	return xmla.NewOpener(nil, provider, logger)
}
