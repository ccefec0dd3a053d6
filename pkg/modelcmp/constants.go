package modelcmp

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Comparison handle produced successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid definition or parameters
	ExitConnectionError = 11 // Failed to reach an endpoint
	ExitCancelled       = 12 // Operator cancelled during resolution
	ExitIncompatible    = 13 // Endpoints failed a compatibility check
	ExitUpgradeDeclined = 14 // Operator declined the compatibility upgrade
)

const (
	// MinCompatibilityLevel and MaxCompatibilityLevel bound the schema
	// compatibility levels this tool can compare. Levels outside the range
	// belong to formats the comparison engines do not understand.
	MinCompatibilityLevel = 1100
	MaxCompatibilityLevel = 1499

	// StructuredThreshold is the compatibility level at and above which the
	// structured (tabular-metadata) comparison engine applies. Below it the
	// dimensional (cube-metadata) engine is used.
	StructuredThreshold = 1200

	// CloudSchemePrefix identifies cloud-hosted datasets by their connection
	// address. Cloud endpoints carry an additional data-source format check.
	CloudSchemePrefix = "powerbi://"

	// SupportedCloudFormatVersion is the only data-source format version the
	// structured engine can read from cloud-hosted datasets (the enhanced
	// metadata format).
	SupportedCloudFormatVersion = "PowerBI_V3"
)

// DefinitionFileName is the default comparison-definition file name looked up
// by the CLI when no explicit path is given.
const DefinitionFileName = "modelcmp.yaml"
