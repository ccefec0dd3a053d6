package modelcmp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// EndpointDescriptor identifies one analytical-model endpoint taking part in a
// comparison. Address is set by the caller; CompatibilityLevel and
// DataSourceFormatVersion are populated by discovery and are meaningless
// before a Resolver has run.
type EndpointDescriptor struct {
	// Address is the opaque connection identifier for the endpoint.
	// Cloud-hosted datasets use the powerbi:// scheme.
	Address string

	// Database is the catalog (model database) name on the endpoint.
	Database string

	// CompatibilityLevel is the detected schema compatibility level.
	// Zero until resolution has completed.
	CompatibilityLevel int

	// DataSourceFormatVersion is the detected data-source format tag.
	// Only populated (and only meaningful) for cloud-hosted endpoints.
	DataSourceFormatVersion string

	// DirectQuery reports whether the model runs in DirectQuery mode.
	DirectQuery bool
}

// IsCloud reports whether the endpoint is a cloud-hosted dataset, determined
// by the connection address scheme.
func (e *EndpointDescriptor) IsCloud() bool {
	return strings.HasPrefix(strings.ToLower(e.Address), CloudSchemePrefix)
}

// Resolved reports whether discovery has populated the compatibility level.
func (e *EndpointDescriptor) Resolved() bool {
	return e.CompatibilityLevel != 0
}

// String returns a short identifier for log and error messages.
func (e *EndpointDescriptor) String() string {
	if e.Database != "" {
		return fmt.Sprintf("%s/%s", e.Address, e.Database)
	}
	return e.Address
}

// ComparisonConfig holds the source/target endpoint pair for one comparison.
// A config is single-owner: it must not be shared between concurrent Build
// calls. The only mutation this package performs on it is raising the target
// compatibility level after an accepted upgrade.
type ComparisonConfig struct {
	// Source is the endpoint changes are read from.
	Source EndpointDescriptor

	// Target is the endpoint the source is compared against. Its persisted
	// compatibility level may be raised during upgrade negotiation.
	Target EndpointDescriptor

	// Interactive enables the upgrade negotiation prompt. When false, the
	// negotiation step is skipped entirely.
	Interactive bool
}

// Validate checks that the config carries enough information to attempt
// resolution. It returns a multi-error if multiple validation failures occur.
func (c *ComparisonConfig) Validate() error {
	var errs []error

	if c.Source.Address == "" {
		errs = append(errs, fmt.Errorf("source address is required: %w", ErrInvalidConfig))
	}
	if c.Target.Address == "" {
		errs = append(errs, fmt.Errorf("target address is required: %w", ErrInvalidConfig))
	}
	if c.Source.Database == "" {
		errs = append(errs, fmt.Errorf("source database is required: %w", ErrInvalidConfig))
	}
	if c.Target.Database == "" {
		errs = append(errs, fmt.Errorf("target database is required: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// Variant identifies which comparison-engine implementation applies to a
// resolved endpoint pair.
type Variant int

const (
	// VariantDimensional is the cube-metadata engine for compatibility
	// levels below the structured threshold.
	VariantDimensional Variant = iota

	// VariantStructured is the tabular-metadata engine for compatibility
	// levels at or above the structured threshold.
	VariantStructured
)

// String returns a human-readable name for the variant.
func (v Variant) String() string {
	switch v {
	case VariantDimensional:
		return "Dimensional"
	case VariantStructured:
		return "Structured"
	default:
		return fmt.Sprintf("Unknown(%d)", int(v))
	}
}

// Comparison is a ready-to-use comparison-engine handle. It is produced only
// when every compatibility check has passed; a Comparison is never returned
// alongside an error.
type Comparison struct {
	// ID correlates this build outcome with external tooling.
	ID uuid.UUID

	// Variant is the engine implementation selected for this pair.
	Variant Variant

	// Config is the final endpoint pair the engine is bound to, including
	// any compatibility-level upgrade accepted during negotiation.
	Config *ComparisonConfig
}
