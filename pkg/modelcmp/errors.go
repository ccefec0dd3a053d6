package modelcmp

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	cmp, err := factory.Build(ctx, config)
//	if errors.Is(err, modelcmp.ErrCancelled) {
//	    // Operator aborted; not a failure, do not log as an error.
//	}
var (
	// ErrInvalidConfig indicates the provided comparison config is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrIncompatible indicates the endpoint pair failed a compatibility check.
	ErrIncompatible = errors.New("models are not compatible for comparison")

	// ErrCancelled indicates the operator aborted during resolution. It is a
	// first-class outcome, not a failure; callers must check for it before
	// treating the absence of a handle as an error.
	ErrCancelled = errors.New("comparison cancelled")

	// ErrConnectionFailed indicates an endpoint could not be reached during
	// discovery or the upgrade commit.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrUpgradeDeclined indicates the operator declined the compatibility
	// level upgrade offered during negotiation.
	ErrUpgradeDeclined = errors.New("upgrade declined")

	// ErrDefinitionNotFound indicates the comparison-definition file does
	// not exist.
	ErrDefinitionNotFound = errors.New("comparison definition not found")
)

// IncompatibilityKind classifies which compatibility check a pair failed.
type IncompatibilityKind int

const (
	// KindDirectQueryMismatch: source and target disagree on DirectQuery mode.
	KindDirectQueryMismatch IncompatibilityKind = iota
	// KindUnsupportedFormatVersion: a cloud-hosted endpoint uses a
	// data-source format version outside the supported set.
	KindUnsupportedFormatVersion
	// KindLevelOutOfRange: a compatibility level falls outside the
	// supported range.
	KindLevelOutOfRange
	// KindMixedLevels: source and target compatibility levels differ and
	// the difference was not resolved by an upgrade.
	KindMixedLevels
)

// IncompatibilityError is a structured compatibility failure carrying the
// concrete offending values, so the message is self-contained for the caller.
// It wraps ErrIncompatible for errors.Is checks.
type IncompatibilityError struct {
	Kind IncompatibilityKind

	// Endpoint names the offending side ("source" or "target") for checks
	// that apply to a single endpoint; empty for pairwise checks.
	Endpoint string

	// SourceValue and TargetValue hold the offending field values rendered
	// as strings (DirectQuery flags, compatibility levels, format version).
	SourceValue string
	TargetValue string
}

// Error implements the error interface.
func (e *IncompatibilityError) Error() string {
	switch e.Kind {
	case KindDirectQueryMismatch:
		return fmt.Sprintf(
			"source DirectQuery mode is %s and target is %s; models must use the same query mode to be compared",
			e.SourceValue, e.TargetValue)
	case KindUnsupportedFormatVersion:
		value := e.SourceValue
		if e.Endpoint == "target" {
			value = e.TargetValue
		}
		return fmt.Sprintf(
			"%s dataset has data-source format version %q; only %q is supported for comparison",
			e.Endpoint, value, SupportedCloudFormatVersion)
	case KindLevelOutOfRange:
		return fmt.Sprintf(
			"source compatibility level is %s and target is %s; both must be within [%d, %d]",
			e.SourceValue, e.TargetValue, MinCompatibilityLevel, MaxCompatibilityLevel)
	case KindMixedLevels:
		return fmt.Sprintf(
			"source compatibility level is %s and target is %s, which is not supported for comparison",
			e.SourceValue, e.TargetValue)
	default:
		return "models are not compatible for comparison"
	}
}

// Unwrap lets errors.Is(err, ErrIncompatible) match.
func (e *IncompatibilityError) Unwrap() error {
	return ErrIncompatible
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrCancelled):
		return ExitCancelled
	case errors.Is(err, ErrUpgradeDeclined):
		return ExitUpgradeDeclined
	case errors.Is(err, ErrIncompatible):
		return ExitIncompatible
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrDefinitionNotFound):
		return ExitConfigError
	}

	// Check for common connection error patterns from the transport layer.
	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
