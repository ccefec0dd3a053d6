// Package validate implements the ordered compatibility checks a resolved
// endpoint pair must pass before a comparison engine can be selected.
package validate

import (
	"strconv"

	"github.com/vvk-labs/modelcmp/pkg/modelcmp"
)

// check is one named compatibility rule. It returns nil when the rule holds,
// or an IncompatibilityError describing the first violation.
type check struct {
	name string
	run  func(cfg *modelcmp.ComparisonConfig) *modelcmp.IncompatibilityError
}

// Pipeline runs the compatibility checks over a resolved ComparisonConfig.
// Checks run strictly in order and stop at the first failure, so exactly one
// violation is reported even when several hold.
type Pipeline struct {
	checks []check
	logger modelcmp.Logger
}

// NewPipeline creates a Pipeline with the standard check order:
// DirectQuery parity, source format version, target format version,
// compatibility-level range.
func NewPipeline(logger modelcmp.Logger) *Pipeline {
	return &Pipeline{
		logger: logger,
		checks: []check{
			{name: "direct-query-parity", run: checkDirectQueryParity},
			{name: "source-format-version", run: checkSourceFormatVersion},
			{name: "target-format-version", run: checkTargetFormatVersion},
			{name: "compatibility-level-range", run: checkLevelRange},
		},
	}
}

// Validate runs the pipeline. The returned error, if any, is an
// *IncompatibilityError wrapping modelcmp.ErrIncompatible and carries the
// offending field values.
func (p *Pipeline) Validate(cfg *modelcmp.ComparisonConfig) error {
	for _, c := range p.checks {
		if violation := c.run(cfg); violation != nil {
			p.logger.Verbose("check %s failed: %v", c.name, violation)
			return violation
		}
		p.logger.Verbose("check %s passed", c.name)
	}
	return nil
}

func checkDirectQueryParity(cfg *modelcmp.ComparisonConfig) *modelcmp.IncompatibilityError {
	if cfg.Source.DirectQuery == cfg.Target.DirectQuery {
		return nil
	}
	return &modelcmp.IncompatibilityError{
		Kind:        modelcmp.KindDirectQueryMismatch,
		SourceValue: strconv.FormatBool(cfg.Source.DirectQuery),
		TargetValue: strconv.FormatBool(cfg.Target.DirectQuery),
	}
}

func checkSourceFormatVersion(cfg *modelcmp.ComparisonConfig) *modelcmp.IncompatibilityError {
	return checkFormatVersion(&cfg.Source, "source")
}

func checkTargetFormatVersion(cfg *modelcmp.ComparisonConfig) *modelcmp.IncompatibilityError {
	return checkFormatVersion(&cfg.Target, "target")
}

// checkFormatVersion applies only to cloud-hosted datasets; on-premises
// endpoints have no data-source format version to verify.
func checkFormatVersion(e *modelcmp.EndpointDescriptor, side string) *modelcmp.IncompatibilityError {
	if !e.IsCloud() {
		return nil
	}
	if e.DataSourceFormatVersion == modelcmp.SupportedCloudFormatVersion {
		return nil
	}
	violation := &modelcmp.IncompatibilityError{
		Kind:     modelcmp.KindUnsupportedFormatVersion,
		Endpoint: side,
	}
	if side == "source" {
		violation.SourceValue = e.DataSourceFormatVersion
	} else {
		violation.TargetValue = e.DataSourceFormatVersion
	}
	return violation
}

// checkLevelRange verifies each level independently falls within the
// supported range. It deliberately does not reject a source/target mismatch
// that stays within range; that is only caught, for the structured engine,
// by interactive upgrade negotiation.
func checkLevelRange(cfg *modelcmp.ComparisonConfig) *modelcmp.IncompatibilityError {
	if inRange(cfg.Source.CompatibilityLevel) && inRange(cfg.Target.CompatibilityLevel) {
		return nil
	}
	return &modelcmp.IncompatibilityError{
		Kind:        modelcmp.KindLevelOutOfRange,
		SourceValue: strconv.Itoa(cfg.Source.CompatibilityLevel),
		TargetValue: strconv.Itoa(cfg.Target.CompatibilityLevel),
	}
}

func inRange(level int) bool {
	return level >= modelcmp.MinCompatibilityLevel && level <= modelcmp.MaxCompatibilityLevel
}
