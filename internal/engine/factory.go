package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vvk-labs/modelcmp/internal/discover"
	"github.com/vvk-labs/modelcmp/internal/validate"
	"github.com/vvk-labs/modelcmp/pkg/modelcmp"
)

// Factory sequences discovery, validation, variant selection and upgrade
// negotiation, and produces the comparison-engine handle. Success and failure
// are mutually exclusive: Build never returns a partially constructed handle.
type Factory struct {
	resolver  *discover.Resolver
	pipeline  *validate.Pipeline
	negotiate *Negotiator
	logger    modelcmp.Logger
}

// NewFactory wires a Factory from its collaborators. opener is used both for
// discovery and for the upgrade commit; confirmer is consulted only when
// negotiation is needed.
func NewFactory(opener modelcmp.SessionOpener, confirmer modelcmp.Confirmer, logger modelcmp.Logger) *Factory {
	return &Factory{
		resolver:  discover.NewResolver(opener, logger),
		pipeline:  validate.NewPipeline(logger),
		negotiate: NewNegotiator(opener, confirmer, logger),
		logger:    logger,
	}
}

// Build resolves and validates cfg, selects the engine variant and, when the
// structured engine faces a lower-level target in interactive mode, runs the
// upgrade negotiation. On success it returns a Comparison bound to the
// (possibly upgraded) config.
//
// Outcomes are distinguished with errors.Is: modelcmp.ErrCancelled for an
// operator abort during resolution, modelcmp.ErrIncompatible for a failed
// compatibility check or declined upgrade, modelcmp.ErrConnectionFailed for
// an unreachable endpoint.
//
// cfg is single-owner for the duration of the call and must not be shared
// with a concurrent Build.
func (f *Factory) Build(ctx context.Context, cfg *modelcmp.ComparisonConfig) (*modelcmp.Comparison, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := f.resolver.Resolve(ctx, cfg); err != nil {
		return nil, err
	}

	if err := f.pipeline.Validate(cfg); err != nil {
		return nil, err
	}

	variant := SelectVariant(cfg.Source.CompatibilityLevel)
	f.logger.Verbose("selected %s engine for source compatibility level %d",
		variant, cfg.Source.CompatibilityLevel)

	// Negotiation is confined to interactive runs. Outside of them a
	// within-range level mismatch passes through unresolved; the handle is
	// built against the mismatched pair.
	if cfg.Interactive && Needed(variant, cfg) {
		if err := f.negotiate.Negotiate(ctx, cfg); err != nil {
			return nil, err
		}
	}

	cmp := &modelcmp.Comparison{
		ID:      uuid.New(),
		Variant: variant,
		Config:  cfg,
	}

	f.logger.Info("Comparison ready: %s engine, source level %d, target level %d",
		variant, cfg.Source.CompatibilityLevel, cfg.Target.CompatibilityLevel)
	return cmp, nil
}

// String describes the factory configuration for diagnostics.
func (f *Factory) String() string {
	return fmt.Sprintf("Factory(threshold=%d, range=[%d,%d])",
		modelcmp.StructuredThreshold, modelcmp.MinCompatibilityLevel, modelcmp.MaxCompatibilityLevel)
}
