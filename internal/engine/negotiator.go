package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/vvk-labs/modelcmp/pkg/modelcmp"
)

// upgradePromptFormat is the fixed wording of the one interactive question
// this tool ever asks. Arguments: source level, target level, source level.
const upgradePromptFormat = "Source compatibility level is %d and target is %d, " +
	"which is not supported for comparison. Do you want to upgrade the target to %d?"

// Negotiator resolves a compatibility-level mismatch between a structured
// source and a lower-level target by offering to raise the target's level.
// It is the sole interactive decision point in the build sequence.
type Negotiator struct {
	opener    modelcmp.SessionOpener
	confirmer modelcmp.Confirmer
	logger    modelcmp.Logger
}

// NewNegotiator creates a Negotiator committing upgrades through opener and
// asking the operator through confirmer.
func NewNegotiator(opener modelcmp.SessionOpener, confirmer modelcmp.Confirmer, logger modelcmp.Logger) *Negotiator {
	return &Negotiator{
		opener:    opener,
		confirmer: confirmer,
		logger:    logger,
	}
}

// Needed reports whether negotiation applies: the structured engine was
// selected and the source level is strictly above the target level.
func Needed(variant modelcmp.Variant, cfg *modelcmp.ComparisonConfig) bool {
	return variant == modelcmp.VariantStructured &&
		cfg.Source.CompatibilityLevel > cfg.Target.CompatibilityLevel
}

// Negotiate offers the upgrade and, on acceptance, persists the source's
// compatibility level to the target endpoint over a transient session and
// mirrors the new level on the in-memory descriptor.
//
// A declined offer returns the mixed-levels incompatibility error citing both
// levels, additionally matching modelcmp.ErrUpgradeDeclined. A commit that
// cannot reach the target matches modelcmp.ErrConnectionFailed, like a
// discovery failure.
func (n *Negotiator) Negotiate(ctx context.Context, cfg *modelcmp.ComparisonConfig) error {
	sourceLevel := cfg.Source.CompatibilityLevel
	targetLevel := cfg.Target.CompatibilityLevel

	prompt := fmt.Sprintf(upgradePromptFormat, sourceLevel, targetLevel, sourceLevel)
	accepted, err := n.confirmer.Confirm(ctx, prompt)
	if err != nil {
		return fmt.Errorf("upgrade confirmation failed: %w", err)
	}

	if !accepted {
		n.logger.Verbose("upgrade to %d declined by operator", sourceLevel)
		return errors.Join(modelcmp.ErrUpgradeDeclined, &modelcmp.IncompatibilityError{
			Kind:        modelcmp.KindMixedLevels,
			SourceValue: strconv.Itoa(sourceLevel),
			TargetValue: strconv.Itoa(targetLevel),
		})
	}

	n.logger.Info("Upgrading target %s to compatibility level %d", cfg.Target.String(), sourceLevel)

	session, err := n.opener.Open(ctx, &cfg.Target)
	if err != nil {
		return classifyCommitFailure("opening target session for upgrade", cfg, err)
	}
	defer session.Close()

	if err := session.SetCompatibilityLevel(ctx, sourceLevel); err != nil {
		return classifyCommitFailure(fmt.Sprintf("committing compatibility level %d", sourceLevel), cfg, err)
	}

	cfg.Target.CompatibilityLevel = sourceLevel
	return nil
}

// classifyCommitFailure maps an upgrade-commit failure the same way discovery
// failures are mapped: an operator abort becomes the cancelled outcome, and
// anything else is a terminal connectivity failure against the target.
func classifyCommitFailure(action string, cfg *modelcmp.ComparisonConfig, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, modelcmp.ErrCancelled) {
		return modelcmp.ErrCancelled
	}
	return fmt.Errorf("%s on %s: %w: %w", action, cfg.Target.String(), modelcmp.ErrConnectionFailed, err)
}
