// Package discover populates comparison configs with the real compatibility
// metadata of their endpoints.
package discover

import (
	"context"
	"errors"
	"fmt"

	"github.com/vvk-labs/modelcmp/pkg/modelcmp"
)

// Resolver performs remote discovery over both endpoints of a comparison
// config: it reads each model's compatibility level, DirectQuery mode and,
// for cloud-hosted datasets, the data-source format version.
type Resolver struct {
	opener modelcmp.SessionOpener
	logger modelcmp.Logger
}

// NewResolver creates a Resolver that opens sessions through opener.
func NewResolver(opener modelcmp.SessionOpener, logger modelcmp.Logger) *Resolver {
	return &Resolver{
		opener: opener,
		logger: logger,
	}
}

// Resolve populates both descriptors of cfg in place, source first.
//
// Cancellation of ctx before both endpoints are resolved is reported as
// modelcmp.ErrCancelled; the caller must abandon the operation, and no
// remote state has been touched. Any other failure to reach an endpoint is
// terminal and matches modelcmp.ErrConnectionFailed. No retries are made.
func (r *Resolver) Resolve(ctx context.Context, cfg *modelcmp.ComparisonConfig) error {
	if err := r.resolveEndpoint(ctx, &cfg.Source, "source"); err != nil {
		return err
	}
	return r.resolveEndpoint(ctx, &cfg.Target, "target")
}

func (r *Resolver) resolveEndpoint(ctx context.Context, e *modelcmp.EndpointDescriptor, side string) error {
	if err := ctx.Err(); err != nil {
		return modelcmp.ErrCancelled
	}

	r.logger.Verbose("resolving %s endpoint %s", side, e.String())

	session, err := r.opener.Open(ctx, e)
	if err != nil {
		return r.classify(err, side, e)
	}
	defer session.Close()

	info, err := session.ModelInfo(ctx)
	if err != nil {
		return r.classify(err, side, e)
	}

	e.CompatibilityLevel = info.CompatibilityLevel
	e.DirectQuery = info.DirectQuery
	if e.IsCloud() {
		e.DataSourceFormatVersion = info.DataSourceFormatVersion
	}

	r.logger.Verbose("%s endpoint %s: compatibility level %d, DirectQuery %t",
		side, e.String(), e.CompatibilityLevel, e.DirectQuery)
	return nil
}

// classify maps a discovery failure to the cancelled outcome when the
// operator aborted, and to a connectivity error otherwise.
func (r *Resolver) classify(err error, side string, e *modelcmp.EndpointDescriptor) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, modelcmp.ErrCancelled) {
		return modelcmp.ErrCancelled
	}
	return fmt.Errorf("discovering %s endpoint %s: %w: %w", side, e.String(), modelcmp.ErrConnectionFailed, err)
}
