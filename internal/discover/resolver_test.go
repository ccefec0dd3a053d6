package discover

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvk-labs/modelcmp/internal/logging"
	"github.com/vvk-labs/modelcmp/pkg/modelcmp"
)

type stubOpener struct {
	infos    map[string]modelcmp.ModelInfo
	infoErr  map[string]error
	openErr  map[string]error
	opened   []string
	closedCt int
}

func (s *stubOpener) Open(ctx context.Context, e *modelcmp.EndpointDescriptor) (modelcmp.EndpointSession, error) {
	s.opened = append(s.opened, e.Address)
	if err := s.openErr[e.Address]; err != nil {
		return nil, err
	}
	return &stubSession{opener: s, info: s.infos[e.Address], infoErr: s.infoErr[e.Address]}, nil
}

type stubSession struct {
	opener  *stubOpener
	info    modelcmp.ModelInfo
	infoErr error
}

func (s *stubSession) ModelInfo(ctx context.Context) (modelcmp.ModelInfo, error) {
	if s.infoErr != nil {
		return modelcmp.ModelInfo{}, s.infoErr
	}
	return s.info, nil
}

func (s *stubSession) SetCompatibilityLevel(ctx context.Context, level int) error {
	return errors.New("resolver must never commit")
}

func (s *stubSession) Close() error {
	s.opener.closedCt++
	return nil
}

func TestResolve_PopulatesBothEndpoints(t *testing.T) {
	opener := &stubOpener{
		infos: map[string]modelcmp.ModelInfo{
			"powerbi://api.powerbi.com/v1.0/myorg/Sales": {
				CompatibilityLevel:      1450,
				DataSourceFormatVersion: modelcmp.SupportedCloudFormatVersion,
				DirectQuery:             true,
			},
			"onprem:2383": {
				CompatibilityLevel:      1200,
				DataSourceFormatVersion: "V1",
				DirectQuery:             true,
			},
		},
	}
	cfg := &modelcmp.ComparisonConfig{
		Source: modelcmp.EndpointDescriptor{Address: "powerbi://api.powerbi.com/v1.0/myorg/Sales", Database: "Sales"},
		Target: modelcmp.EndpointDescriptor{Address: "onprem:2383", Database: "Sales"},
	}

	r := NewResolver(opener, logging.NewNullLogger())
	require.NoError(t, r.Resolve(context.Background(), cfg))

	assert.Equal(t, 1450, cfg.Source.CompatibilityLevel)
	assert.True(t, cfg.Source.Resolved())
	assert.True(t, cfg.Source.DirectQuery)
	assert.Equal(t, modelcmp.SupportedCloudFormatVersion, cfg.Source.DataSourceFormatVersion)

	assert.Equal(t, 1200, cfg.Target.CompatibilityLevel)
	assert.Empty(t, cfg.Target.DataSourceFormatVersion, "format version is only recorded for cloud endpoints")

	assert.Equal(t, []string{"powerbi://api.powerbi.com/v1.0/myorg/Sales", "onprem:2383"}, opener.opened, "source resolves first")
	assert.Equal(t, 2, opener.closedCt, "discovery sessions are transient")
}

func TestResolve_ConnectivityFailure(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	opener := &stubOpener{
		infos:   map[string]modelcmp.ModelInfo{"a:2383": {CompatibilityLevel: 1400}},
		openErr: map[string]error{"b:2383": cause},
	}
	cfg := &modelcmp.ComparisonConfig{
		Source: modelcmp.EndpointDescriptor{Address: "a:2383", Database: "m"},
		Target: modelcmp.EndpointDescriptor{Address: "b:2383", Database: "m"},
	}

	err := NewResolver(opener, logging.NewNullLogger()).Resolve(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, modelcmp.ErrConnectionFailed))
	assert.True(t, errors.Is(err, cause), "the transport cause stays in the chain")
	assert.Contains(t, err.Error(), "b:2383", "error names the unreachable endpoint")
	assert.False(t, errors.Is(err, modelcmp.ErrCancelled))
}

func TestResolve_DiscoveryFailureAfterOpen(t *testing.T) {
	opener := &stubOpener{
		infos:   map[string]modelcmp.ModelInfo{},
		infoErr: map[string]error{"a:2383": errors.New("catalog not found")},
	}
	cfg := &modelcmp.ComparisonConfig{
		Source: modelcmp.EndpointDescriptor{Address: "a:2383", Database: "m"},
		Target: modelcmp.EndpointDescriptor{Address: "b:2383", Database: "m"},
	}

	err := NewResolver(opener, logging.NewNullLogger()).Resolve(context.Background(), cfg)
	assert.True(t, errors.Is(err, modelcmp.ErrConnectionFailed))
	assert.Equal(t, 1, opener.closedCt, "failed session is still closed")
	assert.Len(t, opener.opened, 1, "no attempt on the target after a source failure")
}

func TestResolve_CancelledContext(t *testing.T) {
	opener := &stubOpener{infos: map[string]modelcmp.ModelInfo{}}
	cfg := &modelcmp.ComparisonConfig{
		Source: modelcmp.EndpointDescriptor{Address: "a:2383", Database: "m"},
		Target: modelcmp.EndpointDescriptor{Address: "b:2383", Database: "m"},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewResolver(opener, logging.NewNullLogger()).Resolve(ctx, cfg)
	assert.True(t, errors.Is(err, modelcmp.ErrCancelled))
	assert.Empty(t, opener.opened, "no discovery after cancellation")
}

func TestResolve_CancelDuringTargetDiscovery(t *testing.T) {
	opener := &stubOpener{
		infos:   map[string]modelcmp.ModelInfo{"a:2383": {CompatibilityLevel: 1400}},
		openErr: map[string]error{"b:2383": context.Canceled},
	}
	cfg := &modelcmp.ComparisonConfig{
		Source: modelcmp.EndpointDescriptor{Address: "a:2383", Database: "m"},
		Target: modelcmp.EndpointDescriptor{Address: "b:2383", Database: "m"},
	}

	err := NewResolver(opener, logging.NewNullLogger()).Resolve(context.Background(), cfg)
	assert.True(t, errors.Is(err, modelcmp.ErrCancelled))
	assert.False(t, errors.Is(err, modelcmp.ErrConnectionFailed), "operator abort is not a connectivity failure")
}
