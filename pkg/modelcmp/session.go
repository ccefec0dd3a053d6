package modelcmp

import "context"

// SessionOpener establishes metadata sessions against model endpoints.
// Different implementations handle the transport and authentication details
// (on-premises XMLA servers, cloud-hosted datasets with bearer tokens, fakes
// in tests).
type SessionOpener interface {
	// Open establishes a session to the endpoint described by the
	// descriptor. Opening may transparently bring the endpoint into a
	// connectable state (e.g. resuming a suspended workspace); that is a
	// prerequisite of discovery and opaque to callers.
	// The returned session must be closed by the caller when done.
	Open(ctx context.Context, endpoint *EndpointDescriptor) (EndpointSession, error)
}

// EndpointSession is a live metadata session against one model endpoint.
// Sessions are transient: opened for discovery or a single commit, then
// closed. Implementations need not be safe for concurrent use.
type EndpointSession interface {
	// ModelInfo reads the endpoint's schema compatibility level and, where
	// the endpoint exposes one, its data-source format version.
	ModelInfo(ctx context.Context) (ModelInfo, error)

	// SetCompatibilityLevel updates the persisted compatibility-level
	// attribute of the model database and commits the change.
	SetCompatibilityLevel(ctx context.Context, level int) error

	// Close releases the session. Safe to call more than once.
	Close() error
}

// ModelInfo is the discovery result for one endpoint.
type ModelInfo struct {
	// CompatibilityLevel is the schema compatibility level of the model
	// database.
	CompatibilityLevel int

	// DataSourceFormatVersion is the model's data-source format tag.
	// Empty when the endpoint does not expose one.
	DataSourceFormatVersion string

	// DirectQuery reports the model's query-execution mode as detected on
	// the endpoint. Callers that already know the mode may ignore it.
	DirectQuery bool
}
