// Package xmla implements metadata sessions against analytical-model
// endpoints over the XMLA HTTP surface: SOAP Discover for reading model
// properties and SOAP Execute for committing changes.
//
// There is no Go client library for this protocol, so the package speaks the
// wire format directly on top of net/http.
package xmla

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vvk-labs/modelcmp/pkg/modelcmp"
)

const (
	soapActionDiscover = "urn:schemas-microsoft-com:xml-analysis:Discover"
	soapActionExecute  = "urn:schemas-microsoft-com:xml-analysis:Execute"

	// requestCatalogs is the Discover request type for the catalogs rowset.
	// On modern servers it carries the model's default query mode and
	// data-source version alongside the compatibility level.
	requestCatalogs = "DBSCHEMA_CATALOGS"

	// defaultRequestTimeout bounds a single discover or execute round trip
	// when the caller's context carries no deadline.
	defaultRequestTimeout = 2 * time.Minute
)

// Rowset column names read by this package.
const (
	colCompatibilityLevel = "COMPATIBILITY_LEVEL"
	colDefaultMode        = "DEFAULT_MODE"
	colDataSourceVersion  = "DATA_SOURCE_VERSION"
)

// directQueryMode is the DEFAULT_MODE value reported by models running in
// DirectQuery mode.
const directQueryMode = "DirectQuery"

// Opener opens XMLA sessions. It implements modelcmp.SessionOpener.
// Cloud-hosted endpoints are authenticated with bearer tokens from the
// configured TokenProvider; on-premises endpoints are reached anonymously or
// through ambient transport credentials.
type Opener struct {
	client *http.Client
	tokens TokenProvider
	logger modelcmp.Logger
}

// NewOpener creates an Opener. tokens may be nil when no cloud-hosted
// endpoint will be opened; opening a powerbi:// address without a provider
// is an error.
func NewOpener(client *http.Client, tokens TokenProvider, logger modelcmp.Logger) *Opener {
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &Opener{
		client: client,
		tokens: tokens,
		logger: logger,
	}
}

// Open establishes a session to the endpoint. For cloud-hosted datasets this
// acquires a bearer token up front; the service resumes a suspended workspace
// on first request, so no separate wake step exists at this layer.
func (o *Opener) Open(ctx context.Context, endpoint *modelcmp.EndpointDescriptor) (modelcmp.EndpointSession, error) {
	url, err := endpointURL(endpoint.Address)
	if err != nil {
		return nil, err
	}

	s := &session{
		client:  o.client,
		url:     url,
		catalog: endpoint.Database,
		logger:  o.logger,
	}

	if endpoint.IsCloud() {
		if o.tokens == nil {
			return nil, fmt.Errorf("endpoint %s requires Azure authentication but no token provider is configured", endpoint.Address)
		}
		token, expires, err := o.tokens.GetToken(ctx)
		if err != nil {
			return nil, err
		}
		o.logger.Verbose("acquired token for %s (expires %s)", endpoint.Address, expires.Format(time.RFC3339))
		s.bearer = token
	}

	return s, nil
}

// endpointURL maps a connection address to the HTTP XMLA endpoint.
//
//	powerbi://host/path  -> https://host/path/xmla
//	http(s)://...        -> used as-is
//	host[:port]          -> http://host[:port]/olap/msmdpump.dll
func endpointURL(address string) (string, error) {
	switch {
	case address == "":
		return "", fmt.Errorf("endpoint address is empty")
	case strings.HasPrefix(strings.ToLower(address), modelcmp.CloudSchemePrefix):
		rest := strings.TrimSuffix(address[len(modelcmp.CloudSchemePrefix):], "/")
		return "https://" + rest + "/xmla", nil
	case strings.HasPrefix(address, "http://"), strings.HasPrefix(address, "https://"):
		return address, nil
	default:
		return "http://" + address + "/olap/msmdpump.dll", nil
	}
}

// session is a live XMLA session. Not safe for concurrent use; sessions are
// transient and single-purpose.
type session struct {
	client  *http.Client
	url     string
	catalog string
	bearer  string
	logger  modelcmp.Logger
	closed  bool
}

var _ modelcmp.EndpointSession = (*session)(nil)

// ModelInfo reads the catalog row for the session's model database.
func (s *session) ModelInfo(ctx context.Context) (modelcmp.ModelInfo, error) {
	body, err := s.post(ctx, soapActionDiscover, discoverRequest(requestCatalogs, s.catalog))
	if err != nil {
		return modelcmp.ModelInfo{}, err
	}

	rows, err := parseDiscoverResponse(body)
	if err != nil {
		return modelcmp.ModelInfo{}, err
	}
	if len(rows) == 0 {
		return modelcmp.ModelInfo{}, fmt.Errorf("catalog %q not found on %s", s.catalog, s.url)
	}

	r := rows[0]
	level, err := strconv.Atoi(r.cell(colCompatibilityLevel))
	if err != nil {
		return modelcmp.ModelInfo{}, fmt.Errorf("catalog %q reports unreadable compatibility level %q", s.catalog, r.cell(colCompatibilityLevel))
	}

	return modelcmp.ModelInfo{
		CompatibilityLevel:      level,
		DataSourceFormatVersion: r.cell(colDataSourceVersion),
		DirectQuery:             r.cell(colDefaultMode) == directQueryMode,
	}, nil
}

// SetCompatibilityLevel commits a new compatibility level to the model
// database via a TMSL alter statement.
func (s *session) SetCompatibilityLevel(ctx context.Context, level int) error {
	statement, err := alterCompatibilityLevel(s.catalog, level)
	if err != nil {
		return err
	}

	s.logger.Verbose("executing compatibility level alter on %s/%s", s.url, s.catalog)

	body, err := s.post(ctx, soapActionExecute, executeRequest(statement, s.catalog))
	if err != nil {
		return err
	}
	return parseExecuteResponse(body)
}

// Close releases the session. The underlying HTTP client is shared and
// stays open; Close only marks the session unusable.
func (s *session) Close() error {
	s.closed = true
	return nil
}

func (s *session) post(ctx context.Context, action, envelope string) ([]byte, error) {
	if s.closed {
		return nil, fmt.Errorf("session to %s is closed", s.url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, strings.NewReader(envelope))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", action)
	if s.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+s.bearer)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned HTTP %d: %s", s.url, resp.StatusCode, firstLine(body))
	}
	return body, nil
}

// alterCompatibilityLevel renders the TMSL statement that persists a new
// compatibility level on a database.
func alterCompatibilityLevel(database string, level int) (string, error) {
	cmd := map[string]any{
		"alter": map[string]any{
			"object": map[string]any{
				"database": database,
			},
			"database": map[string]any{
				"compatibilityLevel": level,
			},
		},
	}
	out, err := json.Marshal(cmd)
	if err != nil {
		return "", fmt.Errorf("rendering alter statement: %w", err)
	}
	return string(out), nil
}

func firstLine(body []byte) string {
	text := strings.TrimSpace(string(body))
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	return text
}
