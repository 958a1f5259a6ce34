package hyperg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"hypergctl/internal/logging"
)

// DefaultRPCPort is the daemon's local control port.
const DefaultRPCPort = 3292

const (
	apiPath             = "/api"
	userAgent           = "hypergctl/0.1.0"
	diagnosticBodyLimit = 2048
)

// Client issues JSON commands to a hyperg daemon over its loopback RPC
// endpoint. The zero value is not usable; construct with New.
type Client struct {
	baseURL    string
	telemetry  *TelemetryContext
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes client construction.
type Option func(*Client)

// WithRPCPort points the client at a daemon listening on a non-default
// local port. Ports outside 1-65535 keep the default.
func WithRPCPort(port int) Option {
	return func(c *Client) {
		if port >= 1 && port <= 65535 {
			c.baseURL = rpcBaseURL(port)
		}
	}
}

// WithTelemetry attaches operator telemetry to every request the client
// sends. A nil context leaves requests untagged.
func WithTelemetry(tc *TelemetryContext) Option {
	return func(c *Client) {
		c.telemetry = tc
	}
}

// WithHTTPClient overrides the underlying HTTP client. The default carries
// no timeout: downloads legitimately block until peers deliver, so
// deadlines belong to the caller's context.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.With(logging.String(logging.FieldComponent, "hyperg-client"))
		}
	}
}

// New builds a client for a daemon on the default local port.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    rpcBaseURL(DefaultRPCPort),
		httpClient: &http.Client{},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func rpcBaseURL(port int) string {
	return fmt.Sprintf("http://127.0.0.1:%d%s", port, apiPath)
}

// Identify returns the daemon's node ID and version.
func (c *Client) Identify(ctx context.Context) (*Identity, error) {
	req := idRequest{Command: commandID, User: c.telemetry.wireUser()}
	var resp idResponse
	if err := c.call(ctx, commandID, req, &resp); err != nil {
		return nil, err
	}
	if resp.ID == nil || resp.Version == nil {
		return nil, wrapOp(ErrProtocol, commandID, "response missing id or version", nil)
	}
	return &Identity{NodeID: *resp.ID, Version: *resp.Version}, nil
}

// Addresses returns the endpoint the daemon advertises to peers.
func (c *Client) Addresses(ctx context.Context) (*AddressSpec, error) {
	req := addressesRequest{Command: commandAddresses, User: c.telemetry.wireUser()}
	var resp addressesResponse
	if err := c.call(ctx, commandAddresses, req, &resp); err != nil {
		return nil, err
	}
	if resp.Addresses == nil {
		return nil, wrapOp(ErrProtocol, commandAddresses, "response missing addresses", nil)
	}
	return resp.Addresses, nil
}

// Upload publishes the given local files and returns the content hash peers
// use to fetch them. Paths must already be absolute; each file is shared
// under its basename. A non-nil timeout bounds daemon-side sharing in
// seconds; nil shares indefinitely.
func (c *Client) Upload(ctx context.Context, paths []string, timeout *float64) (string, error) {
	files := make(map[string]string, len(paths))
	for _, path := range paths {
		files[path] = filepath.Base(path)
	}
	req := uploadRequest{
		Command: commandUpload,
		Files:   files,
		Timeout: timeout,
		User:    c.telemetry.wireUser(),
	}
	var resp uploadResponse
	if err := c.call(ctx, commandUpload, req, &resp); err != nil {
		return "", err
	}
	if resp.Hash == nil {
		return "", wrapOp(ErrProtocol, commandUpload, "response missing hash", nil)
	}
	return *resp.Hash, nil
}

// Download fetches the file set named by filesHash into destDir, asking the
// daemon to try the given peers. It returns the daemon's per-file results
// verbatim. A non-nil timeout bounds the daemon-side transfer in seconds.
func (c *Client) Download(ctx context.Context, filesHash, destDir string, peers []PeerAddress, timeout *float64) ([]json.RawMessage, error) {
	wirePeers := make([]wirePeer, len(peers))
	for i, peer := range peers {
		wirePeers[i] = wirePeer{addr: peer}
	}
	req := downloadRequest{
		Command: commandDownload,
		Hash:    filesHash,
		Dest:    destDir,
		Peers:   wirePeers,
		Timeout: timeout,
		User:    c.telemetry.wireUser(),
	}
	var resp downloadResponse
	if err := c.call(ctx, commandDownload, req, &resp); err != nil {
		return nil, err
	}
	if resp.Files == nil {
		return nil, wrapOp(ErrProtocol, commandDownload, "response missing files", nil)
	}
	return *resp.Files, nil
}

// call posts one command envelope and decodes the response into out.
func (c *Client) call(ctx context.Context, command string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return wrapOp(ErrProtocol, command, "encode request", err)
	}

	requestID := uuid.NewString()
	c.logger.DebugContext(ctx, "sending rpc command",
		logging.String(logging.FieldCommand, command),
		logging.String(logging.FieldCorrelationID, requestID),
		logging.String("url", c.baseURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return wrapOp(ErrTransport, command, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		return wrapOp(ErrTransport, command, fmt.Sprintf("post %s", c.baseURL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusInternalServerError {
		// The daemon sometimes reports failures with an error status but a
		// well-formed JSON body. Surface the raw body for diagnostics and
		// still attempt the decode.
		peek, readErr := io.ReadAll(io.LimitReader(resp.Body, diagnosticBodyLimit))
		if readErr != nil {
			return wrapOp(ErrTransport, command, fmt.Sprintf("read response (status %d)", resp.StatusCode), readErr)
		}
		c.logger.WarnContext(ctx, "daemon returned error status",
			logging.String(logging.FieldCommand, command),
			logging.String(logging.FieldCorrelationID, requestID),
			logging.Int("status", resp.StatusCode),
			logging.String("body", strings.TrimSpace(string(peek))))
		rest, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return wrapOp(ErrTransport, command, fmt.Sprintf("read response (status %d)", resp.StatusCode), readErr)
		}
		if err := json.Unmarshal(append(peek, rest...), out); err != nil {
			return wrapOp(ErrProtocol, command, fmt.Sprintf("decode response (status %d)", resp.StatusCode), err)
		}
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return wrapOp(ErrProtocol, command, "decode response", err)
	}

	c.logger.DebugContext(ctx, "rpc command completed",
		logging.String(logging.FieldCommand, command),
		logging.String(logging.FieldCorrelationID, requestID),
		logging.Duration("latency", latency))
	return nil
}
