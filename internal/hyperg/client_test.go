package hyperg_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"hypergctl/internal/hyperg"
)

// newTestClient stands up a fake daemon and points a client at its port.
// The captured channel receives the decoded body of every request.
func newTestClient(t *testing.T, captured chan<- map[string]any, response string, opts ...hyperg.Option) *hyperg.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api" {
			t.Errorf("path = %s, want /api", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q, want application/json", ct)
		}
		if captured != nil {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				t.Errorf("read request body: %v", err)
			}
			var decoded map[string]any
			if err := json.Unmarshal(body, &decoded); err != nil {
				t.Errorf("decode request body: %v", err)
			}
			captured <- decoded
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return hyperg.New(append(opts, hyperg.WithRPCPort(serverPort(t, server)))...)
}

func serverPort(t *testing.T, server *httptest.Server) int {
	t.Helper()
	parsed, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	port, err := strconv.Atoi(parsed.Port())
	if err != nil {
		t.Fatalf("parse server port: %v", err)
	}
	return port
}

func TestIdentifySendsCommandAndParsesIdentity(t *testing.T) {
	captured := make(chan map[string]any, 1)
	client := newTestClient(t, captured, `{"id":"0xdeadbeef","version":"0.3.0"}`)

	identity, err := client.Identify(context.Background())
	if err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}
	if identity.NodeID != "0xdeadbeef" || identity.Version != "0.3.0" {
		t.Fatalf("unexpected identity: %#v", identity)
	}

	body := <-captured
	if body["command"] != "id" {
		t.Fatalf("command = %v, want id", body["command"])
	}
	if _, ok := body["user"]; ok {
		t.Fatal("expected no user key without telemetry")
	}
}

func TestIdentifyAttachesTelemetry(t *testing.T) {
	captured := make(chan map[string]any, 1)
	telemetry := hyperg.NewTelemetryContext("0xnode", hyperg.EnvMainnet, "rack-7", "0.14.0")
	client := newTestClient(t, captured, `{"id":"n","version":"v"}`, hyperg.WithTelemetry(telemetry))

	if _, err := client.Identify(context.Background()); err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}

	body := <-captured
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user object, got %v", body["user"])
	}
	if user["id"] != "0xnode" {
		t.Fatalf("user id = %v", user["id"])
	}
	if user["env"] != "mainnet" {
		t.Fatalf("user env = %v", user["env"])
	}
	if user["nodeName"] != "rack-7" {
		t.Fatalf("user nodeName = %v", user["nodeName"])
	}
	if user["golemVersion"] != "0.14.0" {
		t.Fatalf("user golemVersion = %v", user["golemVersion"])
	}
}

func TestTelemetryOmitsEmptyOptionalFields(t *testing.T) {
	captured := make(chan map[string]any, 1)
	telemetry := hyperg.NewTelemetryContext("0xnode", hyperg.EnvTestnet, "", "")
	client := newTestClient(t, captured, `{"id":"n","version":"v"}`, hyperg.WithTelemetry(telemetry))

	if _, err := client.Identify(context.Background()); err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}

	body := <-captured
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user object, got %v", body["user"])
	}
	if _, present := user["nodeName"]; present {
		t.Fatal("empty nodeName should be omitted")
	}
	if _, present := user["golemVersion"]; present {
		t.Fatal("empty golemVersion should be omitted")
	}
}

func TestIdentifyMissingFieldsIsProtocolError(t *testing.T) {
	client := newTestClient(t, nil, `{"id":"0xdeadbeef"}`)

	if _, err := client.Identify(context.Background()); !errors.Is(err, hyperg.ErrProtocol) {
		t.Fatalf("error = %v, want ErrProtocol", err)
	}
}

func TestUploadBuildsFilesMapAndTimeout(t *testing.T) {
	captured := make(chan map[string]any, 1)
	client := newTestClient(t, captured, `{"hash":"abc123"}`)

	timeout := 5.0
	hash, err := client.Upload(context.Background(), []string{"/data/a.bin", "/var/tmp/b iso.iso"}, &timeout)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if hash != "abc123" {
		t.Fatalf("hash = %q", hash)
	}

	body := <-captured
	if body["command"] != "upload" {
		t.Fatalf("command = %v, want upload", body["command"])
	}
	files, ok := body["files"].(map[string]any)
	if !ok {
		t.Fatalf("expected files map, got %v", body["files"])
	}
	if files["/data/a.bin"] != "a.bin" {
		t.Fatalf("files[/data/a.bin] = %v", files["/data/a.bin"])
	}
	if files["/var/tmp/b iso.iso"] != "b iso.iso" {
		t.Fatalf("files[/var/tmp/b iso.iso] = %v", files["/var/tmp/b iso.iso"])
	}
	if body["timeout"] != 5.0 {
		t.Fatalf("timeout = %v, want 5", body["timeout"])
	}
}

func TestUploadRepeatedPathCollapsesToOneEntry(t *testing.T) {
	captured := make(chan map[string]any, 1)
	client := newTestClient(t, captured, `{"hash":"abc123"}`)

	if _, err := client.Upload(context.Background(), []string{"/data/a.bin", "/data/a.bin"}, nil); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	body := <-captured
	files, ok := body["files"].(map[string]any)
	if !ok {
		t.Fatalf("expected files map, got %v", body["files"])
	}
	if len(files) != 1 || files["/data/a.bin"] != "a.bin" {
		t.Fatalf("unexpected files map: %v", files)
	}
}

func TestUploadNilTimeoutSerializesNull(t *testing.T) {
	captured := make(chan map[string]any, 1)
	client := newTestClient(t, captured, `{"hash":"abc123"}`)

	if _, err := client.Upload(context.Background(), []string{"/data/a.bin"}, nil); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	body := <-captured
	value, present := body["timeout"]
	if !present {
		t.Fatal("timeout key must be present even when unset")
	}
	if value != nil {
		t.Fatalf("timeout = %v, want null", value)
	}
}

func TestUploadMissingHashIsProtocolError(t *testing.T) {
	client := newTestClient(t, nil, `{}`)

	if _, err := client.Upload(context.Background(), []string{"/data/a.bin"}, nil); !errors.Is(err, hyperg.ErrProtocol) {
		t.Fatalf("error = %v, want ErrProtocol", err)
	}
}

func TestDownloadSendsPeersAndDecodesFiles(t *testing.T) {
	captured := make(chan map[string]any, 1)
	client := newTestClient(t, captured, `{"files":[{"path":"/downloads/a.bin","size":123}]}`)

	peers := []hyperg.PeerAddress{
		{Host: "1.2.3.4", Port: 9000},
		{Host: "peer.example.com", Port: 3282},
	}
	files, err := client.Download(context.Background(), "QmHash", "/downloads", peers, nil)
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("files length = %d", len(files))
	}
	var entry map[string]any
	if err := json.Unmarshal(files[0], &entry); err != nil {
		t.Fatalf("decode file entry: %v", err)
	}
	if entry["path"] != "/downloads/a.bin" {
		t.Fatalf("entry path = %v", entry["path"])
	}

	body := <-captured
	if body["command"] != "download" {
		t.Fatalf("command = %v, want download", body["command"])
	}
	if body["hash"] != "QmHash" {
		t.Fatalf("hash = %v", body["hash"])
	}
	if body["dest"] != "/downloads" {
		t.Fatalf("dest = %v", body["dest"])
	}
	wirePeers, ok := body["peers"].([]any)
	if !ok || len(wirePeers) != 2 {
		t.Fatalf("peers = %v", body["peers"])
	}
	first, ok := wirePeers[0].(map[string]any)
	if !ok {
		t.Fatalf("peer entry = %v", wirePeers[0])
	}
	tcp, ok := first["TCP"].([]any)
	if !ok || len(tcp) != 2 {
		t.Fatalf("TCP variant = %v", first["TCP"])
	}
	if tcp[0] != "1.2.3.4" || tcp[1] != 9000.0 {
		t.Fatalf("TCP pair = %v", tcp)
	}
	if _, present := body["timeout"]; present {
		t.Fatal("timeout should be omitted when unset")
	}
}

func TestDownloadIncludesTimeoutWhenSet(t *testing.T) {
	captured := make(chan map[string]any, 1)
	client := newTestClient(t, captured, `{"files":[]}`)

	timeout := 30.0
	if _, err := client.Download(context.Background(), "QmHash", "/downloads", nil, &timeout); err != nil {
		t.Fatalf("Download returned error: %v", err)
	}

	body := <-captured
	if body["timeout"] != 30.0 {
		t.Fatalf("timeout = %v, want 30", body["timeout"])
	}
}

func TestDownloadEmptyFilesIsValid(t *testing.T) {
	client := newTestClient(t, nil, `{"files":[]}`)

	files, err := client.Download(context.Background(), "QmHash", "/downloads", nil, nil)
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("files length = %d, want 0", len(files))
	}
}

func TestDownloadMissingFilesIsProtocolError(t *testing.T) {
	client := newTestClient(t, nil, `{}`)

	if _, err := client.Download(context.Background(), "QmHash", "/downloads", nil, nil); !errors.Is(err, hyperg.ErrProtocol) {
		t.Fatalf("error = %v, want ErrProtocol", err)
	}
}

func TestAddressesParsesTaggedVariant(t *testing.T) {
	captured := make(chan map[string]any, 1)
	client := newTestClient(t, captured, `{"addresses":{"TCP":{"address":"0.0.0.0","port":3282}}}`)

	spec, err := client.Addresses(context.Background())
	if err != nil {
		t.Fatalf("Addresses returned error: %v", err)
	}
	if spec.Kind != hyperg.TransportTCP {
		t.Fatalf("kind = %q", spec.Kind)
	}
	if spec.Host != "0.0.0.0" || spec.Port != 3282 {
		t.Fatalf("endpoint = %s:%d", spec.Host, spec.Port)
	}

	body := <-captured
	if body["command"] != "addresses" {
		t.Fatalf("command = %v, want addresses", body["command"])
	}
}

func TestAddressesUnknownTransportIsProtocolError(t *testing.T) {
	client := newTestClient(t, nil, `{"addresses":{"QUIC":{"address":"0.0.0.0","port":3282}}}`)

	if _, err := client.Addresses(context.Background()); !errors.Is(err, hyperg.ErrProtocol) {
		t.Fatalf("error = %v, want ErrProtocol", err)
	}
}

func TestErrorStatusWithValidBodyStillDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"id":"0xdeadbeef","version":"0.3.0"}`))
	}))
	t.Cleanup(server.Close)
	client := hyperg.New(hyperg.WithRPCPort(serverPort(t, server)))

	identity, err := client.Identify(context.Background())
	if err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}
	if identity.NodeID != "0xdeadbeef" {
		t.Fatalf("unexpected identity: %#v", identity)
	}
}

func TestErrorStatusWithNonJSONBodyIsProtocolError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Internal Server Error"))
	}))
	t.Cleanup(server.Close)
	client := hyperg.New(hyperg.WithRPCPort(serverPort(t, server)))

	if _, err := client.Identify(context.Background()); !errors.Is(err, hyperg.ErrProtocol) {
		t.Fatalf("error = %v, want ErrProtocol", err)
	}
}

func TestNonJSONSuccessBodyIsProtocolError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hello"))
	}))
	t.Cleanup(server.Close)
	client := hyperg.New(hyperg.WithRPCPort(serverPort(t, server)))

	if _, err := client.Identify(context.Background()); !errors.Is(err, hyperg.ErrProtocol) {
		t.Fatalf("error = %v, want ErrProtocol", err)
	}
}

func TestUnreachableDaemonIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	port := serverPort(t, server)
	server.Close()

	client := hyperg.New(hyperg.WithRPCPort(port))
	if _, err := client.Identify(context.Background()); !errors.Is(err, hyperg.ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
}

func TestCancelledContextIsTransportError(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server starts its background read; without
		// it the client disconnect is never observed and r.Context() is
		// never cancelled, deadlocking server.Close in cleanup.
		_, _ = io.Copy(io.Discard, r.Body)
		close(started)
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)
	client := hyperg.New(hyperg.WithRPCPort(serverPort(t, server)))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()
	defer cancel()

	_, err := client.Identify(ctx)
	if !errors.Is(err, hyperg.ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", err)
	}
}

func TestHTTPClientTimeoutIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the client's timeout-triggered disconnect is
		// observed and r.Context() is cancelled; see
		// TestCancelledContextIsTransportError.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)
	client := hyperg.New(
		hyperg.WithRPCPort(serverPort(t, server)),
		hyperg.WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}),
	)

	if _, err := client.Identify(context.Background()); !errors.Is(err, hyperg.ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
}
