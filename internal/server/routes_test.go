package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/restmcp/internal/app"
	"github.com/bobmcallan/restmcp/internal/common"
	"github.com/bobmcallan/restmcp/internal/config"
)

const statusSpec = `openapi: 3.0.0
info:
  title: Status
  version: "1"
paths:
  /status:
    get:
      operationId: getStatus
      responses:
        '200':
          description: ok
`

func newTestApp(t *testing.T, transport string) *app.App {
	t.Helper()

	root := t.TempDir()
	dir := filepath.Join(root, "status")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, "specification.yaml"), []byte(statusSpec), 0644)
	os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"base_url": "http://127.0.0.1:1"}`), 0644)

	cfg := config.NewDefaultConfig()
	cfg.Specs.Dir = root
	cfg.Server.Transport = transport
	cfg.Server.Host = "127.0.0.1"

	application, err := app.New(t.Context(), cfg, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("failed to create test app: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		application.Close(ctx)
	})

	return application
}

func TestRoutes_HealthEndpoint(t *testing.T) {
	srv := New(newTestApp(t, config.TransportSSE))

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
	if body["tools"] != float64(1) {
		t.Errorf("expected 1 tool, got %v", body["tools"])
	}
}

func TestRoutes_VersionEndpoint(t *testing.T) {
	srv := New(newTestApp(t, config.TransportSSE))

	req := httptest.NewRequest("GET", "/api/version", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if _, ok := body["version"]; !ok {
		t.Error("expected version field in response")
	}
}

func TestRoutes_APINotFound(t *testing.T) {
	srv := New(newTestApp(t, config.TransportSSE))

	req := httptest.NewRequest("GET", "/api/nonexistent", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["status"] != "error" || body["error"] != "no route for /api/nonexistent" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestRoutes_MetricsEndpoint(t *testing.T) {
	srv := New(newTestApp(t, config.TransportSSE))

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `restmcp_tools_registered{provider="status"} 1`) {
		t.Errorf("expected tools_registered gauge, got:\n%s", w.Body.String())
	}
}

func TestRoutes_MiddlewareApplied(t *testing.T) {
	srv := New(newTestApp(t, config.TransportSSE))

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Header().Get("X-Correlation-ID") == "" {
		t.Error("expected X-Correlation-ID header from middleware")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header from middleware")
	}
}

func TestRoutes_StreamableNotMountedForSSE(t *testing.T) {
	srv := New(newTestApp(t, config.TransportSSE))

	req := httptest.NewRequest("POST", "/mcp", strings.NewReader("{}"))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

// readSSEEvent returns the name and data of the next event on the stream.
func readSSEEvent(t *testing.T, scanner *bufio.Scanner) (string, string) {
	t.Helper()
	var name, data string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		case line == "" && data != "":
			return name, data
		}
	}
	t.Fatalf("event stream ended: %v", scanner.Err())
	return "", ""
}

func TestServer_SSEThroughMiddleware(t *testing.T) {
	srv := New(newTestApp(t, config.TransportSSE))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/sse", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /sse: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	name, endpoint := readSSEEvent(t, scanner)
	if name != "endpoint" || !strings.HasPrefix(endpoint, "/messages?sessionId=") {
		t.Fatalf("unexpected endpoint event %q: %q", name, endpoint)
	}

	post := func(body string) string {
		t.Helper()
		r, err := http.Post(ts.URL+endpoint, "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST %s: %v", endpoint, err)
		}
		r.Body.Close()
		if r.StatusCode != http.StatusAccepted {
			t.Fatalf("POST %s: expected status 202, got %d", endpoint, r.StatusCode)
		}
		name, data := readSSEEvent(t, scanner)
		if name != "message" {
			t.Fatalf("expected message event, got %q", name)
		}
		return data
	}

	out := post(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`)
	if !strings.Contains(out, "serverInfo") {
		t.Errorf("expected initialize result, got %s", out)
	}

	out = post(`{"jsonrpc":"2.0","id":2,"method":"tools/list","params":{}}`)
	if !strings.Contains(out, `"status_getStatus"`) || !strings.Contains(out, `"get_version"`) {
		t.Errorf("expected generated and version tools, got %s", out)
	}

	// The provider points at a closed port.
	out = post(`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"status_getStatus","arguments":{}}}`)
	if !strings.Contains(out, "Request failed: ") {
		t.Errorf("expected request failure text, got %s", out)
	}
	if strings.Contains(out, `"isError":true`) {
		t.Errorf("request failures are not tool errors, got %s", out)
	}
}

func TestRoutes_MessagesTrailingSlashNotMounted(t *testing.T) {
	srv := New(newTestApp(t, config.TransportSSE))

	req := httptest.NewRequest("POST", "/messages/?sessionId=x", strings.NewReader("{}"))
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	srv := New(newTestApp(t, config.TransportStreamable))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`
	req, _ := http.NewRequestWithContext(t.Context(), http.MethodPost, "http://"+ln.Addr().String()+"/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST /mcp: %v", err)
	}
	out, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d: %s", resp.StatusCode, out)
	}
	if !strings.Contains(string(out), "serverInfo") {
		t.Errorf("expected initialize result, got %s", out)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Serve returned %v", err)
	}
}
