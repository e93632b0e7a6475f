package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/panelmap/pkg/cache"
	"github.com/matzehuels/panelmap/pkg/diagram"
	"github.com/matzehuels/panelmap/pkg/layout"
	"github.com/matzehuels/panelmap/pkg/observability"
	"github.com/matzehuels/panelmap/pkg/pipeline"
)

const sampleTree = `{
  "root": {
    "label": "Home",
    "children": [
      {"label": "Settings", "children": [{"label": "Privacy"}, {"label": "Security"}]},
      {"label": "Profile"}
    ]
  }
}`

// setupTestServer creates a server using the tree engine and a file cache.
func setupTestServer(t *testing.T, mutate ...func(*Config)) *Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	cfg := Config{
		Runner:   pipeline.NewRunner(fc, nil, nil),
		Defaults: pipeline.Options{Engine: layout.EngineTree},
	}
	for _, m := range mutate {
		m(&cfg)
	}
	t.Cleanup(observability.Reset)
	return New(cfg)
}

func do(t *testing.T, s *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error body is not JSON: %q", rr.Body.String())
	}
	return resp
}

func TestHandleHealth(t *testing.T) {
	s := setupTestServer(t)
	rr := do(t, s, http.MethodGet, "/healthz", "", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" || resp.Build.Version == "" {
		t.Errorf("health = %+v", resp)
	}
}

func TestHandleDiagram(t *testing.T) {
	s := setupTestServer(t)
	rr := do(t, s, http.MethodPost, "/v1/diagram", "application/json", sampleTree)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get(cacheHeader); got != "miss" {
		t.Errorf("cache header = %q, want miss", got)
	}
	var d diagram.Diagram
	if err := json.Unmarshal(rr.Body.Bytes(), &d); err != nil {
		t.Fatal(err)
	}
	// Privacy and Security merge into one node.
	if len(d.Nodes) != 4 || len(d.Edges) != 3 {
		t.Errorf("diagram has %d nodes, %d edges", len(d.Nodes), len(d.Edges))
	}
	if err := d.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	rr = do(t, s, http.MethodPost, "/v1/diagram", "application/json", sampleTree)
	if got := rr.Header().Get(cacheHeader); got != "hit" {
		t.Errorf("second request cache header = %q, want hit", got)
	}
}

func TestHandleDiagramQueryOverrides(t *testing.T) {
	s := setupTestServer(t)

	rr := do(t, s, http.MethodPost, "/v1/diagram?direction=tb&normalize=false", "", sampleTree)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var d diagram.Diagram
	if err := json.Unmarshal(rr.Body.Bytes(), &d); err != nil {
		t.Fatal(err)
	}
	if d.Direction != diagram.TopToBottom || len(d.Nodes) != 5 {
		t.Errorf("direction = %s, nodes = %d", d.Direction, len(d.Nodes))
	}

	tests := []struct {
		name   string
		target string
		code   string
		status int
	}{
		{"rank sep", "/v1/diagram?rank_sep=wide", "INVALID_INPUT", http.StatusBadRequest},
		{"normalize", "/v1/diagram?normalize=maybe", "INVALID_INPUT", http.StatusBadRequest},
		{"direction", "/v1/diagram?direction=RL", "INVALID_INPUT", http.StatusBadRequest},
		{"engine", "/v1/diagram?engine=neato", "UNSUPPORTED", http.StatusNotImplemented},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, s, http.MethodPost, tt.target, "", sampleTree)
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			if got := decodeError(t, rr).Code; got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestHandleDiagramYAML(t *testing.T) {
	s := setupTestServer(t)
	body := "id: home\nlabel: Home\nchildren:\n  - id: a\n    label: About\n"
	rr := do(t, s, http.MethodPost, "/v1/diagram", "application/yaml", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"About"`) {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestHandleDiagramBadInput(t *testing.T) {
	s := setupTestServer(t)

	for _, body := range []string{`[1, 2, 3]`, `{not json`, ``} {
		rr := do(t, s, http.MethodPost, "/v1/diagram", "application/json", body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d", body, rr.Code)
			continue
		}
		if got := decodeError(t, rr).Code; got != "INVALID_INPUT" {
			t.Errorf("body %q: code = %s", body, got)
		}
	}
}

func TestHandleDiagramBodyLimit(t *testing.T) {
	s := setupTestServer(t, func(c *Config) { c.MaxBodyBytes = 16 })
	rr := do(t, s, http.MethodPost, "/v1/diagram", "application/json", sampleTree)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rr.Code)
	}
}

func TestHandleExportFromTree(t *testing.T) {
	s := setupTestServer(t)
	rr := do(t, s, http.MethodPost, "/v1/export", "application/json", sampleTree)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "architecture_map_vector.pdf") {
		t.Errorf("content disposition = %q", cd)
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF-")) {
		t.Error("body is not a PDF")
	}
}

func TestHandleExportFromDiagram(t *testing.T) {
	s := setupTestServer(t)
	built := do(t, s, http.MethodPost, "/v1/diagram", "application/json", sampleTree)
	if built.Code != http.StatusOK {
		t.Fatalf("build status = %d", built.Code)
	}

	rr := do(t, s, http.MethodPost, "/v1/export?format=svg", "application/json", built.Body.String())
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "Settings") {
		t.Error("svg does not contain node labels")
	}
}

func TestHandleExportErrors(t *testing.T) {
	s := setupTestServer(t)

	rr := do(t, s, http.MethodPost, "/v1/export?format=docx", "application/json", sampleTree)
	if rr.Code != http.StatusBadRequest || decodeError(t, rr).Code != "INVALID_FORMAT" {
		t.Errorf("bad format: status = %d, body = %s", rr.Code, rr.Body.String())
	}

	rr = do(t, s, http.MethodPost, "/v1/export", "application/json", `{"direction":"LR","nodes":[],"edges":[]}`)
	if rr.Code != http.StatusNoContent || rr.Body.Len() != 0 {
		t.Errorf("empty diagram: status = %d, body = %q", rr.Code, rr.Body.String())
	}

	dup := `{"direction":"LR","nodes":[{"id":"a"},{"id":"a"}],"edges":[]}`
	rr = do(t, s, http.MethodPost, "/v1/export", "application/json", dup)
	if rr.Code != http.StatusBadRequest || decodeError(t, rr).Code != "INVALID_DIAGRAM" {
		t.Errorf("duplicate ids: status = %d, body = %s", rr.Code, rr.Body.String())
	}

	rr = do(t, s, http.MethodPost, "/v1/export", "application/json", `{"root": {"label": "プロフィール"}}`)
	if rr.Code != http.StatusUnprocessableEntity || decodeError(t, rr).Code != "ENCODING" {
		t.Errorf("unencodable label: status = %d, body = %s", rr.Code, rr.Body.String())
	}
}

func TestHandleExportPartialDiagram(t *testing.T) {
	s := setupTestServer(t)

	partial := `{"direction":"LR","nodes":[
		{"id":"r","label":"Home","width":220,"height":88,"position":{"x":0,"y":0}},
		{"id":"a","label":"Settings","width":200,"height":88,"position":{"x":320,"y":0}}],
	"edges":[
		{"id":"r-a","source":"r","target":"a"},
		{"id":"a-ghost","source":"a","target":"ghost"}]}`
	rr := do(t, s, http.MethodPost, "/v1/export?format=svg", "application/json", partial)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	if !strings.Contains(body, `id="edge-r-a"`) {
		t.Error("drawable edge missing")
	}
	if strings.Contains(body, "a-ghost") {
		t.Error("edge to a missing node was drawn")
	}
}

func TestRoutingErrors(t *testing.T) {
	s := setupTestServer(t)

	rr := do(t, s, http.MethodGet, "/v2/nothing", "", "")
	if rr.Code != http.StatusNotFound || decodeError(t, rr).Code != "NOT_FOUND" {
		t.Errorf("not found: status = %d, body = %s", rr.Code, rr.Body.String())
	}

	rr = do(t, s, http.MethodGet, "/v1/diagram", "", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong method: status = %d", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := setupTestServer(t, func(c *Config) { c.Metrics = NewMetrics() })

	if rr := do(t, s, http.MethodPost, "/v1/export?format=svg", "", sampleTree); rr.Code != http.StatusOK {
		t.Fatalf("export status = %d", rr.Code)
	}

	rr := do(t, s, http.MethodGet, "/metrics", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"panelmap_build_duration_seconds",
		"panelmap_export_duration_seconds",
		`panelmap_cache_events_total{event="miss",key_type="diagram"}`,
		`panelmap_http_requests_total{method="POST",route="/v1/export",status="200"}`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestNoMetricsRouteWithoutMetrics(t *testing.T) {
	s := setupTestServer(t)
	if rr := do(t, s, http.MethodGet, "/metrics", "", ""); rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}
