package api_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/persistorai/visitgraph/internal/api"
	"github.com/persistorai/visitgraph/internal/middleware"
	"github.com/persistorai/visitgraph/internal/models"
	"github.com/persistorai/visitgraph/internal/render"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	svc := &mockGraphService{
		getFn: func(_ context.Context, _ string) (*models.Graph, error) { return nil, models.ErrGraphNotFound },
		listFn: func(_ context.Context) ([]models.GraphInfo, error) {
			return []models.GraphInfo{{Name: "demo", NodeCount: 2}}, nil
		},
		renderFn: func(_ context.Context, _ string) ([]byte, render.Result, error) {
			return []byte("<svg/>"), render.Result{}, nil
		},
	}

	return api.NewRouter(ctx, &api.RouterDeps{
		Log:         testLogger(),
		Graphs:      svc,
		CORSOrigins: []string{"http://localhost:3040"},
		Version:     "test",
		Backend:     "file",
	})
}

func TestRouter_IndexPage(t *testing.T) {
	r := newTestServer(t)

	w := doRequest(r, http.MethodGet, "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{`id="graph"`, `id="get-graph"`, "<svg", "/static/app.js"} {
		if !strings.Contains(body, want) {
			t.Errorf("index page lacks %q", want)
		}
	}
	if got := w.Header().Get("Content-Security-Policy"); got != middleware.PagePolicy {
		t.Errorf("index CSP = %q", got)
	}

	if w := doRequest(r, http.MethodGet, "/static/app.js", ""); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/svg") {
		t.Errorf("app.js: status %d", w.Code)
	}
}

func TestRouter_Routes(t *testing.T) {
	r := newTestServer(t)

	tests := []struct {
		method, path string
		code         int
	}{
		{http.MethodGet, "/graph/missing", http.StatusNotFound},
		{http.MethodGet, "/graph/demo/svg", http.StatusOK},
		{http.MethodGet, "/api/v1/graphs", http.StatusOK},
		{http.MethodGet, "/api/v1/health", http.StatusOK},
		{http.MethodGet, "/api/v1/ready", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/ws", http.StatusNotFound}, // no hub configured
	}

	for _, tt := range tests {
		if w := doRequest(r, tt.method, tt.path, ""); w.Code != tt.code {
			t.Errorf("%s %s: expected %d, got %d", tt.method, tt.path, tt.code, w.Code)
		}
	}
}

func TestRouter_ErrorCarriesRequestID(t *testing.T) {
	r := newTestServer(t)

	w := doRequest(r, http.MethodGet, "/graph/missing", "")
	rid := w.Header().Get(middleware.RequestIDHeader)
	if rid == "" || !strings.Contains(w.Body.String(), rid) {
		t.Errorf("error body %s does not carry request id %q", w.Body.String(), rid)
	}
}
