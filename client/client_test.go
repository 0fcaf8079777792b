package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestServer creates a test server that routes to the given handler map.
// Keys are "METHOD /path", values are handler funcs.
func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) *Client {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return New(srv.URL + "/")
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func TestHealth(t *testing.T) {
	c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/health": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, HealthResponse{Status: "ok", Version: "1.2.0", Backend: "file"})
		},
	})
	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if resp.Status != "ok" || resp.Version != "1.2.0" || resp.Backend != "file" {
		t.Errorf("unexpected health %+v", resp)
	}
}

func TestReady_NotReady(t *testing.T) {
	c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/ready": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 503, ReadyResponse{Status: "not_ready"})
		},
	})
	if _, err := c.Ready(context.Background()); err == nil {
		t.Fatal("expected error for 503")
	}
}

func TestGraphsGet(t *testing.T) {
	c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /graph/demo": func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"Nodes":{` + //nolint:errcheck
				`"a":{"Key":1,"State":"root","Visits":10,"Depth":0,"Sibling":0},` +
				`"b":{"Key":2,"State":"leaf","Visits":5,"Depth":1,"Sibling":0},` +
				`"c":{"Key":3,"State":"partial","Visits":1}}}`))
		},
	})

	g, skipped, err := c.Graphs.Get(context.Background(), "demo")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if g.Len() != 2 || g.Nodes["b"].Depth != 1 {
		t.Errorf("unexpected graph %+v", g.Nodes)
	}
	if len(skipped) != 1 || skipped[0] != "c" {
		t.Errorf("skipped = %v, want [c]", skipped)
	}
}

func TestGraphsGet_NotFound(t *testing.T) {
	c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /graph/missing": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 404, map[string]string{"code": "not_found", "message": "graph not found", "request_id": "r1"})
		},
	})

	_, err := c.Graphs.Graph(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !strings.Contains(err.Error(), "request_id=r1") {
		t.Errorf("error %q lacks request id", err)
	}
}

func TestGraphsSVG(t *testing.T) {
	c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /graph/demo/svg": func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "image/svg+xml")
			w.Header().Set("X-Drawn-Nodes", "3")
			w.Header().Set("X-Skipped-Nodes", "1")
			w.Write([]byte("<svg/>")) //nolint:errcheck
		},
	})

	r, err := c.Graphs.SVG(context.Background(), "demo")
	if err != nil {
		t.Fatalf("SVG() error: %v", err)
	}
	if string(r.SVG) != "<svg/>" || r.Drawn != 3 || r.Skipped != 1 {
		t.Errorf("unexpected render %+v", r)
	}
}

func TestGraphsList(t *testing.T) {
	c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/graphs": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]any{"graphs": []GraphInfo{{Name: "a", NodeCount: 4}, {Name: "b"}}})
		},
	})

	graphs, err := c.Graphs.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(graphs) != 2 || graphs[0].Name != "a" || graphs[0].NodeCount != 4 {
		t.Errorf("unexpected list %+v", graphs)
	}
}

func TestGraphsPut(t *testing.T) {
	c := newTestServer(t, map[string]http.HandlerFunc{
		"PUT /api/v1/graphs/run1": func(w http.ResponseWriter, r *http.Request) {
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			body, _ := io.ReadAll(r.Body)
			if !strings.Contains(string(body), `"Visits":2`) {
				t.Errorf("body %s lacks node", body)
			}
			jsonResponse(w, 200, PutResult{Name: "run1", Nodes: 1})
		},
	})

	g := &Graph{Nodes: map[string]*Node{"1": {Key: 1, Visits: 2}}}
	res, err := c.Graphs.Put(context.Background(), "run1", g)
	if err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if res.Name != "run1" || res.Nodes != 1 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{404, IsNotFound},
		{400, IsBadRequest},
		{429, IsRateLimited},
	}
	for _, tt := range tests {
		err := error(parseAPIError(tt.status, []byte(`{"code":"x","message":"y"}`)))
		if !tt.check(err) {
			t.Errorf("status %d not recognized", tt.status)
		}
	}

	raw := parseAPIError(502, []byte("bad gateway"))
	if raw.Code != "unknown" || raw.Message != "bad gateway" {
		t.Errorf("raw fallback = %+v", raw)
	}
}
