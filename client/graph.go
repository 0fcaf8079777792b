package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bytedance/sonic"

	"github.com/persistorai/visitgraph/internal/models"
)

// GraphService handles visit graph operations.
type GraphService struct {
	c *Client
}

func graphPath(name string) string {
	return "/graph/" + url.PathEscape(name)
}

// Get fetches the laid-out graph. Nodes the server sent without the fields
// needed to draw them are dropped; their identifiers are returned as skipped.
func (s *GraphService) Get(ctx context.Context, name string) (*Graph, []string, error) {
	body, _, err := s.c.do(ctx, http.MethodGet, graphPath(name), nil, "")
	if err != nil {
		return nil, nil, err
	}

	g, skipped, err := models.ParseGraph(body)
	if err != nil {
		return nil, nil, fmt.Errorf("decode graph %q: %w", name, err)
	}

	return g, skipped, nil
}

// Graph fetches the laid-out graph, discarding the skipped node list.
func (s *GraphService) Graph(ctx context.Context, name string) (*Graph, error) {
	g, _, err := s.Get(ctx, name)

	return g, err
}

// SVG fetches the server-rendered scatter of the graph.
func (s *GraphService) SVG(ctx context.Context, name string) (*Render, error) {
	body, hdr, err := s.c.do(ctx, http.MethodGet, graphPath(name)+"/svg", nil, "")
	if err != nil {
		return nil, err
	}

	r := &Render{SVG: body}
	r.Drawn, _ = strconv.Atoi(hdr.Get("X-Drawn-Nodes"))
	r.Skipped, _ = strconv.Atoi(hdr.Get("X-Skipped-Nodes"))

	return r, nil
}

// List returns the stored graphs.
func (s *GraphService) List(ctx context.Context) ([]GraphInfo, error) {
	var resp struct {
		Graphs []GraphInfo `json:"graphs"`
	}
	if err := s.c.getJSON(ctx, "/api/v1/graphs", &resp); err != nil {
		return nil, err
	}

	return resp.Graphs, nil
}

// Put uploads a recorded visit graph under name.
func (s *GraphService) Put(ctx context.Context, name string, g *Graph) (*PutResult, error) {
	data, err := sonic.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("marshal graph: %w", err)
	}

	return s.PutRaw(ctx, name, data)
}

// PutRaw uploads an already encoded visit graph document under name.
func (s *GraphService) PutRaw(ctx context.Context, name string, data []byte) (*PutResult, error) {
	body, _, err := s.c.do(ctx, http.MethodPut, "/api/v1/graphs/"+url.PathEscape(name), data, "application/json")
	if err != nil {
		return nil, err
	}

	var res PutResult
	if err := sonic.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &res, nil
}
