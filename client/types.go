package client

import "github.com/persistorai/visitgraph/internal/models"

// Graph is a laid-out visit graph keyed by node identifier.
type Graph = models.Graph

// Node is a single visited state.
type Node = models.Node

// GraphInfo describes a stored graph.
type GraphInfo = models.GraphInfo

// PutResult is returned after uploading a graph.
type PutResult struct {
	Name    string   `json:"name"`
	Nodes   int      `json:"nodes"`
	Skipped []string `json:"skipped,omitempty"`
}

// Render is a server-rendered graph.
type Render struct {
	SVG []byte
	// Drawn is the number of circles in SVG.
	Drawn int
	// Skipped is how many malformed nodes the server left out.
	Skipped int
}

// HealthResponse is returned by the liveness endpoint.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Backend       string  `json:"backend"`
	Database      string  `json:"database"`
	Clients       int     `json:"ws_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ReadyResponse is returned by the readiness endpoint.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
