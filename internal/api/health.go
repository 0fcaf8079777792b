// Package api provides HTTP handlers for the visitgraph server.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	db        HealthChecker
	graphs    GraphService
	clients   ClientCounter
	log       *logrus.Logger
	version   string
	backend   string
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler. db and clients may be nil when
// the server runs without a database or WebSocket hub.
func NewHealthHandler(db HealthChecker, graphs GraphService, clients ClientCounter, log *logrus.Logger, version, backend string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		graphs:    graphs,
		clients:   clients,
		log:       log,
		version:   version,
		backend:   backend,
		startTime: time.Now(),
	}
}

// healthResponse is the JSON payload returned by the liveness endpoint.
type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Backend       string  `json:"backend"`
	Database      string  `json:"database"`
	Clients       int     `json:"ws_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// readinessResponse is the JSON payload returned by the readiness endpoint.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Liveness handles GET /api/v1/health.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		Backend:       h.backend,
		Database:      "not_configured",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		resp.Database = "connected"
		if err := h.db.HealthCheck(ctx); err != nil {
			resp.Database = "disconnected"
		}
	}

	if h.clients != nil {
		resp.Clients = h.clients.ClientCount()
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /api/v1/ready. The server is ready when the database
// (if any) answers and the graph store can be listed.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := map[string]string{"graphs": "ok"}
	status := "ready"
	statusCode := http.StatusOK

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if h.db != nil {
		checks["database"] = "ok"
		if err := h.db.HealthCheck(ctx); err != nil {
			h.log.WithError(err).Error("readiness: database health check failed")
			checks["database"] = "error"
			checks["graphs"] = "unknown"
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
		}
	}

	if status == "ready" {
		if _, err := h.graphs.ListGraphs(ctx); err != nil {
			h.log.WithError(err).Error("readiness: graph store check failed")
			checks["graphs"] = "error"
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
		}
	}

	c.JSON(statusCode, readinessResponse{Status: status, Checks: checks})
}
