package api

import (
	"context"

	"github.com/persistorai/visitgraph/internal/domain"
)

// GraphService is the graph API the handlers depend on.
type GraphService = domain.GraphService

// HealthChecker reports whether a backing database is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// ClientCounter reports connected WebSocket clients.
type ClientCounter interface {
	ClientCount() int
}
