package api_test

import (
	"context"

	"github.com/persistorai/visitgraph/internal/models"
	"github.com/persistorai/visitgraph/internal/render"
)

// mockGraphService implements api.GraphService for testing.
type mockGraphService struct {
	getFn    func(ctx context.Context, name string) (*models.Graph, error)
	listFn   func(ctx context.Context) ([]models.GraphInfo, error)
	putFn    func(ctx context.Context, name string, g *models.Graph) error
	renderFn func(ctx context.Context, name string) ([]byte, render.Result, error)
}

func (m *mockGraphService) GetGraph(ctx context.Context, name string) (*models.Graph, error) {
	return m.getFn(ctx, name)
}

func (m *mockGraphService) ListGraphs(ctx context.Context) ([]models.GraphInfo, error) {
	return m.listFn(ctx)
}

func (m *mockGraphService) PutGraph(ctx context.Context, name string, g *models.Graph) error {
	return m.putFn(ctx, name, g)
}

func (m *mockGraphService) RenderSVG(ctx context.Context, name string) ([]byte, render.Result, error) {
	return m.renderFn(ctx, name)
}

// mockHealthChecker implements api.HealthChecker for testing.
type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) HealthCheck(_ context.Context) error {
	return m.err
}
