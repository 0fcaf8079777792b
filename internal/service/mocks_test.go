package service_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/visitgraph/internal/models"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

// mockGraphStore implements service.GraphStore for testing.
type mockGraphStore struct {
	getFn  func(ctx context.Context, name string) (*models.Graph, error)
	listFn func(ctx context.Context) ([]models.GraphInfo, error)
	putFn  func(ctx context.Context, name string, g *models.Graph) error
	gets   atomic.Int64
}

func (m *mockGraphStore) GetGraph(ctx context.Context, name string) (*models.Graph, error) {
	m.gets.Add(1)

	return m.getFn(ctx, name)
}

func (m *mockGraphStore) ListGraphs(ctx context.Context) ([]models.GraphInfo, error) {
	return m.listFn(ctx)
}

func (m *mockGraphStore) PutGraph(ctx context.Context, name string, g *models.Graph) error {
	return m.putFn(ctx, name, g)
}

// recordingPublisher collects published graph names.
type recordingPublisher struct {
	mu    sync.Mutex
	names []string
}

func (p *recordingPublisher) PublishGraphUpdated(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.names = append(p.names, name)
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]string(nil), p.names...)
}

// chainGraph records the trace 1 -> 2 -> 3 with node 1 visited twice.
func chainGraph() *models.Graph {
	v := models.NewVisitGraph()
	v.Update([]models.TraceState{{Key: 1, Repr: "a"}, {Key: 2, Repr: "b"}, {Key: 3, Repr: "c"}})
	v.Update([]models.TraceState{{Key: 1, Repr: "a"}})

	return v.Graph()
}
