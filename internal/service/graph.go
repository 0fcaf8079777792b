// Package service provides the graph business logic between API handlers and stores.
package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/persistorai/visitgraph/internal/domain"
	"github.com/persistorai/visitgraph/internal/layout"
	"github.com/persistorai/visitgraph/internal/metrics"
	"github.com/persistorai/visitgraph/internal/models"
	"github.com/persistorai/visitgraph/internal/render"
)

// GraphStore is the data-access interface GraphService depends on.
type GraphStore = domain.GraphStore

// Compile-time check: *GraphService must satisfy domain.GraphService.
var _ domain.GraphService = (*GraphService)(nil)

// Publisher is told when a graph changes so connected viewers can refresh.
type Publisher interface {
	PublishGraphUpdated(name string)
}

// GraphService loads graphs from a store, lays them out and caches the result.
// Graphs returned by GetGraph are shared with the cache and must not be modified.
type GraphService struct {
	store     GraphStore
	cache     *lru.Cache[string, *models.Graph]
	loads     singleflight.Group
	gen       atomic.Uint64
	publisher atomic.Pointer[Publisher]
	log       *logrus.Logger
}

// NewGraphService creates a GraphService caching up to cacheSize analyzed graphs.
func NewGraphService(store GraphStore, cacheSize int, log *logrus.Logger) (*GraphService, error) {
	cache, err := lru.New[string, *models.Graph](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating graph cache: %w", err)
	}

	return &GraphService{store: store, cache: cache, log: log}, nil
}

// SetPublisher registers the receiver of graph change notifications.
func (s *GraphService) SetPublisher(p Publisher) {
	s.publisher.Store(&p)
}

// GetGraph returns the laid-out graph for name.
func (s *GraphService) GetGraph(ctx context.Context, name string) (*models.Graph, error) {
	if err := models.ValidateGraphName(name); err != nil {
		return nil, err
	}

	if g, ok := s.cache.Get(name); ok {
		metrics.GraphLoads.WithLabelValues("hit").Inc()

		return g, nil
	}

	v, err, shared := s.loads.Do(name, func() (any, error) {
		gen := s.gen.Load()

		raw, err := s.store.GetGraph(ctx, name)
		if err != nil {
			return nil, err
		}

		g := layout.Analyze(raw)

		// A change notification raced this load; serve it but don't cache it.
		if s.gen.Load() == gen {
			s.cache.Add(name, g)
			metrics.CachedGraphs.Set(float64(s.cache.Len()))
		}

		return g, nil
	})
	if err != nil {
		metrics.GraphLoads.WithLabelValues("error").Inc()

		return nil, err
	}

	metrics.GraphLoads.WithLabelValues("miss").Inc()

	g, _ := v.(*models.Graph)

	s.log.WithFields(logrus.Fields{
		"graph":  name,
		"nodes":  g.Len(),
		"shared": shared,
	}).Debug("graph.get")

	return g, nil
}

// ListGraphs returns the graphs available in the store.
func (s *GraphService) ListGraphs(ctx context.Context) ([]models.GraphInfo, error) {
	s.log.Debug("graph.list")

	return s.store.ListGraphs(ctx)
}

// PutGraph stores a recorded graph and announces the change.
func (s *GraphService) PutGraph(ctx context.Context, name string, g *models.Graph) error {
	if err := models.ValidateGraphName(name); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"graph": name,
		"nodes": g.Len(),
	}).Debug("graph.put")

	if err := s.store.PutGraph(ctx, name, g); err != nil {
		return err
	}

	s.GraphChanged(name)

	return nil
}

// RenderSVG lays out and draws the named graph as an SVG document.
func (s *GraphService) RenderSVG(ctx context.Context, name string) ([]byte, render.Result, error) {
	g, err := s.GetGraph(ctx, name)
	if err != nil {
		return nil, render.Result{}, err
	}

	start := time.Now()
	canvas := render.NewCanvas()
	res := render.Render(g, canvas)

	svg, err := canvas.SVG()
	if err != nil {
		return nil, res, fmt.Errorf("rendering graph %q: %w", name, err)
	}

	metrics.RenderDuration.Observe(time.Since(start).Seconds())
	metrics.RenderedNodes.Set(float64(res.Drawn))
	metrics.SkippedNodes.Add(float64(len(res.Skipped)))

	s.log.WithFields(logrus.Fields{
		"graph":   name,
		"drawn":   res.Drawn,
		"skipped": len(res.Skipped),
	}).Debug("graph.render")

	return svg, res, nil
}

// GraphChanged drops any cached copy of name and notifies the publisher.
// It is called by the directory watcher, the postgres notify bridge and PutGraph.
func (s *GraphService) GraphChanged(name string) {
	s.gen.Add(1)
	s.loads.Forget(name)
	s.cache.Remove(name)
	metrics.CachedGraphs.Set(float64(s.cache.Len()))

	s.log.WithField("graph", name).Info("graph changed")

	if p := s.publisher.Load(); p != nil {
		(*p).PublishGraphUpdated(name)
	}
}
