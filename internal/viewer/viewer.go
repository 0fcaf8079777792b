// Package viewer fetches named graphs and draws them onto a render surface,
// keeping the surface in step with the most recent request.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/visitgraph/internal/domain"
	"github.com/persistorai/visitgraph/internal/models"
	"github.com/persistorai/visitgraph/internal/render"
)

// ErrSuperseded is returned by Show when a newer request finished first and
// this request's graph was not drawn.
var ErrSuperseded = errors.New("superseded by a newer request")

// Viewer draws graphs from a source onto a single surface.
type Viewer struct {
	source domain.GraphSource
	target render.Surface
	log    *logrus.Logger

	mu      sync.Mutex
	issued  uint64 // sequence of the latest Show call
	applied uint64 // sequence of the graph currently on the surface
	current string
}

// New returns a Viewer drawing graphs fetched from source onto target.
func New(source domain.GraphSource, target render.Surface, log *logrus.Logger) *Viewer {
	return &Viewer{source: source, target: target, log: log}
}

// Show fetches the named graph and replaces the surface's circles with it.
// If the fetch fails the surface is left untouched. If a request issued
// after this one has already drawn, the result is dropped with ErrSuperseded.
func (v *Viewer) Show(ctx context.Context, name string) (render.Result, error) {
	if err := models.ValidateGraphName(name); err != nil {
		return render.Result{}, err
	}

	v.mu.Lock()
	v.issued++
	seq := v.issued
	v.mu.Unlock()

	g, err := v.source.Graph(ctx, name)
	if err != nil {
		return render.Result{}, fmt.Errorf("fetching graph %q: %w", name, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if seq < v.applied {
		v.log.WithFields(logrus.Fields{"graph": name, "seq": seq}).Debug("dropping stale graph")

		return render.Result{}, ErrSuperseded
	}

	res := render.Render(g, v.target)
	v.applied = seq
	v.current = name

	if len(res.Skipped) > 0 {
		v.log.WithFields(logrus.Fields{
			"graph":   name,
			"skipped": res.Skipped,
		}).Warn("skipped malformed nodes")
	}

	return res, nil
}

// Current returns the name of the graph on the surface, or "" if none.
func (v *Viewer) Current() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.current
}

// Refresh redraws the current graph if it is name. It lets a change
// notification reach the surface without the caller tracking what is shown.
func (v *Viewer) Refresh(ctx context.Context, name string) (render.Result, bool, error) {
	if v.Current() != name {
		return render.Result{}, false, nil
	}

	res, err := v.Show(ctx, name)

	return res, true, err
}
