package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/persistorai/visitgraph/internal/domain"
	"github.com/persistorai/visitgraph/internal/models"
)

// namedGraph is a graph read from disk, kept with its file name.
type namedGraph struct {
	Name  string
	Graph *models.Graph
}

// readGraphs loads every graph file in src. Files that fail to decode are
// recorded as skipped; only listing failures abort the migration.
func readGraphs(ctx context.Context, src domain.GraphStore, r *report) ([]namedGraph, error) {
	infos, err := src.ListGraphs(ctx)
	if err != nil {
		return nil, err
	}

	graphs := make([]namedGraph, 0, len(infos))
	for _, info := range infos {
		r.GraphsRead++

		g, err := src.GetGraph(ctx, info.Name)
		if err != nil {
			reason := err.Error()
			if errors.Is(err, models.ErrInvalidGraphName) {
				reason = "invalid graph name"
			}
			r.Skipped = append(r.Skipped, skippedGraph{Name: info.Name, Reason: reason})
			log.WithError(err).WithField("graph", info.Name).Warn("skipping graph file")
			continue
		}

		r.NodesRead += g.Len()
		graphs = append(graphs, namedGraph{Name: info.Name, Graph: g})
	}

	return graphs, nil
}

// writeGraphs upserts every graph into dst.
func writeGraphs(ctx context.Context, dst domain.GraphStore, graphs []namedGraph, r *report) error {
	for _, ng := range graphs {
		if err := dst.PutGraph(ctx, ng.Name, ng.Graph); err != nil {
			return fmt.Errorf("graph %s: %w", ng.Name, err)
		}
		r.GraphsInserted++
	}

	return nil
}

// verifyGraphs counts the graphs that read back from dst with the same nodes.
func verifyGraphs(ctx context.Context, dst domain.GraphStore, graphs []namedGraph) (int, error) {
	verified := 0
	for _, ng := range graphs {
		got, err := dst.GetGraph(ctx, ng.Name)
		if err != nil {
			if errors.Is(err, models.ErrGraphNotFound) {
				continue
			}

			return verified, fmt.Errorf("graph %s: %w", ng.Name, err)
		}
		if diff := graphDiff(ng.Graph, got); diff == "" {
			verified++
		}
	}

	return verified, nil
}

// spotCheck compares up to 5 random graphs node by node and describes each.
func spotCheck(ctx context.Context, dst domain.GraphStore, graphs []namedGraph) []string {
	if len(graphs) == 0 {
		return nil
	}

	count := min(5, len(graphs))
	checks := make([]string, 0, count)
	for _, idx := range rand.Perm(len(graphs))[:count] {
		ng := graphs[idx]

		got, err := dst.GetGraph(ctx, ng.Name)
		if err != nil {
			checks = append(checks, fmt.Sprintf("FAIL %s: not found in postgres: %v", ng.Name, err))
			continue
		}

		if diff := graphDiff(ng.Graph, got); diff != "" {
			checks = append(checks, fmt.Sprintf("FAIL %s: %s", ng.Name, diff))
			continue
		}
		checks = append(checks, fmt.Sprintf("OK   %s: %d nodes", ng.Name, got.Len()))
	}

	return checks
}

// graphDiff describes the first difference between want and got, or returns
// "" when they hold the same nodes with the same visit counts.
func graphDiff(want, got *models.Graph) string {
	if want.Len() != got.Len() {
		return fmt.Sprintf("node count %d, want %d", got.Len(), want.Len())
	}

	for _, id := range want.IDs() {
		w := want.Nodes[id]
		g, ok := got.Nodes[id]
		if !ok {
			return fmt.Sprintf("node %s missing", id)
		}
		if g.Visits != w.Visits || g.State != w.State {
			return fmt.Sprintf("node %s: visits %d, want %d", id, g.Visits, w.Visits)
		}
	}

	return ""
}
