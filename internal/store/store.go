// Package store provides the persistence backends for visit graphs.
//
// FileStore reads the visit_graph_<name>.json files written by the explorer;
// PGStore keeps the same documents in a jsonb column. Both return graphs as
// recorded, without layout coordinates.
package store

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/visitgraph/internal/models"
)

const defaultQueryTimeout = 30 * time.Second

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// logSkipped reports nodes dropped while decoding a stored graph.
func logSkipped(log *logrus.Logger, name string, skipped []string) {
	if len(skipped) == 0 {
		return
	}

	log.WithFields(logrus.Fields{
		"graph":   name,
		"skipped": len(skipped),
		"first":   skipped[0],
	}).Warn("skipping malformed nodes in stored graph")
}

// encodeGraph is the document format shared by both backends.
func encodeGraph(g *models.Graph) ([]byte, error) {
	if g == nil {
		g = models.NewGraph()
	}

	return sonic.Marshal(g)
}
