package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/visitgraph/internal/dbpool"
	"github.com/persistorai/visitgraph/internal/models"
)

// PGStore keeps visit graphs in the visit_graphs table.
type PGStore struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// NewPGStore creates a PGStore backed by pool.
func NewPGStore(pool *dbpool.Pool, log *logrus.Logger) *PGStore {
	return &PGStore{Pool: pool, Log: log}
}

// GetGraph loads the named graph document.
func (s *PGStore) GetGraph(ctx context.Context, name string) (*models.Graph, error) {
	if err := models.ValidateGraphName(name); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var body []byte
	err := s.Pool.QueryRow(ctx, "SELECT body FROM visit_graphs WHERE name = $1", name).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrGraphNotFound
		}

		return nil, fmt.Errorf("querying graph %q: %w", name, err)
	}

	g, skipped, err := models.DecodeVisitGraph(body)
	if err != nil {
		return nil, fmt.Errorf("decoding graph %q: %w: %w", name, models.ErrCorruptGraph, err)
	}
	logSkipped(s.Log, name, skipped)

	return g, nil
}

// ListGraphs returns all stored graphs sorted by name.
func (s *PGStore) ListGraphs(ctx context.Context) ([]models.GraphInfo, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx,
		"SELECT name, node_count, octet_length(body::text), updated_at FROM visit_graphs ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing graphs: %w", err)
	}
	defer rows.Close()

	var infos []models.GraphInfo
	for rows.Next() {
		var gi models.GraphInfo
		if err := rows.Scan(&gi.Name, &gi.NodeCount, &gi.SizeBytes, &gi.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning graph row: %w", err)
		}
		infos = append(infos, gi)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating graph rows: %w", err)
	}

	return infos, nil
}

// PutGraph inserts or replaces the named graph. The table trigger notifies
// listeners on visit_graph_changes.
func (s *PGStore) PutGraph(ctx context.Context, name string, g *models.Graph) error {
	if err := models.ValidateGraphName(name); err != nil {
		return err
	}

	body, err := encodeGraph(g)
	if err != nil {
		return fmt.Errorf("encoding graph %q: %w", name, err)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err = s.Pool.Exec(ctx, `
		INSERT INTO visit_graphs (name, body, node_count, updated_at)
		VALUES ($1, $2::jsonb, $3, now())
		ON CONFLICT (name) DO UPDATE
		SET body = EXCLUDED.body, node_count = EXCLUDED.node_count, updated_at = now()`,
		name, string(body), g.Len())
	if err != nil {
		return fmt.Errorf("upserting graph %q: %w", name, err)
	}

	s.Log.WithFields(logrus.Fields{"graph": name, "nodes": g.Len()}).Debug("graph row written")

	return nil
}
