// Package main provides a standalone migration script that copies recorded
// visit graph files into PostgreSQL for the postgres backend.
//
// Usage:
//
//	GRAPH_PATH=../../traces DATABASE_URL=postgres://... go run ./scripts/migrate
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/visitgraph/internal/db"
	"github.com/persistorai/visitgraph/internal/db/migrations"
	"github.com/persistorai/visitgraph/internal/dbpool"
	"github.com/persistorai/visitgraph/internal/store"
)

// config holds environment-driven migration settings.
type config struct {
	GraphPath   string
	DatabaseURL string
	DryRun      bool
}

// skippedGraph records a graph file that was not copied.
type skippedGraph struct {
	Name   string
	Reason string
}

// report holds the final migration summary.
type report struct {
	Source         string
	Target         string
	GraphsRead     int
	GraphsInserted int
	GraphsVerified int
	NodesRead      int
	Skipped        []skippedGraph
	SpotChecks     []string
	Duration       time.Duration
	DryRun         bool
	Err            error
}

var log = logrus.New()

func main() {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := loadConfig()
	if cfg.DatabaseURL == "" && !cfg.DryRun {
		log.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	log.WithFields(logrus.Fields{
		"graph_path": cfg.GraphPath,
		"dry_run":    cfg.DryRun,
	}).Info("starting migration")

	start := time.Now()
	r, err := runMigration(context.Background(), cfg)
	r.Duration = time.Since(start)
	if err != nil {
		r.Err = err
		log.WithError(err).Error("migration failed")
	}
	printReport(os.Stdout, &r)
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig reads configuration from environment variables.
func loadConfig() config {
	return config{
		GraphPath:   envOr("GRAPH_PATH", "../../traces/"),
		DatabaseURL: envOr("DATABASE_URL", ""),
		DryRun:      os.Getenv("DRY_RUN") == "true" || os.Getenv("DRY_RUN") == "1",
	}
}

// runMigration executes the full migration pipeline.
func runMigration(ctx context.Context, cfg config) (report, error) {
	r := report{
		Source: cfg.GraphPath,
		Target: sanitizeURL(cfg.DatabaseURL),
		DryRun: cfg.DryRun,
	}

	src := store.NewFileStore(cfg.GraphPath, log)
	graphs, err := readGraphs(ctx, src, &r)
	if err != nil {
		return r, fmt.Errorf("read graphs: %w", err)
	}
	log.WithField("count", r.GraphsRead).Info("read graph files")

	if cfg.DryRun {
		log.Info("dry run, skipping PostgreSQL writes")
		r.GraphsInserted = len(graphs)
		return r, nil
	}

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL, 2)
	if err != nil {
		return r, fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return r, fmt.Errorf("apply schema: %w", err)
	}

	dst := store.NewPGStore(pool, log)
	if err := writeGraphs(ctx, dst, graphs, &r); err != nil {
		return r, fmt.Errorf("write graphs: %w", err)
	}
	log.WithField("count", r.GraphsInserted).Info("inserted graphs")

	r.GraphsVerified, err = verifyGraphs(ctx, dst, graphs)
	if err != nil {
		return r, fmt.Errorf("verify graphs: %w", err)
	}

	r.SpotChecks = spotCheck(ctx, dst, graphs)

	return r, nil
}
