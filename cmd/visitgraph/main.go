// Package main is the visitgraph server: it serves recorded visit graphs as
// JSON and SVG, plus the viewer page that draws them.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/visitgraph/internal/api"
	"github.com/persistorai/visitgraph/internal/config"
	"github.com/persistorai/visitgraph/internal/db"
	"github.com/persistorai/visitgraph/internal/db/migrations"
	"github.com/persistorai/visitgraph/internal/dbpool"
	"github.com/persistorai/visitgraph/internal/domain"
	"github.com/persistorai/visitgraph/internal/service"
	"github.com/persistorai/visitgraph/internal/store"
	"github.com/persistorai/visitgraph/internal/watch"
	"github.com/persistorai/visitgraph/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("loading config")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(logrus.Fields{
		"version": config.Version,
		"backend": cfg.GraphBackend,
		"addr":    cfg.Addr(),
	}).Info("starting visitgraph")

	b, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.close()

	svc, err := service.NewGraphService(b.store, cfg.GraphCacheSize, log)
	if err != nil {
		return fmt.Errorf("creating graph service: %w", err)
	}

	hub := ws.NewHub(log)
	hubCtx, cancelHub := context.WithCancel(context.Background())
	defer cancelHub()
	go hub.Run(hubCtx)
	svc.SetPublisher(hub)

	if err := startChangeFeed(ctx, cfg, b, svc, log); err != nil {
		return err
	}

	deps := &api.RouterDeps{
		Log:         log,
		Graphs:      svc,
		Hub:         hub,
		CORSOrigins: cfg.CORSOrigins,
		Version:     config.Version,
		Backend:     cfg.GraphBackend,
	}
	if b.pool != nil {
		deps.DB = b.pool
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(ctx, deps),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr(),
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go serve(srv, "api", log, errCh)
	go serve(metricsSrv, "metrics", log, errCh)

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		log.WithError(err).Error("listener failed, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	hub.Shutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("api server shutdown")
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("metrics server shutdown")
	}

	log.Info("visitgraph stopped")

	return nil
}

func serve(srv *http.Server, name string, log *logrus.Logger, errCh chan<- error) {
	log.WithFields(logrus.Fields{"listener": name, "addr": srv.Addr}).Info("listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errCh <- fmt.Errorf("%s listener: %w", name, err)
	}
}

// backend is the opened graph store plus whatever it holds open.
type backend struct {
	store domain.GraphStore
	files *store.FileStore
	pool  *dbpool.Pool
}

func (b *backend) close() {
	if b.pool != nil {
		b.pool.Close()
	}
}

func openBackend(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*backend, error) {
	if cfg.GraphBackend != config.BackendPostgres {
		fs := store.NewFileStore(cfg.GraphPath, log)

		return &backend{store: fs, files: fs}, nil
	}

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value(), cfg.DBMaxConns)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		pool.Close()

		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &backend{store: store.NewPGStore(pool, log), pool: pool}, nil
}

// startChangeFeed hooks the service up to whatever announces graph changes
// for the backend: fsnotify for files, LISTEN/NOTIFY for postgres.
func startChangeFeed(ctx context.Context, cfg *config.Config, b *backend, svc *service.GraphService, log *logrus.Logger) error {
	if b.pool != nil {
		if err := db.NewNotifyBridge(log, b.pool, svc).Start(ctx); err != nil {
			return fmt.Errorf("starting notify bridge: %w", err)
		}

		return nil
	}

	if !cfg.WatchGraphs {
		return nil
	}

	w, err := watch.New(b.files.Dir(), 0, svc, log)
	if err != nil {
		return fmt.Errorf("watching %s: %w", b.files.Dir(), err)
	}

	go func() {
		defer w.Close() //nolint:errcheck // best-effort close on shutdown.

		if err := w.Run(ctx); err != nil {
			log.WithError(err).Warn("graph watcher stopped")
		}
	}()

	return nil
}
