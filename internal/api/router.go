package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/visitgraph/internal/middleware"
	"github.com/persistorai/visitgraph/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Graphs      GraphService
	DB          HealthChecker // nil for the file backend
	Hub         *ws.Hub       // nil disables /api/v1/ws
	CORSOrigins []string
	Version     string
	Backend     string
}

// Router-level limits.
const (
	maxBodySize = 64 << 20 // recorded graphs of long fuzzing runs get large
	rateLimit   = 100      // requests per second per IP
	rateBurst   = 200      // token bucket burst size
)

// wsRoute is the WebSocket endpoint; its duration is excluded from latency metrics.
const wsRoute = "/api/v1/ws"

func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "X-Drawn-Nodes", "X-Skipped-Nodes"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware(wsRoute))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerPages serves the viewer page and the graph endpoints it calls.
func registerPages(r *gin.Engine, graphs *GraphHandler) {
	page := middleware.ContentPolicy(middleware.PagePolicy)
	r.GET("/", page, Index)
	r.GET("/static/app.js", page, Script)

	r.GET("/graph/:name", graphs.Get)
	r.GET("/graph/:name/svg", graphs.SVG)
}

// registerRoutes sets up the versioned API on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, graphs *GraphHandler, deps *RouterDeps) {
	var clients ClientCounter
	if deps.Hub != nil {
		clients = deps.Hub
	}
	health := NewHealthHandler(deps.DB, deps.Graphs, clients, deps.Log, deps.Version, deps.Backend)

	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	api.GET("/graphs", graphs.List)
	api.PUT("/graphs/:name", graphs.Put)

	if deps.Hub != nil {
		api.GET("/ws", wsHandler(ctx, deps.Log, deps.Hub, deps.CORSOrigins))
	}
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)

	graphs := NewGraphHandler(deps.Graphs, deps.Log)
	registerPages(r, graphs)
	registerRoutes(ctx, r.Group("/api/v1"), graphs, deps)

	return r
}
