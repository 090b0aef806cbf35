package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/adapters/middleware"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/metrics"
)

type RouterConfig struct {
	Emergency   *EmergencyHandler
	Users       *UserHandler
	Catalog     *CatalogHandler
	Positioning *PositioningHandler
	Health      *HealthHandler

	// CreateLimiter throttles request intake; nil disables throttling.
	CreateLimiter  *middleware.RateLimiter
	AllowedOrigins []string

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	// Health endpoints (OpenShift compatible)
	mux.HandleFunc("GET /health", cfg.Health.Health)
	mux.HandleFunc("GET /health/ready", cfg.Health.Ready)
	mux.HandleFunc("GET /health/live", cfg.Health.Live)
	mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))

	var create http.Handler = http.HandlerFunc(cfg.Emergency.Create)
	if cfg.CreateLimiter != nil {
		create = cfg.CreateLimiter.Limit(create)
	}
	mux.Handle("POST /api/emergency-requests", create)
	mux.HandleFunc("GET /api/emergency-requests/{id}", cfg.Emergency.Get)
	mux.HandleFunc("PATCH /api/emergency-requests/{id}/status", cfg.Emergency.UpdateStatus)

	mux.HandleFunc("GET /api/emergency-types", cfg.Catalog.List)
	mux.HandleFunc("GET /api/emergency-types/{id}", cfg.Catalog.Get)

	mux.HandleFunc("POST /api/users", cfg.Users.Register)
	mux.HandleFunc("GET /api/users/{id}", cfg.Users.Get)
	mux.HandleFunc("GET /api/users/{id}/emergency-requests", cfg.Emergency.ListByUser)

	mux.HandleFunc("GET /api/galileo-sar/status", cfg.Positioning.Status)

	var h http.Handler = mux
	h = middleware.Instrument(cfg.Logger, cfg.Metrics)(h)
	h = middleware.CORSMiddleware(cfg.AllowedOrigins)(h)
	h = middleware.RequestID(h)
	return h
}
