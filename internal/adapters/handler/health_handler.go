package handler

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const readinessTimeout = 5 * time.Second

// CheckFunc reports whether a dependency is reachable.
type CheckFunc func(ctx context.Context) error

type namedCheck struct {
	name    string
	message string
	check   CheckFunc
}

type HealthHandler struct {
	checks    []namedCheck
	logger    *zap.Logger
	startTime time.Time
	version   string
}

// NewHealthHandler builds the probes. Nil dependencies are not configured and
// are left out of readiness.
func NewHealthHandler(db *sql.DB, redisClient *redis.Client, logger *zap.Logger) *HealthHandler {
	version := os.Getenv("APP_VERSION")
	if version == "" {
		version = "unknown"
	}
	h := &HealthHandler{
		logger:    logger,
		startTime: time.Now(),
		version:   version,
	}
	if db != nil {
		h.AddCheck("database", "Cannot connect to database", db.PingContext)
	}
	if redisClient != nil {
		h.AddCheck("redis", "Cannot connect to Redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	return h
}

// AddCheck registers a readiness dependency. message is reported when it fails.
func (h *HealthHandler) AddCheck(name, message string, check CheckFunc) {
	h.checks = append(h.checks, namedCheck{name: name, message: message, check: check})
}

// HealthResponse follows Kubernetes/OpenShift health check conventions
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health is a simple liveness check - just confirms the process is serving
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, HealthResponse{
		Status:    "UP",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    map[string]Check{"process": {Status: "UP"}},
	})
}

// Live is an alias for Health
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	h.Health(w, r)
}

// Ready pings every configured dependency (readiness probe)
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	checks := make(map[string]Check, len(h.checks))
	status := "UP"
	httpStatus := http.StatusOK

	for _, c := range h.checks {
		if err := c.check(ctx); err != nil {
			h.logger.Warn("readiness check failed", zap.String("check", c.name), zap.Error(err))
			checks[c.name] = Check{Status: "DOWN", Message: c.message}
			status = "DOWN"
			httpStatus = http.StatusServiceUnavailable
			continue
		}
		checks[c.name] = Check{Status: "UP"}
	}

	writeJSON(w, h.logger, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    checks,
	})
}
