package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/bibbank/credit-risk/pkg/postgres"
)

const serviceName = "credit-risk-service"

// ModelStatusReporter reports whether decisions currently come from a
// trained model or from the rule-based fallback.
type ModelStatusReporter interface {
	Status() string
}

// HealthHandler serves liveness, readiness and metrics over HTTP.
type HealthHandler struct {
	db      postgres.Pinger
	models  ModelStatusReporter
	metrics http.Handler
	logger  *slog.Logger
}

// NewHealthHandler creates the HTTP handler. db and metrics may be nil.
func NewHealthHandler(db postgres.Pinger, models ModelStatusReporter, metrics http.Handler, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, models: models, metrics: metrics, logger: logger}
}

// RegisterRoutes attaches the health and metrics routes to mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.liveness)
	mux.HandleFunc("GET /readyz", h.readiness)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
	}
}

func (h *HealthHandler) liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
	})
}

// readiness fails only on the database. A missing model degrades decisions
// to the fallback but does not take the service out of rotation.
func (h *HealthHandler) readiness(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{
		"service":  serviceName,
		"database": "ok",
		"model":    "unknown",
	}
	if h.models != nil {
		body["model"] = h.models.Status()
	}

	code := http.StatusOK
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := postgres.HealthCheck(ctx, h.db); err != nil {
			h.logger.WarnContext(ctx, "readiness check failed", "error", err)
			body["database"] = "unavailable"
			code = http.StatusServiceUnavailable
		}
	}

	body["status"] = "ready"
	if code != http.StatusOK {
		body["status"] = "not_ready"
	}
	writeJSON(w, code, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}
