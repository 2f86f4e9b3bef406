package handler

import (
	"net/http"

	"github.com/dvalim/papermill/internal/worker"
)

// HealthHandler handles liveness and readiness probes
type HealthHandler struct {
	pool    *worker.Pool
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(pool *worker.Pool, version string) *HealthHandler {
	return &HealthHandler{
		pool:    pool,
		version: version,
	}
}

// HealthResponse represents a health probe response
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	QueueLength int    `json:"queue_length"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		Version:     h.version,
		QueueLength: h.pool.QueueLength(),
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "ready",
		Version:     h.version,
		QueueLength: h.pool.QueueLength(),
	})
}
