package handler

import (
	"net/http"

	"github.com/dvalim/papermill/internal/service"
)

// StatusHandler exposes the polling contract: a read-only snapshot of every
// known job. Each call is independent and side-effect free, so clients may
// poll on any cadence while workers keep writing.
type StatusHandler struct {
	coordinator *service.Coordinator
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(coordinator *service.Coordinator) *StatusHandler {
	return &StatusHandler{coordinator: coordinator}
}

// Status handles GET /status
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.coordinator.Status())
}
