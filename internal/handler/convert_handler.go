package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dvalim/papermill/internal/service"
)

// ConvertHandler handles batch submission and store clearing
type ConvertHandler struct {
	coordinator *service.Coordinator
}

// NewConvertHandler creates a new convert handler
func NewConvertHandler(coordinator *service.Coordinator) *ConvertHandler {
	return &ConvertHandler{coordinator: coordinator}
}

// ConvertRequest represents a batch submission request
type ConvertRequest struct {
	Paths []string `json:"paths"`
}

// ConvertResponse represents a batch submission response
type ConvertResponse struct {
	Success   bool     `json:"success"`
	Queued    int      `json:"queued"`
	Files     []string `json:"files"`
	Unmatched []string `json:"unmatched,omitempty"`
}

// ClearResponse acknowledges a store clear
type ClearResponse struct {
	Success bool `json:"success"`
}

// Convert handles POST /convert. Submission is fire-and-forget: the response
// reports what was queued, progress is observed via GET /status.
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if !hasContent(req.Paths) {
		writeError(w, http.StatusBadRequest, "paths is required")
		return
	}

	result := h.coordinator.Submit(req.Paths)

	writeJSON(w, http.StatusOK, ConvertResponse{
		Success:   true,
		Queued:    result.Queued,
		Files:     result.Files,
		Unmatched: result.Unmatched,
	})
}

// Clear handles POST /clear
func (h *ConvertHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.coordinator.Clear()
	writeJSON(w, http.StatusOK, ClearResponse{Success: true})
}

// hasContent reports whether at least one pattern is non-blank
func hasContent(paths []string) bool {
	for _, p := range paths {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}
