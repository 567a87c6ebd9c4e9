// Package handler provides HTTP request handlers for the relay.
package handler

import (
	"net/http"

	"github.com/ossiavoice/relay-go/internal/infra/buildinfo"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: buildinfo.Version,
	})
}
