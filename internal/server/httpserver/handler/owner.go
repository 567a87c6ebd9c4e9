// Package handler provides HTTP request handlers for the relay.
package handler

import "net/http"

// handleOwnerRegister handles POST /owner-register.
//
// Registration is open: any caller receives a fresh owner identity and
// its plaintext secret. The secret is shown exactly once.
func (h *Handler) handleOwnerRegister(w http.ResponseWriter, r *http.Request) {
	resp, err := h.ownerSvc.Register(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, OwnerRegisterResponse{
		OwnerID:     resp.OwnerID,
		OwnerSecret: resp.Secret,
	})
}
