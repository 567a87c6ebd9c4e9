// Package handler provides HTTP request handlers for the relay.
package handler

import (
	"net/http"

	"github.com/ossiavoice/relay-go/internal/core/domain"
	"github.com/ossiavoice/relay-go/internal/core/service"
)

// handleDeviceRevoke handles POST /device-revoke.
//
// The owning owner deletes a device's credentials. Revocation does not
// tear down connections the device already holds open.
func (h *Handler) handleDeviceRevoke(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeDeviceAdmin(w, r)
	if !ok {
		return
	}

	err := h.deviceSvc.Revoke(r.Context(), &service.RevokeDeviceRequest{
		OwnerID:     req.OwnerID,
		OwnerSecret: req.OwnerSecret,
		DeviceID:    req.DeviceID,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, DeviceRevokeResponse{Revoked: true})
}

// handleDeviceRotate handles POST /device-rotate.
//
// Replaces a device's secret. The old secret stops working the moment
// the response is written; there is no overlap window.
func (h *Handler) handleDeviceRotate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeDeviceAdmin(w, r)
	if !ok {
		return
	}

	resp, err := h.deviceSvc.Rotate(r.Context(), &service.RotateDeviceRequest{
		OwnerID:     req.OwnerID,
		OwnerSecret: req.OwnerSecret,
		DeviceID:    req.DeviceID,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, DeviceRotateResponse{
		DeviceID:     resp.DeviceID,
		DeviceSecret: resp.Secret,
	})
}

// decodeDeviceAdmin decodes and validates the shared revoke/rotate
// request body. All three fields are required.
func (h *Handler) decodeDeviceAdmin(w http.ResponseWriter, r *http.Request) (*DeviceAdminRequest, bool) {
	var req DeviceAdminRequest
	if err := h.decodeBody(r, &req); err != nil {
		h.handleServiceError(w, err)
		return nil, false
	}
	if req.OwnerID == "" || req.OwnerSecret == "" || req.DeviceID == "" {
		h.handleServiceError(w, domain.ErrInvalidRequest)
		return nil, false
	}
	return &req, true
}
