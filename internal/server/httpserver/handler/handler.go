// Package handler provides HTTP request handlers for the relay.
//
// This package implements the credential REST endpoints: owner
// registration, enrollment issue and redemption, and device revocation
// and rotation. Response bodies follow the relay wire contract:
// successes are flat camelCase objects, failures are {"error":"<code>"}.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ossiavoice/relay-go/internal/core/domain"
	"github.com/ossiavoice/relay-go/internal/core/service"
	"github.com/ossiavoice/relay-go/internal/telemetry/metric"
)

// Handler is the main HTTP handler that routes requests to appropriate handlers.
type Handler struct {
	ownerSvc  *service.OwnerService
	enrollSvc *service.EnrollmentService
	deviceSvc *service.DeviceService
	logger    *slog.Logger
	metrics   *metric.Metrics
	mux       *http.ServeMux
}

// New creates a new Handler with the given services.
func New(ownerSvc *service.OwnerService, enrollSvc *service.EnrollmentService, deviceSvc *service.DeviceService, logger *slog.Logger, metrics *metric.Metrics) *Handler {
	h := &Handler{
		ownerSvc:  ownerSvc,
		enrollSvc: enrollSvc,
		deviceSvc: deviceSvc,
		logger:    logger,
		metrics:   metrics,
		mux:       http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// registerRoutes registers all HTTP routes.
func (h *Handler) registerRoutes() {
	// Health endpoint (no auth required)
	h.mux.HandleFunc("GET /health", h.handleHealth)

	// Owner endpoints
	h.mux.HandleFunc("POST /owner-register", h.handleOwnerRegister)

	// Enrollment endpoints
	h.mux.HandleFunc("POST /enroll-issue", h.handleEnrollIssue)
	h.mux.HandleFunc("POST /enroll", h.handleEnroll)

	// Device endpoints
	h.mux.HandleFunc("POST /device-revoke", h.handleDeviceRevoke)
	h.mux.HandleFunc("POST /device-rotate", h.handleDeviceRotate)
}

// writeJSON writes a JSON success response.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response in wire format.
func (h *Handler) writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code})
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	status, code := errorToWire(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("internal error", "error", err)
	}
	h.writeError(w, status, code)
}

// errorToWire maps domain errors to (HTTP status, wire code).
func errorToWire(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrMissingFields):
		return http.StatusBadRequest, "missing_fields"
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, domain.ErrEnrollmentInvalid):
		return http.StatusUnauthorized, "invalid_or_expired"
	case errors.Is(err, domain.ErrOwnerUnauthorized),
		errors.Is(err, domain.ErrDeviceUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrDeviceNotFound):
		return http.StatusNotFound, "device_not_found"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// decodeBody decodes a JSON request body into target. Malformed bodies
// map to the invalid_request wire code.
func (h *Handler) decodeBody(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return domain.ErrInvalidRequest.WithCause(err)
	}
	return nil
}
