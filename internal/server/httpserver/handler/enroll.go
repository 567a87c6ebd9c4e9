// Package handler provides HTTP request handlers for the relay.
package handler

import (
	"net/http"

	"github.com/ossiavoice/relay-go/internal/core/domain"
	"github.com/ossiavoice/relay-go/internal/core/service"
)

// handleEnrollIssue handles POST /enroll-issue.
//
// An authenticated owner mints a single-use enrollment token bound to a
// participant. The token is handed to the participant out of band (QR
// code, link) and redeemed on their device via POST /enroll.
func (h *Handler) handleEnrollIssue(w http.ResponseWriter, r *http.Request) {
	var req EnrollIssueRequest
	if err := h.decodeBody(r, &req); err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp, err := h.enrollSvc.Issue(r.Context(), &service.IssueEnrollmentRequest{
		ParticipantID: req.ParticipantID,
		OwnerID:       req.OwnerID,
		OwnerSecret:   req.OwnerSecret,
		DisplayName:   req.DisplayName,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.EnrollmentsIssued.Inc()
	}

	h.writeJSON(w, http.StatusOK, EnrollIssueResponse{
		EnrollToken: resp.Token,
		ExpiresIn:   resp.ExpiresIn,
	})
}

// minEnrollTokenLength rejects obviously malformed tokens before the
// broker is consulted; issued tokens are 32 hex characters.
const minEnrollTokenLength = 10

// handleEnroll handles POST /enroll.
//
// Redeems an enrollment token for long-lived device credentials. A
// token redeems at most once; expired or consumed tokens map to
// invalid_or_expired without distinguishing the two.
func (h *Handler) handleEnroll(w http.ResponseWriter, r *http.Request) {
	var req EnrollRequest
	if err := h.decodeBody(r, &req); err != nil {
		h.handleServiceError(w, err)
		return
	}
	if len(req.EnrollToken) < minEnrollTokenLength {
		h.handleServiceError(w, domain.ErrInvalidRequest)
		return
	}

	resp, err := h.enrollSvc.Redeem(r.Context(), req.EnrollToken)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.EnrollmentsRedeemed.Inc()
	}

	h.writeJSON(w, http.StatusOK, EnrollResponse{
		DeviceID:      resp.DeviceID,
		DeviceSecret:  resp.Secret,
		ParticipantID: resp.ParticipantID,
		OwnerID:       resp.OwnerID,
		DisplayName:   resp.DisplayName,
	})
}
