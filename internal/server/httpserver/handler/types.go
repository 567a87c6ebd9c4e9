// Package handler provides HTTP request handlers for the relay.
package handler

// ErrorResponse is the wire format for failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

// OwnerRegisterResponse is the response for POST /owner-register.
type OwnerRegisterResponse struct {
	OwnerID     string `json:"ownerId"`
	OwnerSecret string `json:"ownerSecret"`
}

// EnrollIssueRequest is the request body for POST /enroll-issue.
type EnrollIssueRequest struct {
	ParticipantID string `json:"participantId"`
	OwnerID       string `json:"ownerId"`
	OwnerSecret   string `json:"ownerSecret"`
	DisplayName   string `json:"displayName"`
}

// EnrollIssueResponse is the response for POST /enroll-issue.
type EnrollIssueResponse struct {
	EnrollToken string `json:"enrollToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// EnrollRequest is the request body for POST /enroll.
type EnrollRequest struct {
	EnrollToken string `json:"enrollToken"`
}

// EnrollResponse is the response for POST /enroll.
type EnrollResponse struct {
	DeviceID      string `json:"deviceId"`
	DeviceSecret  string `json:"deviceSecret"`
	ParticipantID string `json:"participantId"`
	OwnerID       string `json:"ownerId"`
	DisplayName   string `json:"displayName"`
}

// DeviceAdminRequest is the request body for POST /device-revoke and
// POST /device-rotate.
type DeviceAdminRequest struct {
	OwnerID     string `json:"ownerId"`
	OwnerSecret string `json:"ownerSecret"`
	DeviceID    string `json:"deviceId"`
}

// DeviceRevokeResponse is the response for POST /device-revoke.
type DeviceRevokeResponse struct {
	Revoked bool `json:"revoked"`
}

// DeviceRotateResponse is the response for POST /device-rotate.
type DeviceRotateResponse struct {
	DeviceID     string `json:"deviceId"`
	DeviceSecret string `json:"deviceSecret"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
