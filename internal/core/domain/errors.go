// Package domain defines the core domain models for the relay.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured code.
// Codes group by subsystem (OWNR, ENRL, DEVC, ARG, SYS) and carry the
// HTTP-like status class in their numeric suffix.
type DomainError struct {
	Code    string // Error code (e.g., "RL-DEVC-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support; two DomainErrors match on Code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// An empty code matches any DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Owner errors (OWNR).
var (
	// ErrOwnerUnauthorized indicates an unknown owner or a secret
	// mismatch. The two cases share one error so authentication fails
	// closed without leaking which part was wrong.
	ErrOwnerUnauthorized = NewDomainError("RL-OWNR-4010", "owner authentication failed")
)

// Enrollment errors (ENRL).
var (
	// ErrEnrollmentInvalid indicates the enrollment token is unknown,
	// already redeemed, or past its expiry.
	ErrEnrollmentInvalid = NewDomainError("RL-ENRL-4010", "enrollment token invalid or expired")
)

// Device errors (DEVC).
var (
	// ErrDeviceUnauthorized indicates a device secret mismatch or an
	// unknown device presented on a session join.
	ErrDeviceUnauthorized = NewDomainError("RL-DEVC-4010", "device authentication failed")

	// ErrDeviceNotFound indicates the device is absent or owned by a
	// different owner than the caller.
	ErrDeviceNotFound = NewDomainError("RL-DEVC-4040", "device not found")
)

// Argument errors (ARG).
var (
	// ErrInvalidRequest indicates a malformed request body.
	ErrInvalidRequest = NewDomainError("RL-ARG-4000", "invalid request")

	// ErrMissingFields indicates required fields were absent.
	ErrMissingFields = NewDomainError("RL-ARG-4001", "required fields missing")
)

// System errors (SYS).
var (
	// ErrRateLimited indicates the caller exceeded its rate budget.
	ErrRateLimited = NewDomainError("RL-SYS-4290", "rate limited")

	// ErrInternalServer indicates an unexpected internal failure.
	ErrInternalServer = NewDomainError("RL-SYS-5000", "internal server error")
)
