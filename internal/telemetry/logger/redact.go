// Package logger provides structured logging for the relay.
package logger

import (
	"log/slog"
	"strings"
)

// Key patterns whose string values are always redacted. Everything the
// relay treats as a credential lands under one of these: owner_secret,
// device_secret, enroll_token, Authorization bearer values.
var sensitiveKeyPatterns = []string{
	"secret",
	"token",
	"password",
	"credential",
	"bearer",
	"authorization",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive redacts attributes whose key names suggest credential
// material. Identifiers (owner_id, device_id, session_id) pass through.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		keyLower := strings.ToLower(a.Key)
		for _, pattern := range sensitiveKeyPatterns {
			if strings.Contains(keyLower, pattern) {
				if a.Value.String() != "" {
					return slog.String(a.Key, redactedValue)
				}
				break
			}
		}
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}
