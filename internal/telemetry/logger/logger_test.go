package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func newBufferLogger(t *testing.T, level, format string) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(Config{Level: level, Format: format, Output: &buf})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return l, &buf
}

func TestJSONOutput(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")
	l.Info("owner registered", "owner_id", "own-123")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "owner registered" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["owner_id"] != "own-123" {
		t.Errorf("owner_id = %v, identifiers must not be redacted", entry["owner_id"])
	}
}

func TestRedaction(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"owner_secret", "super-secret-value"},
		{"device_secret", "super-secret-value"},
		{"enroll_token", "deadbeefdeadbeef"},
		{"authorization", "Bearer abc"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			l, buf := newBufferLogger(t, "info", "json")
			l.Info("event", tt.key, tt.value)

			out := buf.String()
			if strings.Contains(out, tt.value) {
				t.Errorf("output leaks %s: %s", tt.key, out)
			}
			if !strings.Contains(out, redactedValue) {
				t.Errorf("output missing redaction placeholder: %s", out)
			}
		})
	}
}

func TestEmptySensitiveValueNotRedacted(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")
	l.Info("event", "owner_secret", "")

	if strings.Contains(buf.String(), redactedValue) {
		t.Error("empty value was replaced with the redaction placeholder")
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(t, "warn", "json")
	l.Info("should not appear")
	l.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Error("info log emitted at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn log missing")
	}
}

func TestSetLevel(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")

	l.Debug("hidden")
	SetLevel("debug")
	defer SetLevel("info")
	l.Debug("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug log emitted before SetLevel")
	}
	if !strings.Contains(out, "visible") {
		t.Error("debug log missing after SetLevel(debug)")
	}
}

func TestTextFormat(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "text")
	l.Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("text format output unexpected: %s", buf.String())
	}
}
