package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := Verify(cfg); err != nil {
		t.Fatalf("default config failed verification: %v", err)
	}
	if cfg.Relay.EnrollTTL != 10*time.Minute {
		t.Errorf("enroll_ttl = %v, want 10m", cfg.Relay.EnrollTTL)
	}
	if cfg.Limits.RegisterCapacity != 5 || cfg.Limits.RegisterRefill != 0.05 {
		t.Errorf("register limit = %d/%v", cfg.Limits.RegisterCapacity, cfg.Limits.RegisterRefill)
	}
	if cfg.Limits.FrameCapacity != 40 || cfg.Limits.FrameRefill != 20.0 {
		t.Errorf("frame limit = %d/%v", cfg.Limits.FrameCapacity, cfg.Limits.FrameRefill)
	}
}

func TestVerifyRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{
			name:    "missing addr",
			mutate:  func(c *ServerConfig) { c.Server.HTTP.Addr = "" },
			wantErr: "server.http.addr",
		},
		{
			name:    "cert without key",
			mutate:  func(c *ServerConfig) { c.Server.HTTP.TLSCertFile = "/tmp/cert.pem" },
			wantErr: "must be set together",
		},
		{
			name:    "zero enroll ttl",
			mutate:  func(c *ServerConfig) { c.Relay.EnrollTTL = 0 },
			wantErr: "enroll_ttl",
		},
		{
			name:    "zero ping interval",
			mutate:  func(c *ServerConfig) { c.Relay.PingInterval = 0 },
			wantErr: "ping_interval",
		},
		{
			name:    "zero frame capacity",
			mutate:  func(c *ServerConfig) { c.Limits.FrameCapacity = 0 },
			wantErr: "capacities",
		},
		{
			name:    "negative refill",
			mutate:  func(c *ServerConfig) { c.Limits.RouteRefill = -1 },
			wantErr: "refill",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Verify(cfg)
			if err == nil {
				t.Fatal("expected verification error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
