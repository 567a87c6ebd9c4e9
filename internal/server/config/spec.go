// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for relay-server.
type ServerConfig struct {
	Server ServerSection `koanf:"server"`
	Relay  RelaySection  `koanf:"relay"`
	Limits LimitsSection `koanf:"limits"`
	Log    LogSection    `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP server. The WebSocket endpoint is
// served on the same listener.
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`
}

// RelaySection configures relay behavior.
type RelaySection struct {
	// EnrollTTL is the lifetime of a single-use enrollment token.
	EnrollTTL time.Duration `koanf:"enroll_ttl"`

	// PingInterval is the liveness sweep period. Connections that do
	// not answer a ping within one interval are evicted.
	PingInterval time.Duration `koanf:"ping_interval"`
}

// LimitsSection configures token-bucket rate limits.
type LimitsSection struct {
	// RegisterCapacity / RegisterRefill limit POST /owner-register per
	// client address.
	RegisterCapacity int     `koanf:"register_capacity"`
	RegisterRefill   float64 `koanf:"register_refill"`

	// RouteCapacity / RouteRefill limit all other HTTP routes per
	// client address.
	RouteCapacity int     `koanf:"route_capacity"`
	RouteRefill   float64 `koanf:"route_refill"`

	// FrameCapacity / FrameRefill limit caption frames per device
	// connection.
	FrameCapacity int     `koanf:"frame_capacity"`
	FrameRefill   float64 `koanf:"frame_refill"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
