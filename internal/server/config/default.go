// Package config defines the server configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr = "127.0.0.1:8080"

	DefaultEnrollTTL    = 10 * time.Minute
	DefaultPingInterval = 30 * time.Second

	DefaultRegisterCapacity = 5
	DefaultRegisterRefill   = 0.05
	DefaultRouteCapacity    = 10
	DefaultRouteRefill      = 0.2
	DefaultFrameCapacity    = 40
	DefaultFrameRefill      = 20.0

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr: DefaultHTTPAddr,
			},
		},
		Relay: RelaySection{
			EnrollTTL:    DefaultEnrollTTL,
			PingInterval: DefaultPingInterval,
		},
		Limits: LimitsSection{
			RegisterCapacity: DefaultRegisterCapacity,
			RegisterRefill:   DefaultRegisterRefill,
			RouteCapacity:    DefaultRouteCapacity,
			RouteRefill:      DefaultRouteRefill,
			FrameCapacity:    DefaultFrameCapacity,
			FrameRefill:      DefaultFrameRefill,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
