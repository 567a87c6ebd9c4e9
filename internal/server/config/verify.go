// Package config defines the server configuration structure.
package config

import (
	"errors"
	"os"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyRelay(&cfg.Relay); err != nil {
		return err
	}
	return verifyLimits(&cfg.Limits)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		return errors.New("server.http.tls_cert_file and tls_key_file must be set together")
	}
	if cfg.HTTP.TLSCertFile != "" {
		if _, err := os.Stat(cfg.HTTP.TLSCertFile); err != nil {
			return errors.New("server.http.tls_cert_file: " + err.Error())
		}
		if _, err := os.Stat(cfg.HTTP.TLSKeyFile); err != nil {
			return errors.New("server.http.tls_key_file: " + err.Error())
		}
	}
	return nil
}

func verifyRelay(cfg *RelaySection) error {
	if cfg.EnrollTTL <= 0 {
		return errors.New("relay.enroll_ttl must be positive")
	}
	if cfg.PingInterval <= 0 {
		return errors.New("relay.ping_interval must be positive")
	}
	return nil
}

func verifyLimits(cfg *LimitsSection) error {
	if cfg.RegisterCapacity < 1 || cfg.RouteCapacity < 1 || cfg.FrameCapacity < 1 {
		return errors.New("limits: bucket capacities must be at least 1")
	}
	if cfg.RegisterRefill <= 0 || cfg.RouteRefill <= 0 || cfg.FrameRefill <= 0 {
		return errors.New("limits: refill rates must be positive")
	}
	return nil
}
