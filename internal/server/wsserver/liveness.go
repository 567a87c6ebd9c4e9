// Package wsserver implements the WebSocket relay endpoint.
package wsserver

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically probes every connection. A connection that has
// not answered the previous ping by the next tick is terminated; its
// read loop then removes it from the session table.
type Sweeper struct {
	router   *Router
	interval time.Duration
	logger   *slog.Logger
}

// NewSweeper creates a liveness sweeper with the given probe interval.
func NewSweeper(router *Router, interval time.Duration, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{router: router, interval: interval, logger: logger}
}

// Run sweeps until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("liveness sweeper started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("liveness sweeper stopped")
			return
		case <-ticker.C:
			s.router.sweep()
		}
	}
}
