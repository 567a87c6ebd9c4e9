// Package main provides the entry point for relay-server.
//
// relay-server is the caption relay for live sessions: it brokers
// owner, enrollment and device credentials over REST and fans caption
// frames out to session peers over WebSocket.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ossiavoice/relay-go/internal/core/service"
	"github.com/ossiavoice/relay-go/internal/infra/buildinfo"
	"github.com/ossiavoice/relay-go/internal/infra/confloader"
	"github.com/ossiavoice/relay-go/internal/infra/shutdown"
	"github.com/ossiavoice/relay-go/internal/ratelimit"
	"github.com/ossiavoice/relay-go/internal/server/config"
	"github.com/ossiavoice/relay-go/internal/server/httpserver"
	"github.com/ossiavoice/relay-go/internal/server/wsserver"
	"github.com/ossiavoice/relay-go/internal/storage/memory"
	"github.com/ossiavoice/relay-go/internal/telemetry/logger"
	"github.com/ossiavoice/relay-go/internal/telemetry/metric"
)

func main() {
	app := &cli.App{
		Name:    "relay-server",
		Usage:   "WebSocket caption relay with device credential brokering",
		Version: buildinfo.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to configuration file",
				EnvVars: []string{"WSRELAY_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "listen address (overrides configuration)",
				EnvVars: []string{"WSRELAY_ADDR"},
			},
		},
		Action: func(c *cli.Context) error {
			return run(c.String("config"), c.String("addr"))
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, addrOverride string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if addrOverride != "" {
		cfg.Server.HTTP.Addr = addrOverride
	}

	log, slogLogger, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting relay-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", configFile)

	metrics := metric.New()

	// Stores and services
	owners := service.NewOwnerService(memory.NewOwnerStore(), slogLogger)
	devices := service.NewDeviceService(memory.NewDeviceStore(), owners, slogLogger)
	enrollments := service.NewEnrollmentService(memory.NewEnrollmentStore(), owners, devices, cfg.Relay.EnrollTTL, slogLogger)

	// WebSocket relay
	wsRouter := wsserver.NewRouter(devices, owners, slogLogger, metrics)
	wsHandler := wsserver.NewServer(wsRouter, ratelimit.Limit{
		Capacity:  cfg.Limits.FrameCapacity,
		RefillPer: cfg.Limits.FrameRefill,
	}, slogLogger)

	sweeper := wsserver.NewSweeper(wsRouter, cfg.Relay.PingInterval, slogLogger)
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go sweeper.Run(sweepCtx)

	// HTTP surface
	router := httpserver.NewRouter(&httpserver.RouterConfig{
		OwnerService:      owners,
		EnrollmentService: enrollments,
		DeviceService:     devices,
		WSHandler:         wsHandler,
		Logger:            slogLogger,
		Metrics:           metrics,
		Limiters:          ratelimit.NewRegistry(),
		RegisterLimit: ratelimit.Limit{
			Capacity:  cfg.Limits.RegisterCapacity,
			RefillPer: cfg.Limits.RegisterRefill,
		},
		RouteLimit: ratelimit.Limit{
			Capacity:  cfg.Limits.RouteCapacity,
			RefillPer: cfg.Limits.RouteRefill,
		},
	})

	httpServer := httpserver.New(cfg.Server.HTTP.Addr, router)

	// Config file watcher: log level follows the file without restart.
	var watcher *confloader.Watcher
	if configFile != "" {
		watcher, err = confloader.NewWatcher(slogLogger)
		if err != nil {
			return fmt.Errorf("config watcher: %w", err)
		}
		if err := watcher.Watch(configFile); err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
		watcher.OnChange(func(changed string) {
			if filepath.Base(changed) != filepath.Base(configFile) {
				return
			}
			reloaded, err := loadConfig(configFile)
			if err != nil {
				log.Warn("config reload failed", "error", err)
				return
			}
			logger.SetLevel(reloaded.Log.Level)
			log.Info("log level reloaded", "level", reloaded.Log.Level)
		})
		go watcher.Start()
	}

	// Shutdown hooks run in reverse registration order.
	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("stopping liveness sweeper")
		stopSweeper()
		return nil
	})

	if watcher != nil {
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			return watcher.Close()
		})
	}

	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr)

		var err error
		if cfg.Server.HTTP.TLSCertFile != "" && cfg.Server.HTTP.TLSKeyFile != "" {
			err = httpServer.ListenAndServeTLS(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
			shutdownHandler.Trigger()
		}
	}()

	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initLogger initializes the structured logger.
// Returns both the logger interface and slog.Logger for components that need it.
func initLogger(cfg *config.ServerConfig) (logger.Logger, *slog.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, nil, err
	}

	logger.SetDefault(log)

	return log, logger.Slog(log), nil
}
