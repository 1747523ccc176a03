package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/costwatch/costwatch/internal/config"
	"github.com/costwatch/costwatch/internal/handlers"
	"github.com/costwatch/costwatch/internal/loader"
	"github.com/costwatch/costwatch/internal/logging"
	"github.com/costwatch/costwatch/internal/metrics"
	"github.com/costwatch/costwatch/internal/queue"
	"github.com/costwatch/costwatch/internal/router"
	"github.com/costwatch/costwatch/internal/services"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()
	os.Exit(run(*configPath))
}

// run starts the API and blocks until shutdown. Resources opened here are
// closed by its defers before main exits with the returned code.
func run(configPath string) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	logging.SetGlobal(logger)
	logger.Info("Costwatch API starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	m := metrics.New()

	logger.Info("Opening cost source", "source", cfg.Source.String())
	costs, closeSource, err := loader.New(cfg, loader.Hooks{
		OnLookup: m.CacheLookup,
		OnError: func(err error) {
			logger.Warn("Series cache error", "error", err)
		},
	})
	if err != nil {
		logger.Error("Failed to open cost source", "error", err)
		return 1
	}
	defer func() { _ = closeSource() }()

	opts := []services.Option{
		services.WithConfig(cfg.Analysis),
		services.WithMetrics(m),
	}

	if cfg.Alerts.Enabled {
		logger.Info("Connecting to alert transport", "type", cfg.Alerts.Type, "url", cfg.Alerts.URL)
		publisher, err := queue.NewPublisher(cfg.Alerts)
		if err != nil {
			logger.Error("Failed to connect to alert transport", "error", err)
			return 1
		}
		alerts := services.NewAlertPublisher(publisher, cfg.Alerts, logger, m)
		defer func() { _ = alerts.Close() }()
		opts = append(opts, services.WithAlerts(alerts))
	} else {
		logger.Info("Alert publishing disabled")
	}

	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	handlers.Version = Version
	trends := services.NewTrendService(logger, costs, opts...)
	app := router.New(logger, handlers.New(logger, trends, cfg.Analysis), m, *cfg)

	listenErr := make(chan error, 1)
	go func() {
		addr := cfg.GetServerAddress()
		logger.Info("Server listening", "address", addr)
		listenErr <- app.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	code := 0
	select {
	case <-quit:
		logger.Info("Shutting down server...")
	case err := <-listenErr:
		logger.Error("Failed to start server", "error", err)
		code = 1
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
	return code
}
