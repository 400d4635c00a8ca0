package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angeloszaimis/model-health-monitor/config"
	"github.com/angeloszaimis/model-health-monitor/internal/fallback"
	"github.com/angeloszaimis/model-health-monitor/internal/handler"
	"github.com/angeloszaimis/model-health-monitor/internal/httpserver"
	"github.com/angeloszaimis/model-health-monitor/internal/metrics"
	"github.com/angeloszaimis/model-health-monitor/internal/probe"
	"github.com/angeloszaimis/model-health-monitor/internal/registry"
	"github.com/angeloszaimis/model-health-monitor/internal/scheduler"
	"github.com/angeloszaimis/model-health-monitor/pkg/logger"
)

const metricsBufferSize = 256

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	interval, err := time.ParseDuration(cfg.HealthCheck.Interval)
	if err != nil {
		log.Error("Invalid health check interval", slog.Any("err", err))
		os.Exit(1)
	}

	probeTimeout, err := time.ParseDuration(cfg.HealthCheck.ProbeTimeout)
	if err != nil {
		log.Error("Invalid probe timeout", slog.Any("err", err))
		os.Exit(1)
	}

	reg, targets := initializeRegistry(cfg)

	collector := metrics.NewCollector(metricsBufferSize, log)
	collector.Start(ctx)

	prober := probe.NewHTTP(targets, probeTimeout, log)

	sched := scheduler.New(reg, prober, collector, interval, log)
	if err := sched.Start(ctx); err != nil {
		log.Error("Failed to start health check scheduler", slog.Any("err", err))
		os.Exit(1)
	}
	defer sched.Stop()

	selector := fallback.NewSelector(reg, prober, collector, log)

	modelHandler := handler.NewModelHandler(log, reg, selector, collector)

	mux := setupRouter(modelHandler, collector)

	srv, err := httpserver.New(cfg.Server.Address, mux)
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	log.Info("Model health monitor started",
		slog.String("address", cfg.Server.Address),
		slog.Int("models", reg.Len()))

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		sched.Stop()
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting server", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

// initializeRegistry builds the model registry and the prober's
// id -> endpoint catalog from the static model configuration. API keys
// are resolved from the environment, never stored in the config file.
func initializeRegistry(cfg *config.Config) (*registry.Registry, map[string]probe.Target) {
	reg := registry.New()
	targets := make(map[string]probe.Target, len(cfg.Models))

	catalog := make([]registry.Entry, 0, len(cfg.Models))
	for _, m := range cfg.Models {
		catalog = append(catalog, registry.Entry{
			ID:        m.ID,
			Name:      m.Name,
			Preferred: m.Preferred,
		})

		targets[m.ID] = probe.Target{
			Endpoint: m.Endpoint,
			APIKey:   os.Getenv(m.APIKeyEnv),
		}
	}

	reg.Initialize(catalog)
	return reg, targets
}
