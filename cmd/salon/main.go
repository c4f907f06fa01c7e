package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/salonatlas/salon-service/internal/config"
	"github.com/salonatlas/salon-service/internal/dataloader"
	"github.com/salonatlas/salon-service/internal/db"
	"github.com/salonatlas/salon-service/internal/logger"
	"github.com/salonatlas/salon-service/internal/search"
	"github.com/salonatlas/salon-service/internal/search/suggest"
	"github.com/salonatlas/salon-service/internal/server"
	"github.com/salonatlas/salon-service/pkg/consistency"
	"github.com/salonatlas/salon-service/pkg/health"
	"github.com/salonatlas/salon-service/pkg/metrics"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "directory containing config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		slog.Error("failed to build logger", "error", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.CreatePostgresPool(ctx, cfg.DB.URL)
	if err != nil {
		log.Fatal("failed to create postgres pool", "error", err)
	}
	defer pool.Close()

	store := db.NewPostgresStore(pool)

	loader := dataloader.NewLoader(store, log)
	if err := loader.Load(ctx); err != nil {
		// Start anyway: the API answers 503 until the first successful
		// refresh installs a snapshot.
		log.Error("initial snapshot load failed", "error", err)
	}
	go loader.Run(ctx, cfg.Loader.RefreshInterval)

	manager := consistency.New(store, loader, log)

	apiServer := server.New(
		cfg.Server,
		log,
		store,
		loader,
		search.NewEngine(log),
		suggest.NewEngine(log),
		manager,
		cfg.Admin.Token,
	)

	healthServer := health.NewServer(pool, manager, log,
		health.WithPort(cfg.Health.Addr),
		health.WithVersion(version),
	)

	metricsServer := metrics.NewServer(cfg.Metrics.Addr, log)

	errCh := make(chan error, 3)
	go func() { errCh <- apiServer.Start() }()
	go func() { errCh <- healthServer.Start() }()
	go func() { errCh <- metricsServer.Start() }()

	log.Info("salon service started",
		"version", version,
		"api_addr", cfg.Server.Addr,
		"health_addr", cfg.Health.Addr,
		"metrics_addr", cfg.Metrics.Addr,
	)

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error("server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error("api server shutdown failed", "error", err)
	}
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.Error("health server shutdown failed", "error", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("metrics server shutdown failed", "error", err)
	}

	log.Info("salon service stopped")
}
