package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/gorillastore/internal/config"
	"github.com/soltixdb/gorillastore/internal/ingest"
	"github.com/soltixdb/gorillastore/internal/logging"
	"github.com/soltixdb/gorillastore/internal/router"
	"github.com/soltixdb/gorillastore/internal/storage"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize logger
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)

	logger.Info("Storage service starting...",
		"version", Version, "commit", GitCommit,
		"block_seconds", cfg.Storage.BlockSeconds,
		"shards", cfg.Storage.Shards)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Create the series store
	store, err := storage.NewStore(cfg.Storage.BlockSeconds, cfg.Storage.Shards)
	if err != nil {
		logger.Fatal("Failed to create store", "error", err)
	}

	// 4. Start queue ingest when enabled
	if cfg.Ingest.Enabled {
		sub, err := ingest.NewSubscriber(cfg.Ingest)
		if err != nil {
			logger.Fatal("Failed to create ingest subscriber", "error", err)
		}
		defer func() { _ = sub.Close() }()

		consumer := ingest.NewConsumer(store, logger)
		if err := consumer.Start(ctx, sub, cfg.Ingest.Subject); err != nil {
			logger.Fatal("Failed to start ingest", "error", err)
		}
	}

	// 5. Start the HTTP server
	app := fiber.New(fiber.Config{
		AppName:               "gorillastore",
		DisableStartupMessage: true,
	})
	router.Setup(app, logger, store)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("HTTP server failed", "error", err)
		}
	}()

	// 6. Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("Shutting down", "signal", sig.String())

	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
	logger.Info("Storage service stopped",
		"series", store.SeriesCount(), "points", store.CountPoints())
}
