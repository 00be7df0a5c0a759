// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

// Package main is the entry point for the Basketmine server.
//
// Basketmine mines association rules from retail transaction data with
// FP-Growth and serves "customers who bought X also bought Y"
// recommendations over a REST API.
//
// # Startup
//
// The server initializes components in the following order:
//
//  1. Configuration: layered load via Koanf v2 (defaults, YAML, env)
//  2. Logging: global zerolog logger
//  3. Storage: Badger store for trained model artifacts
//  4. Engine: restore the latest persisted model if one exists
//  5. Supervision tree: training scheduler and HTTP server under Suture
//
// # Configuration
//
// Environment variables use the BASKETMINE_ prefix:
//
//	export BASKETMINE_INGEST_CSV_PATH=/data/transactions.csv
//	export BASKETMINE_MINING_MIN_SUPPORT=0.02
//	export BASKETMINE_TRAINING_TRAIN_ON_STARTUP=true
//	./basketmine
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests, the training scheduler stops, and the store is
// closed.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/basketmine/internal/api"
	"github.com/tomtom215/basketmine/internal/config"
	"github.com/tomtom215/basketmine/internal/ingest"
	"github.com/tomtom215/basketmine/internal/logging"
	"github.com/tomtom215/basketmine/internal/recommend"
	"github.com/tomtom215/basketmine/internal/storage"
	"github.com/tomtom215/basketmine/internal/supervisor"
	"github.com/tomtom215/basketmine/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config errors use the default logger; the configured one does
		// not exist yet.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("storage_path", cfg.Storage.Path).
		Str("csv_path", cfg.Ingest.CSVPath).
		Float64("min_support", cfg.Mining.MinSupport).
		Float64("min_confidence", cfg.Mining.MinConfidence).
		Msg("Starting Basketmine")

	store, err := storage.Open(cfg.Storage.Path, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open artifact store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing artifact store")
		}
	}()

	engine, err := recommend.NewEngine(&recommend.Config{
		MinSupport:    cfg.Mining.MinSupport,
		MinConfidence: cfg.Mining.MinConfidence,
		MinLift:       cfg.Mining.MinLift,
		MaxLen:        cfg.Mining.MaxLen,
		TopN:          cfg.Mining.TopN,
		Workers:       cfg.Mining.Workers,
	}, store, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create engine")
	}

	if cfg.Ingest.CSVPath != "" {
		engine.SetSource(ingest.NewCSVLoader(cfg.Ingest.CSVPath, logging.Logger()))
	}

	// Restore the last trained model so lookups work immediately after a
	// restart. A missing artifact is normal on first boot.
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := engine.LoadLatest(loadCtx); err != nil {
		if errors.Is(err, storage.ErrNoArtifact) {
			logging.Info().Msg("No persisted model found, waiting for first training run")
		} else {
			logging.Warn().Err(err).Msg("Failed to restore persisted model")
		}
	}
	loadCancel()

	if err := store.Prune(context.Background(), cfg.Storage.KeepVersions); err != nil {
		logging.Warn().Err(err).Msg("Failed to prune old artifact versions")
	}

	tree, err := supervisor.NewTree(
		logging.NewSlogLogger(logging.Logger()),
		supervisor.DefaultTreeConfig(),
	)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervision tree")
	}

	tree.AddTrainingService(services.NewTrainService(engine, services.TrainServiceConfig{
		TrainOnStartup: cfg.Training.TrainOnStartup,
		TrainInterval:  cfg.Training.TrainInterval,
	}, logging.Logger()))

	handler := api.NewHandler(engine)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(handler, &cfg.API),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Timeout))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := tree.ServeBackground(ctx)
	logging.Info().Str("addr", server.Addr).Msg("Server started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervision tree exited with error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Fatal().Err(err).Msg("Supervision tree failed")
		}
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", fmt.Sprintf("%v", svc.Service)).Msg("Service did not stop in time")
		}
	}

	logging.Info().Msg("Shutdown complete")
}
