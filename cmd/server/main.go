// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

// Package main is the entry point for the Janitarr server.
//
// Janitarr is a self-hosted janitor for personal media libraries. It
// periodically syncs library contents and watch state from Jellyfin and
// pending requests from Jellyseerr into a local DuckDB cache, classifies
// what it finds (old or unwatched content, oversized movies, audio
// language gaps, requests that never became available) and lets the user
// act on the findings by deleting through Radarr, Sonarr and Jellyseerr.
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered loading (defaults, YAML file, env)
//  2. Logging: zerolog, console or JSON format
//  3. Database: DuckDB cache with credentials encrypted at rest
//  4. Janitor: client factory, sync orchestrator, scheduler, deleter
//  5. HTTP server: Chi router with JWT auth and Prometheus metrics
//
// Configuration env vars use the JANITARR_ prefix, for example
// JANITARR_SECURITY_JWT_SECRET and JANITARR_SERVER_PORT. The JWT secret
// is required: it signs tokens and derives the key that encrypts
// integration API keys in the database.
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// the sync scheduler, drains in-flight requests (10s timeout), then
// closes the database.
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

	"github.com/mpellat/janitarr/internal/api"
	"github.com/mpellat/janitarr/internal/auth"
	"github.com/mpellat/janitarr/internal/config"
	"github.com/mpellat/janitarr/internal/database"
	"github.com/mpellat/janitarr/internal/janitor"
	"github.com/mpellat/janitarr/internal/logging"
	"github.com/mpellat/janitarr/internal/notify"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server failed")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().Str("environment", cfg.Server.Environment).Msg("Starting Janitarr")

	encryptor, err := config.NewCredentialEncryptor(cfg.Security.JWTSecret)
	if err != nil {
		return fmt.Errorf("derive credential key: %w", err)
	}

	db, err := database.New(&cfg.Database, encryptor)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn().Err(err).Msg("Database close failed")
		}
	}()
	logging.Info().Str("path", cfg.Database.Path).Msg("Database ready")

	jwtManager, err := auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	if err != nil {
		return fmt.Errorf("configure auth: %w", err)
	}

	notifier := notify.NewNotifier(cfg.Notify.WebhookURL, cfg.Notify.Timeout)
	if notifier.Enabled() {
		logging.Info().Msg("Webhook notifications enabled")
	}

	factory := janitor.NewHTTPClientFactory(cfg.Sync)
	orchestrator := janitor.NewOrchestrator(db, factory).WithNotifier(notifier)
	scheduler := janitor.NewScheduler(orchestrator, db, cfg.Sync.Interval, cfg.Sync.TriggerCooldown)
	deleter := janitor.NewDeleter(db, factory)

	scheduler.Start()
	defer scheduler.Stop()
	logging.Info().Dur("interval", cfg.Sync.Interval).Msg("Sync scheduler started")

	handler := api.NewHandler(db, jwtManager, scheduler, deleter, factory, notifier)
	mw := api.NewMiddleware(cfg.Server, cfg.Security)
	router := api.NewRouter(handler, mw)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Warn().Err(err).Msg("HTTP server shutdown incomplete")
	}

	logging.Info().Msg("Application stopped gracefully")
	return nil
}
