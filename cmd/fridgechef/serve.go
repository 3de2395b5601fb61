// Copyright (C) 2025 FridgeChef Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/NavvAbhishek/FridgeChef/pkg/logging"
	"github.com/NavvAbhishek/FridgeChef/services/credentials"
	"github.com/NavvAbhishek/FridgeChef/services/kitchen/auth"
	"github.com/NavvAbhishek/FridgeChef/services/kitchen/middleware"
	"github.com/NavvAbhishek/FridgeChef/services/kitchen/observability"
	"github.com/NavvAbhishek/FridgeChef/services/kitchen/routes"
	"github.com/NavvAbhishek/FridgeChef/services/kitchen/storage"
	"github.com/NavvAbhishek/FridgeChef/services/providers"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the FridgeChef HTTP server",
	Long: `Starts the kitchen service. The key-encryption master secret must be
provided via the ` + masterSecretEnv + ` environment variable; the server
refuses to start without it.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "path to YAML config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(serveConfigPath)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Config{
		Level:   parseLogLevel(cfg.Log.Level),
		LogDir:  cfg.Log.Dir,
		Service: "kitchen",
		JSON:    cfg.Log.JSON,
	})
	defer logger.Close()
	// Route the package-level slog calls in handlers, the manager, and the
	// provider clients through the configured destinations too.
	slog.SetDefault(logger.Slog())

	// The cipher refuses an empty master secret, so a missing env var
	// stops the server here rather than failing on the first credential.
	cipher, err := credentials.NewCipher(os.Getenv(masterSecretEnv))
	if err != nil {
		return fmt.Errorf("%s must be set: %w", masterSecretEnv, err)
	}

	db, err := storage.Open(storage.DefaultConfig(cfg.DataDir))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	validator := credentials.NewLiveValidator(time.Duration(cfg.ProbeTimeoutSeconds) * time.Second)
	manager := credentials.NewManager(credentials.NewBadgerStore(db.DB), cipher, validator)

	var authProvider auth.Provider
	if len(cfg.Auth.Tokens) > 0 {
		authProvider = auth.NewStaticTokenProvider(cfg.Auth.Tokens)
	} else {
		logger.Warn("no auth tokens configured, running in single-user local mode")
		authProvider = &auth.LocalProvider{}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	routes.SetupRoutes(router, routes.Deps{
		Version:       version,
		Credentials:   manager,
		History:       storage.NewHistoryStore(db),
		Shopping:      storage.NewShoppingStore(db),
		Auth:          authProvider,
		Metrics:       metrics,
		Registry:      registry,
		ClientFactory: providers.New,
		RateLimiter:   middleware.NewPerUserRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst),
	})

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.ListenAddr, "version", version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func parseLogLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}
