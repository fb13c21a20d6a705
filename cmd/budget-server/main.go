// Package main campus-budget mock backend
//
// @title campus-budget mock API
// @version 1.0
// @description Mock backend for the campus-budget student finance demo
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:8080
// @BasePath /api
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token returned by login
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

	"github.com/pigeonworks-llc/campus-budget/internal/api"
	"github.com/pigeonworks-llc/campus-budget/internal/metrics"
	"github.com/pigeonworks-llc/campus-budget/internal/mockdata"
	"github.com/pigeonworks-llc/campus-budget/internal/session"
	"github.com/pigeonworks-llc/campus-budget/internal/store"
	"github.com/pigeonworks-llc/campus-budget/pkg/config"
	"github.com/pigeonworks-llc/campus-budget/pkg/pathutil"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Setup structured JSON logging.
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate("server.port", "storage.dataRoot", "auth.emailDomain"); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	paths := pathutil.New(pathutil.Config{
		DataRoot:    cfg.Storage.DataRoot,
		BoltPath:    cfg.Storage.BoltPath,
		ReceiptsDir: cfg.Storage.ReceiptsDir,
	})

	profile, err := mockdata.LoadProfile(cfg.Demo.ProfilePath)
	if err != nil {
		slog.Error("failed to load demo profile", "error", err, "path", cfg.Demo.ProfilePath)
		os.Exit(1)
	}

	// Initialize store.
	st, err := store.New(paths.BoltPath())
	if err != nil {
		slog.Error("failed to initialize store", "error", err, "db_path", paths.BoltPath())
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	slog.Info("database initialized", "db_path", paths.BoltPath(), "receipts_dir", paths.ReceiptsDir())

	handler := api.NewRouter(api.Deps{
		Store:          st,
		Tokens:         session.NewTokenManager(st, session.DefaultTTL),
		Generator:      mockdata.NewGenerator(profile, cfg.Demo.Seed),
		Metrics:        metrics.New(),
		Paths:          paths,
		Logger:         logger,
		Auth:           api.AuthRules{EmailDomain: cfg.Auth.EmailDomain, MinPassword: cfg.Auth.MinPassword},
		LinkDelayMin:   cfg.Link.DelayMin,
		LinkDelayMax:   cfg.Link.DelayMax,
		RequestLogging: true,
	})

	// Start server.
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	slog.Info("starting campus-budget mock API", "addr", addr, "env", cfg.AppEnv,
		"link_delay_min", cfg.Link.DelayMin, "link_delay_max", cfg.Link.DelayMax)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		slog.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

