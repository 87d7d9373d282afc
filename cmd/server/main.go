package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lets/internal/cache"
	"lets/internal/config"
	"lets/internal/database"
	"lets/internal/middleware"
	"lets/internal/observability"
	"lets/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		middleware.Logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "lets-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	})
	if err != nil {
		middleware.Logger.Error("failed to init tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		middleware.Logger.Error("failed to connect database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cache.InitRedis(cfg.RedisURL)

	srv, err := server.NewServer(cfg, db, cache.GetClient())
	if err != nil {
		middleware.Logger.Error("failed to build server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	go func() {
		if err := srv.App.Listen(":" + cfg.Port); err != nil {
			middleware.Logger.Error("server stopped", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()
	middleware.Logger.Info("server started", slog.String("port", cfg.Port), slog.String("env", cfg.Env))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	middleware.Logger.Info("shutting down")

	if err := srv.App.ShutdownWithTimeout(10 * time.Second); err != nil {
		middleware.Logger.Error("shutdown error", slog.String("error", err.Error()))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if rdb := cache.GetClient(); rdb != nil {
		_ = rdb.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(ctx); err != nil {
		middleware.Logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}
}
