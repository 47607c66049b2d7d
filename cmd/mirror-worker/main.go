package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shieldwrapindia/shieldwrap-backend/internal/mirror"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/config"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/db"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/logger"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/metrics"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/migrate"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/outbox"
	"github.com/shieldwrapindia/shieldwrap-backend/pkg/sheets"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "mirror-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "mirror-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if !cfg.FeatureFlags.MirrorToggle {
		logg.Info(context.Background(), "spreadsheet mirror is disabled, exiting")
		return
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	sheetsClient, err := sheets.New(context.Background(), cfg.Sheets, cfg.GCP)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap sheets client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	mirrorMetrics := metrics.NewMirrorMetrics(registry)

	service, err := mirror.NewService(mirror.ServiceParams{
		Config:     cfg,
		Logger:     logg,
		Repository: outbox.NewRepository(dbClient.DB()),
		Appender:   sheetsClient,
		Metrics:    mirrorMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create mirror worker", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})

	if port := os.Getenv("METRICS_PORT"); port != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(":"+port, mux); err != nil && err != http.ErrServerClosed {
				logg.Error(ctx, "metrics server stopped unexpectedly", err)
			}
		}()
	}

	logg.Info(ctx, "starting mirror worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "mirror worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "mirror worker shutting down gracefully")
}
