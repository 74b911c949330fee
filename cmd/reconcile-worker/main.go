package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/fundlift/fundlift-backend/internal/reconcile"
	"github.com/fundlift/fundlift-backend/pkg/config"
	"github.com/fundlift/fundlift-backend/pkg/db"
	"github.com/fundlift/fundlift-backend/pkg/logger"
	"github.com/fundlift/fundlift-backend/pkg/metrics"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "reconcile-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "reconcile-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

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

	registry := prometheus.NewRegistry()
	reconcileMetrics := metrics.NewReconcileMetrics(registry)

	svc, err := reconcile.NewService(
		reconcile.NewRepository(dbClient.DB()),
		logg,
		reconcileMetrics,
		cfg.Reconcile.BatchSize,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create reconcile service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if gateway := os.Getenv("FUNDLIFT_PUSHGATEWAY_URL"); gateway != "" {
		defer func() {
			if err := push.New(gateway, "reconcile_worker").Gatherer(registry).Push(); err != nil {
				logg.Error(context.Background(), "failed to push metrics", err)
			}
		}()
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"interval": cfg.Reconcile.Interval.String(),
	})
	logg.Info(ctx, "starting reconcile worker")

	if err := svc.Run(ctx, cfg.Reconcile.Interval); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "reconcile worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(context.Background(), "reconcile worker shut down")
}
