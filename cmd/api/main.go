package main

import (
	"context"
	"net/http"
	"os"

	"github.com/fundlift/fundlift-backend/api/controllers"
	"github.com/fundlift/fundlift-backend/api/routes"
	"github.com/fundlift/fundlift-backend/internal/campaigns"
	"github.com/fundlift/fundlift-backend/internal/donations"
	"github.com/fundlift/fundlift-backend/internal/identity"
	"github.com/fundlift/fundlift-backend/pkg/config"
	"github.com/fundlift/fundlift-backend/pkg/db"
	"github.com/fundlift/fundlift-backend/pkg/logger"
	"github.com/fundlift/fundlift-backend/pkg/metrics"
	"github.com/fundlift/fundlift-backend/pkg/migrate"
	pkgredis "github.com/fundlift/fundlift-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	donationMetrics := metrics.NewDonationMetrics(registry)

	identityService, err := identity.NewService(identity.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create identity service", err)
		os.Exit(1)
	}

	campaignRepo := campaigns.NewRepository(dbClient.DB())
	campaignService, err := campaigns.NewService(campaignRepo, identityService)
	if err != nil {
		logg.Error(context.Background(), "failed to create campaign service", err)
		os.Exit(1)
	}

	donationService, err := donations.NewService(
		donations.NewRepository(dbClient.DB()),
		campaignRepo,
		dbClient,
		logg,
		donationMetrics,
		donations.Options{
			MaxAttempts: uint64(cfg.Donations.ApplyMaxAttempts),
			BackoffBase: cfg.Donations.ApplyBackoffBase,
		},
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create donation service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			Registry:    registry,
			RedisClient: redisClient,
			Pingers: map[string]controllers.Pinger{
				"database": dbClient,
				"redis":    redisClient,
			},
			IdentityService: identityService,
			CampaignService: campaignService,
			DonationService: donationService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
