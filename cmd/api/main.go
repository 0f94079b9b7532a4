package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/pawwelfare/shelter-backend/api/routes"
	"github.com/pawwelfare/shelter-backend/internal/adoptions"
	"github.com/pawwelfare/shelter-backend/internal/animals"
	"github.com/pawwelfare/shelter-backend/internal/payments"
	stripewebhook "github.com/pawwelfare/shelter-backend/internal/webhooks/stripe"
	"github.com/pawwelfare/shelter-backend/pkg/config"
	"github.com/pawwelfare/shelter-backend/pkg/db"
	"github.com/pawwelfare/shelter-backend/pkg/env"
	"github.com/pawwelfare/shelter-backend/pkg/logger"
	"github.com/pawwelfare/shelter-backend/pkg/migrate"
	"github.com/pawwelfare/shelter-backend/pkg/outbox"
	"github.com/pawwelfare/shelter-backend/pkg/redis"
	"github.com/pawwelfare/shelter-backend/pkg/stripe"
)

const (
	shutdownTimeout = 15 * time.Second
	webhookGuardTTL = 24 * time.Hour
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	gateway, err := payments.NewStripeGateway(stripeClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment gateway", err)
		os.Exit(1)
	}

	animalRepo := animals.NewRepository(dbClient.DB())
	animalService, err := animals.NewService(animalRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create animal service", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	adoptionService, err := adoptions.NewService(adoptions.ServiceParams{
		Repo:              adoptions.NewRepository(dbClient.DB()),
		AnimalRegistry:    animalRepo,
		Gateway:           gateway,
		TransactionRunner: dbClient,
		Outbox:            outboxService,
		Fee:               cfg.Adoption,
		Logger:            logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create adoption service", err)
		os.Exit(1)
	}

	webhookService, err := stripewebhook.NewService(adoptionService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	replayGuard, err := stripewebhook.NewReplayGuard(redisClient, webhookGuardTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create replay guard", err)
		os.Exit(1)
	}

	// Cloud Run style deployments inject PORT; it wins over the config value.
	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			animalService,
			adoptionService,
			stripeClient,
			webhookService,
			replayGuard,
		),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logg.Error(ctx, "server shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "api server shut down gracefully")
}
