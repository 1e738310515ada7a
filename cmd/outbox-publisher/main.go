package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/petcareclinic/petcare-backend/pkg/amqp"
	"github.com/petcareclinic/petcare-backend/pkg/config"
	"github.com/petcareclinic/petcare-backend/pkg/db"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
	"github.com/petcareclinic/petcare-backend/pkg/metrics"
	"github.com/petcareclinic/petcare-backend/pkg/migrate"
	"github.com/petcareclinic/petcare-backend/pkg/outbox"
	"github.com/petcareclinic/petcare-backend/pkg/outbox/registry"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "outbox-publisher"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "outbox-publisher"

	logg = logger.New(logger.Options{
		ServiceName: "outbox-publisher",
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

	publisher, err := amqp.NewPublisher(context.Background(), cfg.AMQP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap amqp publisher", err)
		os.Exit(1)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logg.Error(context.Background(), "error closing amqp publisher", err)
		}
	}()

	repo := outbox.NewRepository(dbClient.DB())
	dlqRepo := outbox.NewDLQRepository(dbClient.DB())
	if counts, err := dlqRepo.CountByReason(context.Background()); err == nil && len(counts) > 0 {
		fields := map[string]any{}
		for reason, total := range counts {
			fields["dlq_"+reason] = total
		}
		logg.Warn(logg.WithFields(context.Background(), fields), "outbox dead letter table is not empty")
	}

	eventRegistry, err := registry.NewEventRegistry(cfg.AMQP)
	if err != nil {
		logg.Error(context.Background(), "failed to build event registry", err)
		os.Exit(1)
	}
	service, err := NewService(ServiceParams{
		Config:        cfg,
		Logger:        logg,
		DB:            dbClient,
		Broker:        publisher,
		Repository:    repo,
		Registry:      eventRegistry,
		DLQRepository: dlqRepo,
		Metrics:       metrics.NewOutboxMetrics(prometheus.DefaultRegisterer),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create outbox publisher", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": "outbox-publisher",
	})
	logg.Info(ctx, "starting outbox publisher")

	metricsSrv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "metrics listener stopped", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}()

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "outbox publisher stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "outbox publisher shutting down gracefully")
}
