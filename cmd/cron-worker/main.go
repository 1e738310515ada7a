package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/petcareclinic/petcare-backend/internal/cart"
	"github.com/petcareclinic/petcare-backend/internal/cron"
	"github.com/petcareclinic/petcare-backend/pkg/config"
	"github.com/petcareclinic/petcare-backend/pkg/db"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
	"github.com/petcareclinic/petcare-backend/pkg/metrics"
	"github.com/petcareclinic/petcare-backend/pkg/migrate"
	"github.com/petcareclinic/petcare-backend/pkg/outbox"
	"github.com/petcareclinic/petcare-backend/pkg/redis"
)

const serviceKind = "cron-worker"

func main() {
	once := flag.Bool("once", false, "run a single maintenance cycle and exit")
	flag.Parse()

	bootLog := logger.New(logger.Options{ServiceName: serviceKind})
	if err := godotenv.Load(); err != nil {
		bootLog.Warn(context.Background(), ".env file not found, relying on environment")
	}
	cfg, err := config.Load()
	if err != nil {
		bootLog.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	cfg.Service.Kind = serviceKind

	logg := logger.New(logger.Options{
		ServiceName: serviceKind,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})

	if err := run(ctx, cfg, logg, *once); err != nil {
		logg.Error(ctx, "cron worker exited with error", err)
		stop()
		os.Exit(1)
	}
	logg.Info(ctx, "cron worker shutting down gracefully")
}

// run owns every connection so deferred closes happen before main exits.
func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, once bool) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("bootstrap database: %w", err)
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return fmt.Errorf("dev migrations: %w", err)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return fmt.Errorf("bootstrap redis: %w", err)
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	service, err := buildService(cfg, logg, dbClient, redisClient)
	if err != nil {
		return err
	}

	if once {
		if err := service.RunOnce(ctx); err != nil {
			return fmt.Errorf("maintenance cycle (%d failed): %w", len(multierr.Errors(err)), err)
		}
		return nil
	}

	logg.Info(ctx, "starting cron worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func buildService(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) (*cron.Service, error) {
	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(serviceKind+":"+lockScope(cfg.App.Env)), 0)
	if err != nil {
		return nil, fmt.Errorf("cron lock: %w", err)
	}
	registry, err := buildRegistry(cfg, logg, dbClient)
	if err != nil {
		return nil, fmt.Errorf("register cron jobs: %w", err)
	}
	return cron.NewService(cron.ServiceParams{
		Logger:     logg,
		Registry:   registry,
		Lock:       lock,
		Metrics:    metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval:   cfg.Cron.Interval,
		JobTimeout: cfg.Cron.JobTimeout,
	})
}

func buildRegistry(cfg *config.Config, logg *logger.Logger, dbClient *db.Client) (*cron.Registry, error) {
	cartJob, err := cron.NewCartAbandonmentJob(cron.CartAbandonmentJobParams{
		Logger:     logg,
		Carts:      cart.NewRepository(dbClient.DB()),
		AbandonAge: cfg.Cron.CartAbandonAfter,
	})
	if err != nil {
		return nil, err
	}
	outboxJob, err := cron.NewOutboxRetentionJob(cron.OutboxRetentionJobParams{
		Logger:     logg,
		Repository: outbox.NewRepository(dbClient.DB()),
		Retention:  cfg.Cron.OutboxRetentionDays,
	})
	if err != nil {
		return nil, err
	}
	return cron.NewRegistry(cartJob, outboxJob)
}

func lockScope(env string) string {
	if env == "" {
		return "local"
	}
	return env
}
