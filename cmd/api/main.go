package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/petcareclinic/petcare-backend/api/routes"
	"github.com/petcareclinic/petcare-backend/internal/appointments"
	"github.com/petcareclinic/petcare-backend/internal/auth"
	"github.com/petcareclinic/petcare-backend/internal/cart"
	"github.com/petcareclinic/petcare-backend/internal/orders"
	"github.com/petcareclinic/petcare-backend/internal/payments"
	"github.com/petcareclinic/petcare-backend/internal/products"
	"github.com/petcareclinic/petcare-backend/internal/testimonials"
	"github.com/petcareclinic/petcare-backend/internal/users"
	"github.com/petcareclinic/petcare-backend/internal/veterinarians"
	"github.com/petcareclinic/petcare-backend/pkg/auth/session"
	"github.com/petcareclinic/petcare-backend/pkg/config"
	"github.com/petcareclinic/petcare-backend/pkg/db"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
	"github.com/petcareclinic/petcare-backend/pkg/metrics"
	"github.com/petcareclinic/petcare-backend/pkg/migrate"
	"github.com/petcareclinic/petcare-backend/pkg/outbox"
	"github.com/petcareclinic/petcare-backend/pkg/redis"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	deps, err := buildDependencies(cfg, logg, dbClient, redisClient, sessionManager)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
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
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, deps),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildDependencies(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, sessionManager *session.Manager) (routes.Dependencies, error) {
	conn := dbClient.DB()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	userRepo := users.NewRepository(conn)
	userService, err := users.NewService(userRepo, cfg.Password)
	if err != nil {
		return routes.Dependencies{}, err
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}
	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	productRepo := products.NewRepository(conn)
	productService, err := products.NewService(productRepo)
	if err != nil {
		return routes.Dependencies{}, err
	}

	vetRepo := veterinarians.NewRepository(conn)
	vetService, err := veterinarians.NewService(vetRepo)
	if err != nil {
		return routes.Dependencies{}, err
	}

	outboxService := outbox.NewService(outbox.NewRepository(conn), logg)

	appointmentRepo := appointments.NewRepository(conn)
	appointmentService, err := appointments.NewService(appointments.ServiceParams{
		Repo:   appointmentRepo,
		Vets:   vetRepo,
		Tx:     dbClient,
		Outbox: outboxService,
		Logger: logg,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	testimonialService, err := testimonials.NewService(testimonials.ServiceParams{
		Repo:         testimonials.NewRepository(conn),
		Appointments: appointmentRepo,
		Tx:           dbClient,
		Outbox:       outboxService,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	cartService, err := cart.NewService(cart.NewRepository(conn), dbClient, productRepo, userRepo)
	if err != nil {
		return routes.Dependencies{}, err
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:         orders.NewRepository(conn),
		Tx:           dbClient,
		Outbox:       outboxService,
		Inventory:    orders.NewInventory(),
		Logger:       logg,
		RecentWindow: cfg.Orders.RecentWindow,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	guard, err := payments.NewIdempotencyGuard(redisClient, cfg.Eventing.PaymentNotifyIdempotencyTTL, payments.NotifyScope)
	if err != nil {
		return routes.Dependencies{}, err
	}
	paymentService, err := payments.NewService(payments.ServiceParams{
		Orders: orderService,
		Guard:  guard,
		Config: cfg.PayHere,
		Logger: logg,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	return routes.Dependencies{
		DB:             dbClient,
		Redis:          redisClient,
		RedisPinger:    redisClient,
		Sessions:       sessionManager,
		HTTPMetrics:    metrics.NewHTTPMetrics(registry),
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),

		Auth:          authService,
		Register:      registerService,
		Users:         userService,
		Products:      productService,
		Veterinarians: vetService,
		Appointments:  appointmentService,
		Testimonials:  testimonialService,
		Cart:          cartService,
		Orders:        orderService,
		Payments:      paymentService,
	}, nil
}
