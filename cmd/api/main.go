package main

import (
	"context"
	"net/http"
	"os"

	"github.com/adewalecodes/buildbazaar-backend/api/routes"
	"github.com/adewalecodes/buildbazaar-backend/internal/bookings"
	"github.com/adewalecodes/buildbazaar-backend/internal/catalog"
	"github.com/adewalecodes/buildbazaar-backend/internal/checkout"
	"github.com/adewalecodes/buildbazaar-backend/internal/dashboard"
	"github.com/adewalecodes/buildbazaar-backend/internal/orders"
	"github.com/adewalecodes/buildbazaar-backend/internal/requests"
	"github.com/adewalecodes/buildbazaar-backend/pkg/config"
	"github.com/adewalecodes/buildbazaar-backend/pkg/db"
	"github.com/adewalecodes/buildbazaar-backend/pkg/logger"
	"github.com/adewalecodes/buildbazaar-backend/pkg/metrics"
	"github.com/adewalecodes/buildbazaar-backend/pkg/migrate"
	"github.com/adewalecodes/buildbazaar-backend/pkg/outbox"
	"github.com/adewalecodes/buildbazaar-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	rates, err := cfg.Checkout.Rates()
	if err != nil {
		logg.Error(context.Background(), "invalid checkout rates", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)
	dashboardMetrics := metrics.NewDashboardMetrics(registry)

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)
	ordersRepo := orders.NewRepository(dbClient.DB())
	bookingsRepo := bookings.NewRepository(dbClient.DB())
	requestsRepo := requests.NewRepository(dbClient.DB())

	checkoutService, err := checkout.NewService(dbClient, ordersRepo, outboxService, rates, checkoutMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}
	ordersService, err := orders.NewService(ordersRepo, dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}
	bookingsService, err := bookings.NewService(bookingsRepo, dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create bookings service", err)
		os.Exit(1)
	}
	requestsService, err := requests.NewService(requestsRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create requests service", err)
		os.Exit(1)
	}
	dashboardService, err := dashboard.NewService(ordersRepo, bookingsRepo, requestsRepo, logg, dashboardMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}
	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
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
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, routes.Services{
			Checkout:  checkoutService,
			Orders:    ordersService,
			Bookings:  bookingsService,
			Requests:  requestsService,
			Dashboard: dashboardService,
			Catalog:   catalogService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
