package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/travelbookhq/travelbook-gateway/api/routes"
	"github.com/travelbookhq/travelbook-gateway/internal/blog"
	"github.com/travelbookhq/travelbook-gateway/internal/bookings"
	"github.com/travelbookhq/travelbook-gateway/internal/cart"
	"github.com/travelbookhq/travelbook-gateway/internal/catalog"
	"github.com/travelbookhq/travelbook-gateway/internal/checkout"
	"github.com/travelbookhq/travelbook-gateway/internal/itinerary"
	"github.com/travelbookhq/travelbook-gateway/internal/session"
	"github.com/travelbookhq/travelbook-gateway/internal/upstream"
	"github.com/travelbookhq/travelbook-gateway/pkg/config"
	"github.com/travelbookhq/travelbook-gateway/pkg/logger"
	"github.com/travelbookhq/travelbook-gateway/pkg/metrics"
	"github.com/travelbookhq/travelbook-gateway/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "gateway"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "gateway",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

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

	registry := prometheus.DefaultRegisterer
	upstreamMetrics := metrics.NewUpstreamMetrics(registry)

	apiClient, err := upstream.New(cfg.Upstream, upstreamMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create travel api client", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(session.ManagerParams{
		API:      apiClient,
		Store:    redisClient,
		Logger:   logg,
		TokenTTL: cfg.Session.TokenTTL(),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		API:            apiClient,
		Logger:         logg,
		SearchDebounce: cfg.Search.DebounceInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	blogService, err := blog.NewService(blog.ServiceParams{
		API:     apiClient,
		Logger:  logg,
		SiteURL: cfg.Site.URL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create blog service", err)
		os.Exit(1)
	}

	itineraryService, err := itinerary.NewService(itinerary.ServiceParams{
		API:    apiClient,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create itinerary service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		Store:  redisClient,
		Logger: logg,
		TTL:    cfg.Session.CartTTL(),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		API:    apiClient,
		Cart:   cartService,
		Store:  redisClient,
		Logger: logg,
		TTL:    cfg.Checkout.WizardTTL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	bookingsService, err := bookings.NewService(bookings.ServiceParams{
		API:    apiClient,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create bookings service", err)
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
	logg.Info(ctx, "starting gateway server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			Redis:       redisClient,
			Sessions:    sessionManager,
			Catalog:     catalogService,
			Blog:        blogService,
			Itineraries: itineraryService,
			Cart:        cartService,
			Checkout:    checkoutService,
			Bookings:    bookingsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "gateway server stopped unexpectedly", err)
		os.Exit(1)
	}
}
