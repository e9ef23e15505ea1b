package server

import (
	"fmt"
	"net/http"
	"time"

	"ecostore/internal/cart"
	"ecostore/internal/catalog"
	"ecostore/internal/checkout"
	"ecostore/internal/config"
	custommiddleware "ecostore/internal/middleware"
	"ecostore/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config   *config.Config
	logger   *zap.Logger
	carts    *cart.Store
	checkout *checkout.Service
	redis    *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, store *catalog.Store) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.Env == "development"))
	router.Use(custommiddleware.SessionMiddleware(logger))

	// Rate limiting is optional; it needs a reachable Redis.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.RequestsPerMinute,
			Window:            time.Minute,
			KeyPrefix:         "ratelimit",
		}, logger))
	}

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize stores and services
	carts := cart.NewStore(cfg.Cart.SessionTTL, logger)
	checkoutService := checkout.NewService(carts, checkout.Config{
		ProcessingDelay:       cfg.Checkout.ProcessingDelay,
		FreeShippingThreshold: cfg.Checkout.FreeShippingThreshold,
		FlatShippingRate:      cfg.Checkout.FlatShippingRate,
		TaxRate:               cfg.Checkout.TaxRate,
		SessionTTL:            cfg.Cart.SessionTTL,
	}, logger)

	// Initialize handlers
	catalogHandler := transport.NewCatalogHandler(store, logger)
	cartHandler := transport.NewCartHandler(carts, store, logger)
	checkoutHandler := transport.NewCheckoutHandler(checkoutService, logger)

	// Register routes
	catalogHandler.RegisterRoutes(router)
	cartHandler.RegisterRoutes(router)
	checkoutHandler.RegisterRoutes(router)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:   cfg,
		logger:   logger,
		carts:    carts,
		checkout: checkoutService,
		redis:    redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	s.checkout.Close()
	s.carts.Close()

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
