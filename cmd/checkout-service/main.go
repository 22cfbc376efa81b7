package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/draftea/checkout-system/checkout-service/config"
	"github.com/draftea/checkout-system/checkout-service/handlers"
	"github.com/draftea/checkout-system/shared/logging"
	"github.com/draftea/checkout-system/shared/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// A missing .env is fine outside local development
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.ReadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.ServiceName, cfg.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	logger.Info("starting service", zap.String("port", cfg.Port))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize dependencies
	deps, err := config.BuildDependencies(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to build dependencies", zap.Error(err))
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.Error("error closing dependencies", zap.Error(err))
		}
	}()

	// Start event subscriber
	if cfg.Subscriber.Enabled {
		subscriberCtx := logging.ContextWithLogger(telemetry.WithTelemetry(ctx, deps.Telemetry), logger)
		if err := deps.EventSubscriber.Subscribe(subscriberCtx, deps.CheckoutEventHandlers); err != nil {
			logger.Fatal("failed to start event subscriber", zap.Error(err))
		}
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRouter(deps, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("service stopped")
}

func setupRouter(deps *config.Dependencies, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(telemetry.Middleware(deps.Telemetry))
	r.Use(logging.Middleware(logger))

	// Health check
	r.Get("/health", handlers.HealthCheck)

	// Metrics endpoint for Prometheus
	r.Handle("/metrics", handlers.NewMetricsHandler())

	deps.CheckoutHandlers.RegisterRoutes(r)

	return r
}
