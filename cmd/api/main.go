// Package main is the entry point for the API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/onnwee/quorum/internal/api"
	"github.com/onnwee/quorum/internal/auth"
	"github.com/onnwee/quorum/internal/config"
	"github.com/onnwee/quorum/internal/content"
	"github.com/onnwee/quorum/internal/db"
	"github.com/onnwee/quorum/internal/health"
	"github.com/onnwee/quorum/internal/ledger"
	"github.com/onnwee/quorum/internal/middleware"
	"github.com/onnwee/quorum/internal/profile"
	"github.com/onnwee/quorum/internal/recommend"
	"github.com/onnwee/quorum/internal/stats"
)

func main() {
	help := flag.Bool("help", false, "display help message")
	configPath := flag.String("config", "", "path to optional YAML config file")
	flag.Parse()

	if *help {
		fmt.Println("Quorum API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configPath)

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	if len(errs) > 0 {
		for _, err := range errs {
			logger.Error("configuration error", "error", err)
		}
		os.Exit(1)
	}

	logger.Info("configuration loaded", "config", cfg.LogSummary())

	// Database connection
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
	conn, err := db.Open(pingCtx, cfg.DatabaseURL)
	cancelPing()
	if err != nil {
		logger.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	// Redis is optional: without it page caching is disabled and rate
	// limiting is per-instance.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
	}

	// Metrics
	registry := prometheus.NewRegistry()
	httpMetrics := middleware.NewMetrics()
	ledgerMetrics := ledger.NewMetrics()
	recommendMetrics := recommend.NewMetrics()
	for _, register := range []func(prometheus.Registerer) error{
		httpMetrics.Register,
		ledgerMetrics.Register,
		recommendMetrics.Register,
	} {
		if err := register(registry); err != nil {
			logger.Error("failed to register metrics", "error", err)
			os.Exit(1)
		}
	}

	// Stores and core services
	contents := content.NewPostgresRepository(conn, logger)
	profiles := profile.NewPostgresStore(conn, logger)
	upsertStats := stats.NewUpsertStats()
	interactionLedger := ledger.NewPostgresLedger(conn, contents, profiles, logger, ledgerMetrics).WithStats(upsertStats)

	// Periodic ledger upsert summary
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			upsertStats.LogSummary(logger)
		}
	}()

	weights, err := recommend.LoadCalibration(cfg.CalibrationPath)
	if err != nil {
		logger.Warn("falling back to default fusion weights", "error", err, "path", cfg.CalibrationPath)
	}

	var pageCache *recommend.PageCache
	if redisClient != nil {
		pageCache = recommend.NewPageCache(redisClient, time.Duration(cfg.CacheTTLSeconds)*time.Second, logger)
	}

	engine := recommend.NewEngine(profiles, contents, weights, recommend.EngineOptions{
		Cache:   pageCache,
		Metrics: recommendMetrics,
		Logger:  logger,
	})

	jwtService := auth.NewJWTService(cfg.JWTSecret)

	// Rate limit state lives in redis when available so limits hold
	// across instances.
	var rateLimitStore middleware.RateLimitStore
	if redisClient != nil {
		rateLimitStore = middleware.NewRedisRateLimitStore(redisClient).WithMetrics(httpMetrics)
	} else {
		inMemory := middleware.NewInMemoryRateLimitStore()
		go func() {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for range ticker.C {
				inMemory.Cleanup()
			}
		}()
		rateLimitStore = inMemory
	}

	// Handlers
	healthConfig := api.HealthHandlersConfig{DBChecker: health.NewDBChecker(conn)}
	if redisClient != nil {
		healthConfig.RedisChecker = health.NewRedisChecker(redisClient)
	}
	healthHandlers := api.NewHealthHandlers(healthConfig)
	interactionHandlers := api.NewInteractionHandlers(interactionLedger)
	recommendHandlers := api.NewRecommendHandlers(engine)

	interactionLimiter := middleware.RateLimiter(rateLimitStore, middleware.DefaultInteractionLimit(), middleware.UserKeyFunc())
	recommendLimiter := middleware.RateLimiter(rateLimitStore, middleware.DefaultRecommendLimit(), middleware.IPKeyFunc())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandlers.Health)
	mux.HandleFunc("GET /ready", healthHandlers.Ready)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("POST /interactions", interactionLimiter(http.HandlerFunc(interactionHandlers.RecordInteraction)))
	mux.Handle("GET /recommendations", recommendLimiter(http.HandlerFunc(recommendHandlers.GetRecommendations)))

	// Middleware chain: RequestID -> Logging -> HTTPMetrics -> CORS ->
	// Authenticate. Authentication runs before the mux so the user keyed
	// rate limiter sees the identity.
	var handler http.Handler = mux
	handler = api.Authenticate(jwtService)(handler)
	if len(cfg.CORSAllowedOrigins) > 0 {
		handler = middleware.CORS(middleware.CORSConfig{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowCredentials: true,
			MaxAge:           300,
		})(handler)
	}
	handler = middleware.HTTPMetrics(httpMetrics)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
