package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/bachatbox/internal/adapter/http"
	"github.com/iho/bachatbox/internal/adapter/http/handler"
	"github.com/iho/bachatbox/internal/adapter/http/middleware"
	"github.com/iho/bachatbox/internal/adapter/receipt"
	"github.com/iho/bachatbox/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/bachatbox/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/bachatbox/internal/adapter/repository/redis"
	"github.com/iho/bachatbox/internal/infrastructure/auth"
	"github.com/iho/bachatbox/internal/infrastructure/config"
	"github.com/iho/bachatbox/internal/infrastructure/logger"
	"github.com/iho/bachatbox/internal/infrastructure/metrics"
	"github.com/iho/bachatbox/internal/infrastructure/postgres"
	"github.com/iho/bachatbox/internal/infrastructure/redis"
	"github.com/iho/bachatbox/internal/normalizer"
	"github.com/iho/bachatbox/internal/usecase"
)

const (
	sweepInterval      = time.Minute
	limiterIdleTimeout = 10 * time.Minute
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	if err := run(cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}
}

func run(cfg *config.Config, appLogger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to Redis when a component needs it
	var redisClient *goredis.Client
	if cfg.UsesRedis() {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer client.Close()
		redisClient = client
		appLogger.Info().Msg("connected to redis")
	}

	store, checks, closeStore, err := openStore(ctx, cfg, redisClient, appLogger)
	if err != nil {
		return err
	}
	defer closeStore()

	m := metrics.New()

	// Initialize use cases
	norm := normalizer.New(normalizer.WithStrictHints(cfg.StrictHints))
	transactionUC := usecase.NewTransactionUseCase(norm, store, m, appLogger)

	var extractor usecase.ReceiptExtractor
	if cfg.ReceiptsEnabled() {
		gemini, err := receipt.NewGeminiExtractor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return fmt.Errorf("create gemini client: %w", err)
		}
		extractor = gemini
		appLogger.Info().Str("model", cfg.GeminiModel).Msg("receipt extraction enabled")
	}
	receiptUC := usecase.NewReceiptUseCase(extractor, transactionUC, m)

	routerCfg := httpAdapter.RouterConfig{
		SMSHandler:         handler.NewSMSHandler(transactionUC),
		WebhookHandler:     handler.NewWebhookHandler(transactionUC, cfg.WebhookDefaultUser),
		ReceiptHandler:     handler.NewReceiptHandler(receiptUC),
		HealthHandler:      handler.NewHealthHandler(checks),
		WebhookSecret:      cfg.WebhookSecret,
		WebhookDefaultUser: cfg.WebhookDefaultUser,
		RateLimiter:        middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		IdempotencyTTL:     cfg.IdempotencyTTL,
		Logger:             appLogger,
	}

	if cfg.AuthEnabled {
		routerCfg.JWTManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		appLogger.Info().Msg("bearer authentication enabled")
	}

	if cfg.IdempotencyEnabled {
		routerCfg.IdempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
	}

	go routerCfg.RateLimiter.Run(ctx, time.Minute, limiterIdleTimeout)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info().
			Str("port", cfg.HTTPPort).
			Str("storage", cfg.StorageBackend).
			Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	appLogger.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	appLogger.Info().Msg("server stopped")
	return nil
}

// openStore builds the configured transaction store and its readiness checks.
// The returned func releases whatever the store holds open.
func openStore(ctx context.Context, cfg *config.Config, redisClient *goredis.Client, appLogger zerolog.Logger) (usecase.TransactionStore, map[string]handler.Pinger, func(), error) {
	checks := map[string]handler.Pinger{}
	if redisClient != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	switch cfg.StorageBackend {
	case config.StorageRedis:
		store := redisRepo.NewTransactionStore(redisClient, cfg.RetentionMaxPerUser, cfg.RetentionTTL)
		return store, checks, func() {}, nil

	case config.StoragePostgres:
		if cfg.AutoMigrate {
			if err := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, appLogger).Up(); err != nil {
				return nil, nil, nil, fmt.Errorf("run migrations: %w", err)
			}
		}

		connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
		defer cancel()

		pool, err := postgres.NewPool(connectCtx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		appLogger.Info().Msg("connected to postgres")

		store := postgresRepo.NewTransactionRepository(pool, cfg.RetentionMaxPerUser, appLogger)
		checks["postgres"] = handler.PingFunc(store.Ping)
		return store, checks, pool.Close, nil

	default:
		store := memory.NewTransactionStore(cfg.RetentionMaxPerUser, cfg.RetentionTTL)
		checks["store"] = handler.PingFunc(store.Ping)
		go store.Run(ctx, sweepInterval)
		return store, checks, func() {}, nil
	}
}
