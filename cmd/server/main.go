package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/secret-greeter/internal/bootstrap"
	"github.com/iliyamo/secret-greeter/internal/config"
	"github.com/iliyamo/secret-greeter/internal/handler"
	"github.com/iliyamo/secret-greeter/internal/logging"
	"github.com/iliyamo/secret-greeter/internal/middleware"
	"github.com/iliyamo/secret-greeter/internal/router"
	"github.com/iliyamo/secret-greeter/internal/secrets"
)

func main() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "WARN: failed to read .env: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.IsProduction(), cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Errorw("server stopped", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := secrets.New(cfg.Secrets, logger)
	if err != nil {
		return fmt.Errorf("secret store: %w", err)
	}
	if cache := secrets.NewCache(cfg.Cache); cache != nil {
		store = cache.Wrap(cfg.Secrets.Provider, store)
		logger.Infow("secret cache enabled", "staleness_window", cfg.Cache.TTL)
	}

	// The pool must exist before the listener accepts traffic.
	db, err := bootstrap.InitializeDatabase(ctx, cfg.DB, store, logger)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warnw("closing database pool", "error", err)
		}
	}()

	rdb := newRedis(ctx, logger)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	e := router.New(router.Deps{
		Health:   handler.NewHealthHandler(db, cfg.HealthTimeout, logger),
		Greeting: handler.NewGreetingHandler(store, cfg.APIKeyName, logger),
		Limiter:  middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, logger),
		Logger:   logger,
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.Infow("listening", "addr", addr, "env", cfg.Env)
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Infow("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// newRedis returns nil when the rate limiter store is absent; the limiter
// then degrades to a pass-through.
func newRedis(ctx context.Context, logger *zap.SugaredLogger) *redis.Client {
	rcfg := config.LoadRedisConfig()
	if !rcfg.Configured() {
		logger.Infow("redis not configured, rate limiting disabled")
		return nil
	}
	rdb, err := config.NewRedisClient(ctx, rcfg)
	if err != nil {
		logger.Warnw("redis unreachable, rate limiting disabled", "addr", rcfg.Addr, "error", err)
		return nil
	}
	return rdb
}
