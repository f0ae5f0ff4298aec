package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/trendtactics/academy-api/internal/config"
	"github.com/trendtactics/academy-api/internal/infra"
	"github.com/trendtactics/academy-api/internal/logging"
	"github.com/trendtactics/academy-api/internal/routes"
	"github.com/trendtactics/academy-api/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.AppName)

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server exited cleanly")
}

func run(cfg config.Config, logger *slog.Logger) error {
	deps, closeAll, err := connect(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeAll()

	srv, err := server.New(deps)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()
	logger.Info("server starting",
		slog.String("addr", cfg.Address()),
		slog.String("env", cfg.AppEnv),
		slog.Bool("supabase", deps.Supabase != nil),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-srvErrCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// connect builds the optional backing clients. A missing URL leaves the
// client nil; a configured but unreachable one is fatal.
func connect(ctx context.Context, cfg config.Config, logger *slog.Logger) (routes.Deps, func(), error) {
	deps := routes.Deps{Cfg: cfg, Logger: logger}
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
	switch {
	case errors.Is(err, infra.ErrNotConfigured):
		logger.Info("postgres not configured")
	case err != nil:
		return deps, closeAll, fmt.Errorf("connect postgres: %w", err)
	default:
		deps.DB = db
		closers = append(closers, db.Close)
	}

	cache, err := infra.NewRedisClient(ctx, cfg.RedisURL)
	switch {
	case errors.Is(err, infra.ErrNotConfigured):
		logger.Info("redis not configured; idempotency keys and login rate limiting are off")
	case err != nil:
		closeAll()
		return deps, func() {}, fmt.Errorf("connect redis: %w", err)
	default:
		deps.Cache = cache
		closers = append(closers, func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", slog.Any("error", err))
			}
		})
	}

	sb, err := infra.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseKey)
	switch {
	case errors.Is(err, infra.ErrNotConfigured):
		logger.Warn("supabase not configured")
	case err != nil:
		closeAll()
		return deps, func() {}, fmt.Errorf("build supabase client: %w", err)
	default:
		deps.Supabase = sb
	}

	return deps, closeAll, nil
}
