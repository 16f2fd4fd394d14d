package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/attendance"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/clients"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/config"
	internalhttp "github.com/OldROOx/CACEI-ADMISION-sub000/internal/http"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/jobs"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend := clients.New(cfg.BackendBaseURL, cfg.BackendTimeout, logger)

	var sessions attendance.Store
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			logger.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
		}
		cancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error().Err(err).Msg("redis close error")
			}
		}()
		sessions = attendance.NewRedisStore(redisClient, cfg.SessionTTL)
	} else {
		memory := attendance.NewMemoryStore(cfg.SessionTTL)
		jobs.StartSessionSweepJob(ctx, cfg.SessionSweepInterval, memory, logger)
		sessions = memory
		logger.Warn().Msg("REDIS_ADDR not set, attendance sessions kept in memory")
	}

	server, err := internalhttp.NewServer(cfg, backend, sessions, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("server init failed")
	}
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Msgf("console http listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
	logger.Info().Msg("console stopped")
}
