package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/ports"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/service"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/infrastructure/api"
	memorystore "github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/infrastructure/db/memory"
	redisstore "github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/infrastructure/db/redis"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/pkg/config"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/web"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.SessionSecret == "" {
		if cfg.Env != "development" {
			log.Fatal().Msg("SESSION_SECRET is required outside development")
		}
		cfg.SessionSecret = "dev-only-insecure-secret"
		log.Warn().Msg("SESSION_SECRET not set, using insecure development default")
	}

	apiClient, err := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger.Component("api"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid API base URL")
	}

	var (
		sessions ports.SessionStore
		rdb      *goredis.Client
	)
	switch cfg.SessionBackend {
	case "redis":
		rdb, err = redisstore.Connect(context.Background(), redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to redis")
		}
		defer rdb.Close()
		sessions = redisstore.NewSessionStore(rdb, cfg.SessionTTL)
	case "memory":
		sessions = memorystore.NewSessionStore()
	default:
		log.Fatal().Str("backend", cfg.SessionBackend).Msg("unknown session backend")
	}

	authService := service.NewAuthService(apiClient, sessions, cfg.SessionSecret, cfg.SessionTTL, logger.Component("auth"))

	e, closeHubs, err := web.NewRouter(web.RouterDeps{
		Auth:         authService,
		API:          apiClient,
		Redis:        rdb,
		PollInterval: cfg.Poll.Interval,
		PollIdleTTL:  cfg.Poll.IdleTTL,
		Log:          logger.Component("web"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("cannot build router")
	}
	defer closeHubs()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("server stopped")
}
