package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpapi "github.com/team-portal/portal/internal/api/http"
	"github.com/team-portal/portal/internal/application/auth"
	"github.com/team-portal/portal/internal/application/user"
	"github.com/team-portal/portal/internal/config"
	"github.com/team-portal/portal/internal/infrastructure/postgres"
	"github.com/team-portal/portal/internal/infrastructure/token"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		var cfgErr *config.ConfigurationError
		if errors.As(err, &cfgErr) {
			logger.Fatal().Str("key", cfgErr.Key).Msg(cfgErr.Reason)
		}
		logger.Fatal().Err(err).Msg("config error")
	}

	codec, err := token.NewCodec(token.Config{Algorithm: cfg.SessionAlgorithm, Secret: cfg.SessionSecret})
	if err != nil {
		logger.Fatal().Err(err).Msg("session codec error")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("db error")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, cfg.MigrationsDir, logger); err != nil {
		logger.Fatal().Err(err).Msg("migration error")
	}

	userRepo := postgres.NewUserRepository(pool)

	authSvc := auth.NewService(userRepo, logger)
	userSvc := user.NewService(userRepo, logger)

	sessions := httpapi.NewSessionStore(codec, cfg.SessionCookieName, cfg.SessionTTL, cfg.SessionCookieSecure)
	verifier := httpapi.NewVerifier(sessions, codec, logger)

	apiServer, err := httpapi.NewServer(authSvc, userSvc, sessions, verifier, cfg.Routes, httpapi.Options{
		TrustedOrigins: cfg.TrustedOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("api server error")
	}

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", cfg.ServerAddr).
			Str("algorithm", codec.Algorithm()).
			Dur("session_ttl", cfg.SessionTTL).
			Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
	logger.Info().Msg("http server stopped")
}
