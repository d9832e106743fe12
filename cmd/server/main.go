package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/eldtechnologies/keywordbot/internal/api"
	"github.com/eldtechnologies/keywordbot/internal/bot"
	"github.com/eldtechnologies/keywordbot/internal/config"
	"github.com/eldtechnologies/keywordbot/internal/handlers"
	"github.com/eldtechnologies/keywordbot/internal/messaging"
	"github.com/eldtechnologies/keywordbot/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			Level(zerolog.DebugLevel).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			Level(zerolog.InfoLevel).
			With().
			Timestamp().
			Logger()
	}

	ctx := context.Background()

	keywords, closeStore := openKeywordStore(ctx, cfg, logger)
	defer closeStore()

	// Initialize Redis store
	var redisStore *store.RedisStore
	if cfg.RedisURL != "" {
		redisStore, err = store.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		defer redisStore.Close()
		keywords = store.NewCachedStore(keywords, redisStore, logger)
		logger.Info().Msg("connected to Redis")
	}

	if cfg.ChannelSecret == "" || cfg.ChannelAccessToken == "" {
		logger.Warn().Msg("LINE channel credentials not set, every callback will be rejected")
	}

	replier, err := messaging.NewLineReplier(cfg.ChannelAccessToken, cfg.APIEndpoint, &http.Client{Timeout: 10 * time.Second})
	if err != nil {
		logger.Fatal().Err(err).Msg("messaging client setup failed")
	}

	// Create router
	router := api.NewRouter(handlers.Deps{
		Logger:         logger,
		Store:          keywords,
		Redis:          redisStore,
		Resolver:       bot.NewResolver(keywords, bot.WithMenuTrigger(cfg.MenuTrigger)),
		Replier:        replier,
		ChannelSecret:  cfg.ChannelSecret,
		ExposeKeywords: cfg.ExposeKeywords,
	})

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("callback", handlers.CallbackPath).
			Msg("starting keyword bot")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}

// openKeywordStore connects to PostgreSQL when DATABASE_URL is set and to
// SQLite otherwise.
func openKeywordStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (store.KeywordStore, func()) {
	if cfg.DatabaseURL != "" {
		logger.Info().Msg("running database migrations...")
		if err := store.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
		logger.Info().Msg("migrations completed")

		pgStore, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connection failed")
		}
		logger.Info().Msg("connected to PostgreSQL")
		return pgStore, pgStore.Close
	}

	sqliteStore, err := store.NewSQLiteStore(ctx, cfg.SQLitePath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.SQLitePath).Msg("sqlite open failed")
	}
	logger.Info().Str("path", cfg.SQLitePath).Msg("opened SQLite database")
	return sqliteStore, sqliteStore.Close
}
