package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-frontend/internal/config"
	"chat-frontend/internal/database"
	"chat-frontend/internal/handlers"
	"chat-frontend/internal/logging"
	"chat-frontend/internal/middleware"
	"chat-frontend/internal/repository"
	"chat-frontend/internal/router"
	"chat-frontend/internal/websocket"

	"github.com/redis/go-redis/v9"
)

func main() {
	// ──── Step 1: Load Configuration ────
	cfg, err := config.Load(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty}, os.Stdout)
	logger.Info().Msg("Starting reference chat API")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ──── Step 2: Storage ────
	var (
		users repository.UserStore
		chats repository.ChatStore
	)
	if cfg.Server.DatabaseURL != "" {
		pool, err := database.NewPostgresPool(ctx, cfg.Server.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("PostgreSQL connection failed")
		}
		defer pool.Close()

		if err := database.RunMigrations(ctx, pool, logger); err != nil {
			logger.Fatal().Err(err).Msg("Database migration failed")
		}

		users = repository.NewUserRepo(pool)
		chats = repository.NewChatRepo(pool)
		logger.Info().Msg("PostgreSQL connected")
	} else {
		store := repository.NewMemoryStore()
		users = store.Users()
		chats = store.Chats()
		logger.Warn().Msg("DATABASE_URL not set, using in-memory store")
	}

	// ──── Step 3: Chat Event Hub ────
	var redisClient *redis.Client
	if cfg.Server.RedisURL != "" {
		redisClient, err = database.NewRedisClient(ctx, cfg.Server.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Redis connection failed")
		}
		defer redisClient.Close()
		logger.Info().Msg("Redis connected")
	}

	wsHub := websocket.NewHub(redisClient, logger)
	go wsHub.Run(ctx)

	writeLimiter := middleware.NewRateLimiter(cfg.Server.WriteLimit, time.Minute)
	go writeLimiter.Cleanup(ctx)

	// ──── Step 4: HTTP Server ────
	r := router.New(
		logger,
		handlers.NewUserHandler(users),
		handlers.NewChatHandler(chats, wsHub),
		wsHub,
		writeLimiter,
		cfg.Server.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		logger.Info().Msg("Shutting down...")
		wsHub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", server.Addr).Msgf("API ready on http://localhost:%s/api", cfg.Server.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("Server error")
	}
}
