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

	"github.com/joho/godotenv"

	"github.com/phillyfan-api/internal/auth"
	"github.com/phillyfan-api/internal/config"
	"github.com/phillyfan-api/internal/handler"
	"github.com/phillyfan-api/internal/kafka"
	"github.com/phillyfan-api/internal/postgres"
	"github.com/phillyfan-api/internal/providers/espn"
	"github.com/phillyfan-api/internal/providers/sportsdata"
	"github.com/phillyfan-api/internal/providers/youtube"
	"github.com/phillyfan-api/internal/redis"
	"github.com/phillyfan-api/internal/service"
	"github.com/phillyfan-api/internal/websocket"
	"github.com/phillyfan-api/internal/worker"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Load .env for local development; absence is fine
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Warn("failed to load config file, using defaults", "error", err)
		cfg = config.DefaultConfig()
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Redis leaderboard mirror
	logger.Info("connecting to Redis", "addr", cfg.Redis.Addr)
	mirror, err := redis.NewMirror(&cfg.Redis, logger)
	if err != nil {
		logger.Error("failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer mirror.Close()
	logger.Info("connected to Redis")

	// Initialize PostgreSQL
	logger.Info("connecting to PostgreSQL", "host", cfg.Postgres.Host, "database", cfg.Postgres.Database)
	repo, err := postgres.NewRepository(&cfg.Postgres, logger)
	if err != nil {
		logger.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to PostgreSQL")

	// Run database migrations
	if err := repo.RunMigrations(ctx); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub(logger)
	go wsHub.Run()
	logger.Info("WebSocket hub initialized")

	// Initialize upstream provider clients
	espnClient := espn.NewClient(espn.Config{
		BaseURL: cfg.Providers.ESPN.BaseURL,
		Timeout: cfg.Providers.ESPN.Timeout,
	})
	leagueClient := sportsdata.NewClient(sportsdata.Config{
		BaseURL: cfg.Providers.SportsData.BaseURL,
		APIKey:  cfg.Providers.SportsData.APIKey,
		Timeout: cfg.Providers.SportsData.Timeout,
	})
	videoClient := youtube.NewClient(youtube.Config{
		BaseURL: cfg.Providers.YouTube.BaseURL,
		APIKey:  cfg.Providers.YouTube.APIKey,
		Timeout: cfg.Providers.YouTube.Timeout,
	})
	if !leagueClient.Configured() {
		logger.Warn("SPORTSDATA_API_KEY not set, league data endpoints will fail closed")
	}
	if !videoClient.Configured() {
		logger.Warn("YOUTUBE_API_KEY not set, highlights endpoint will return 503")
	}

	// Initialize services
	sportsService := service.NewSportsService(espnClient, leagueClient, videoClient, &cfg.Ledger, logger)
	ledgerService := service.NewLedgerService(repo, mirror, &cfg.Ledger, logger)
	settlementService := service.NewSettlementService(repo, wsHub, &cfg.Ledger, logger)

	// Initialize background workers
	syncWorker := worker.NewSyncWorker(mirror, repo, &cfg.Workers, logger)
	scorePoller := worker.NewScorePoller(espnClient, repo, wsHub, &cfg.Workers, logger)

	// Rebuild the Redis mirrors on startup (recovery)
	logger.Info("rebuilding leaderboard mirrors from database")
	if err := syncWorker.SyncBoards(ctx); err != nil {
		logger.Warn("failed to rebuild mirrors on startup", "error", err)
	}

	if cfg.Workers.SyncEnabled {
		if err := syncWorker.Start(ctx); err != nil {
			logger.Error("failed to start sync worker", "error", err)
			os.Exit(1)
		}
	}
	if cfg.Workers.PollEnabled {
		if err := scorePoller.Start(ctx); err != nil {
			logger.Error("failed to start score poller", "error", err)
			os.Exit(1)
		}
	}

	// Initialize Kafka consumer for settlement events
	var settlementConsumer *kafka.Consumer
	if cfg.Kafka.Enabled {
		logger.Info("initializing Kafka consumer",
			"brokers", cfg.Kafka.Brokers,
			"topic", cfg.Kafka.Topic,
		)
		var err error
		settlementConsumer, err = kafka.NewConsumer(&cfg.Kafka, settlementService, logger)
		if err != nil {
			logger.Warn("failed to create Kafka consumer, continuing without settlements", "error", err)
		} else {
			if err := settlementConsumer.Start(); err != nil {
				logger.Warn("failed to start Kafka consumer, continuing without settlements", "error", err)
				settlementConsumer = nil
			} else {
				logger.Info("Kafka consumer started successfully")
			}
		}
	}

	// Initialize HTTP handler
	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.CookieName)
	httpHandler := handler.NewHandler(sportsService, ledgerService, verifier, wsHub, cfg, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpHandler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting HTTP server", "port", cfg.Server.Port)
		logger.Info("WebSocket endpoint available at /ws")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop WebSocket hub
	wsHub.Stop()

	// Stop Kafka consumer
	if settlementConsumer != nil {
		if err := settlementConsumer.Stop(); err != nil {
			logger.Error("failed to stop Kafka consumer", "error", err)
		}
	}

	// Stop background workers
	if cfg.Workers.PollEnabled {
		if err := scorePoller.Stop(); err != nil {
			logger.Error("failed to stop score poller", "error", err)
		}
	}
	if cfg.Workers.SyncEnabled {
		if err := syncWorker.Stop(); err != nil {
			logger.Error("failed to stop sync worker", "error", err)
		}
	}

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	}

	logger.Info("server stopped")
}
