/**
 * @description
 * Entry point for the bank-clone dashboard service.
 * It wires the transfer confirmation flow, the demo account data and the
 * notification sinks behind a chi HTTP router, then serves until SIGINT/SIGTERM.
 *
 * @dependencies
 * - github.com/joho/godotenv: loads .env files during local development.
 * - github.com/jackc/pgx/v5: optional Postgres source for demo transactions.
 * - github.com/redis/go-redis/v9: optional Redis notification fan-out.
 * - github.com/rabbitmq/amqp091-go (via pkg/rabbitmq): optional broker notifications.
 */
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/sufyan123ayaz/Bank-Clone/internal/api"
	"github.com/sufyan123ayaz/Bank-Clone/internal/app"
	"github.com/sufyan123ayaz/Bank-Clone/internal/config"
	"github.com/sufyan123ayaz/Bank-Clone/internal/store"
	"github.com/sufyan123ayaz/Bank-Clone/pkg/notify"
	"github.com/sufyan123ayaz/Bank-Clone/pkg/rabbitmq"
	"github.com/sufyan123ayaz/Bank-Clone/pkg/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, relying on environment variables")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sessions, err := session.NewProvider(session.Config{
		Secret:   cfg.SessionJWTSecret,
		Issuer:   cfg.SessionJWTIssuer,
		Audience: cfg.SessionJWTAudience,
		Leeway:   30 * time.Second,
	})
	if err != nil {
		logger.Error("failed to create session provider", "error", err)
		os.Exit(1)
	}

	demo := store.NewDemoRepository(time.Now())
	var transactions app.TransactionStore = demo
	if cfg.DatabaseURL != "" {
		pgConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			logger.Error("unable to parse database URL", "error", err)
			os.Exit(1)
		}
		pgConfig.MaxConns = 10
		pgConfig.MinConns = 1
		pgConfig.MaxConnLifetime = 30 * time.Minute
		pgConfig.MaxConnIdleTime = 5 * time.Minute
		pgConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

		dbpool, err := pgxpool.NewWithConfig(ctx, pgConfig)
		if err != nil {
			logger.Error("unable to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbpool.Close()
		transactions = store.NewPostgresRepository(dbpool)
		logger.Info("database connection established, serving demo transactions from postgres")
	}

	inbox := notify.NewInbox(notify.DefaultInboxSize)
	sinks := []notify.Sink{inbox}

	var publisher rabbitmq.Publisher = &rabbitmq.EventProducerFallback{Logger: logger}
	if cfg.RabbitMQURL != "" {
		if producer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL); err == nil {
			publisher = producer
			logger.Info("rabbitmq connected", "exchange", cfg.NotificationExchange)
		} else {
			logger.Warn("failed to connect to RabbitMQ, using fallback publisher", "error", err)
		}
	}
	defer publisher.Close()
	sinks = append(sinks, notify.NewBrokerSink(publisher, cfg.NotificationExchange))

	if redisClient := connectRedis(ctx, logger, cfg.RedisURL); redisClient != nil {
		defer redisClient.Close()
		sinks = append(sinks, notify.NewRedisSink(redisClient, cfg.RedisNotificationPrefix))
	}

	notifier := notify.NewFanout(logger, sinks...)

	registry := app.NewFlowRegistry(cfg.TransferProcessingDelay, app.NewRandomCodeGenerator(), notifier, logger)
	defer registry.Close()

	scheduler := app.NewScheduler(registry, logger, cfg.FlowSweepSchedule, cfg.FlowIdleTimeout)
	if err := scheduler.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	dashboard := app.NewDashboardService(transactions, demo, logger)
	accounts := app.NewAccountService(store.NewMemoryProfileRepository(), demo, registry, notifier, logger)
	handler := api.NewHandler(registry, dashboard, accounts, inbox, logger)
	router := api.NewRouter(handler, sessions, cfg.AllowedOrigins())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	logger.Info("shutdown signal received, gracefully shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	<-scheduler.Stop().Done()

	logger.Info("server stopped")
}

// connectRedis returns nil when Redis is not configured or unreachable.
func connectRedis(ctx context.Context, logger *slog.Logger, redisURL string) *redis.Client {
	if strings.TrimSpace(redisURL) == "" {
		logger.Info("redis url missing; redis notifications disabled")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Warn("redis url parse failed; redis notifications disabled", "error", err)
		return nil
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis ping failed; redis notifications disabled", "error", err)
		client.Close()
		return nil
	}

	logger.Info("redis connected")
	return client
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
