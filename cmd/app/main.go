package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"fleet/cmd"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configs := getConfigs()
	if err := configs.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: configs.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, configs, logger); err != nil {
		logger.Error("status engine stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configs cmd.Config, logger *slog.Logger) error {
	app, err := cmd.NewCompositionRoot(ctx, configs, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(context.Background()); err != nil {
			logger.Warn("closing connections", "error", err)
		}
	}()

	e, err := app.CreateHTTPServer(ctx)
	if err != nil {
		return err
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "port", configs.HTTPPort)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err = <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("no .env file loaded, using the process environment: %v", err)
	}

	config := cmd.Config{
		HTTPPort:                 envOr("HTTP_PORT", cmd.DefaultHTTPPort),
		LogLevel:                 logLevel(os.Getenv("LOG_LEVEL")),
		StoreBackend:             envOr("STORE_BACKEND", cmd.StoreBackendPostgres),
		HistoryBackend:           envOr("HISTORY_BACKEND", cmd.HistoryBackendPostgres),
		DBHost:                   os.Getenv("DB_HOST"),
		DBPort:                   envOr("DB_PORT", "5432"),
		DBUser:                   os.Getenv("DB_USER"),
		DBPassword:               os.Getenv("DB_PASSWORD"),
		DBName:                   os.Getenv("DB_NAME"),
		DBSslMode:                os.Getenv("DB_SSLMODE"),
		DBDriver:                 os.Getenv("DB_DRIVER"),
		MongoURI:                 os.Getenv("MONGO_URI"),
		MongoDatabase:            envOr("MONGO_DATABASE", cmd.DefaultMongoDatabase),
		RedisAddr:                os.Getenv("REDIS_ADDR"),
		RedisChannel:             os.Getenv("REDIS_CHANNEL"),
		MQTTBroker:               os.Getenv("MQTT_BROKER"),
		MQTTClientID:             envOr("MQTT_CLIENT_ID", cmd.DefaultMQTTClientID),
		MQTTTopicPrefix:          os.Getenv("MQTT_TOPIC_PREFIX"),
		ConsistencySweepSchedule: envOr("CONSISTENCY_SWEEP_SCHEDULE", cmd.DefaultConsistencySweepSchedule),
		HistoryPurgeSchedule:     envOr("HISTORY_PURGE_SCHEDULE", cmd.DefaultHistoryPurgeSchedule),
		HistoryRetentionDays:     cmd.DefaultHistoryRetentionDays,
	}

	if raw := os.Getenv("HISTORY_RETENTION_DAYS"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			log.Fatalf("HISTORY_RETENTION_DAYS: %v", err)
		}
		config.HistoryRetentionDays = days
	}

	return config
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func logLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo
	}
	return level
}
