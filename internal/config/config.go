/**
 * @description
 * Configuration management for the bank-clone dashboard service.
 * Settings come from the environment (optionally seeded from a .env file), with
 * defaults for everything except the session secret.
 */
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	ServerPort              string        `mapstructure:"SERVER_PORT"`
	LogLevel                string        `mapstructure:"LOG_LEVEL"`
	SessionJWTSecret        string        `mapstructure:"SESSION_JWT_SECRET"`
	SessionJWTIssuer        string        `mapstructure:"SESSION_JWT_ISSUER"`
	SessionJWTAudience      string        `mapstructure:"SESSION_JWT_AUDIENCE"`
	TransferProcessingDelay time.Duration `mapstructure:"TRANSFER_PROCESSING_DELAY"`
	FlowIdleTimeout         time.Duration `mapstructure:"FLOW_IDLE_TIMEOUT"`
	FlowSweepSchedule       string        `mapstructure:"FLOW_SWEEP_SCHEDULE"`
	DatabaseURL             string        `mapstructure:"DATABASE_URL"`
	RedisURL                string        `mapstructure:"REDIS_URL"`
	RedisNotificationPrefix string        `mapstructure:"REDIS_NOTIFICATION_PREFIX"`
	RabbitMQURL             string        `mapstructure:"RABBITMQ_URL"`
	NotificationExchange    string        `mapstructure:"NOTIFICATION_EXCHANGE"`
	CORSAllowedOrigins      string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

var keys = []string{
	"SERVER_PORT",
	"LOG_LEVEL",
	"SESSION_JWT_SECRET",
	"SESSION_JWT_ISSUER",
	"SESSION_JWT_AUDIENCE",
	"TRANSFER_PROCESSING_DELAY",
	"FLOW_IDLE_TIMEOUT",
	"FLOW_SWEEP_SCHEDULE",
	"DATABASE_URL",
	"REDIS_URL",
	"REDIS_NOTIFICATION_PREFIX",
	"RABBITMQ_URL",
	"NOTIFICATION_EXCHANGE",
	"CORS_ALLOWED_ORIGINS",
}

// LoadConfig reads configuration from path/.env (if present) and the environment.
// Environment variables always win over the file.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("TRANSFER_PROCESSING_DELAY", "2s")
	viper.SetDefault("FLOW_IDLE_TIMEOUT", "30m")
	viper.SetDefault("FLOW_SWEEP_SCHEDULE", "@every 5m")
	viper.SetDefault("REDIS_NOTIFICATION_PREFIX", "bank-clone:notifications")
	viper.SetDefault("NOTIFICATION_EXCHANGE", "bank_clone_events")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	viper.AutomaticEnv()

	for _, key := range keys {
		_ = viper.BindEnv(key)
	}

	if err = viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if err = viper.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if port := os.Getenv("PORT"); port != "" {
		config.ServerPort = port
	}

	if strings.TrimSpace(config.SessionJWTSecret) == "" {
		return Config{}, errors.New("SESSION_JWT_SECRET must be set")
	}
	if config.TransferProcessingDelay < 0 {
		return Config{}, fmt.Errorf("TRANSFER_PROCESSING_DELAY must not be negative, got %s", config.TransferProcessingDelay)
	}
	if config.FlowIdleTimeout <= 0 {
		return Config{}, fmt.Errorf("FLOW_IDLE_TIMEOUT must be positive, got %s", config.FlowIdleTimeout)
	}

	return config, nil
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
