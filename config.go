package main

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all service settings, loaded once at startup.
type Config struct {
	Port string
	Env  string

	Postgres struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
		TimeZone string
	}

	RedisURL     string
	KafkaBrokers []string
	KafkaTopic   string

	JWTSecret string
	TokenTTL  time.Duration

	RealtimeURL string
	RealtimeHub string

	AllowedOrigins []string
}

// LoadConfig reads configuration from the environment, applying defaults
// for everything except the JWT secret.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("APP_ENV", "development"),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379/0"),
		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaTopic:   getEnv("KAFKA_ORDER_TOPIC", "order-events"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		RealtimeURL:  getEnv("REALTIME_URL", "ws://localhost:8081/ws"),
		RealtimeHub:  getEnv("REALTIME_HUB", "orderhub"),
	}

	cfg.Postgres.Host = getEnv("POSTGRES_HOST", "localhost")
	cfg.Postgres.Port = getEnv("POSTGRES_PORT", "5432")
	cfg.Postgres.User = getEnv("POSTGRES_USER", "postgres")
	cfg.Postgres.Password = getEnv("POSTGRES_PASSWORD", "postgres")
	cfg.Postgres.DBName = getEnv("POSTGRES_DB", "quickpick")
	cfg.Postgres.SSLMode = getEnv("POSTGRES_SSLMODE", "disable")
	cfg.Postgres.TimeZone = getEnv("POSTGRES_TIMEZONE", "UTC")

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	cfg.TokenTTL = ttl

	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	cfg.AllowedOrigins = strings.Split(origins, ",")

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
