package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	ServiceName string
	HTTPPort    int
	Database    DatabaseConfig
	RabbitMQ    RabbitMQConfig
	Redis       RedisConfig
	Metrics     MetricsConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// RabbitMQConfig holds RabbitMQ connection and queue settings
type RabbitMQConfig struct {
	URL              string
	ScanExchange     string
	ScanQueue        string
	ScanRoutingKey   string
	EventsExchange   string
	EventsRoutingKey string
	DLQQueue         string
	PrefetchCount    int
}

// RedisConfig holds view cache settings. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// MetricsConfig holds Prometheus settings
type MetricsConfig struct {
	Namespace string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		ServiceName: getEnv("SERVICE_NAME", "energy-insights"),
		HTTPPort:    getEnvAsInt("HTTP_PORT", 8080),
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		RabbitMQ: RabbitMQConfig{
			URL:              getEnv("RABBITMQ_URL", ""),
			ScanExchange:     getEnv("RABBITMQ_SCAN_EXCHANGE", "energy-insights.scan.exchange"),
			ScanQueue:        getEnv("RABBITMQ_SCAN_QUEUE", "energy-insights.scan.queue"),
			ScanRoutingKey:   getEnv("RABBITMQ_SCAN_ROUTING_KEY", "scan.#"),
			EventsExchange:   getEnv("RABBITMQ_EVENTS_EXCHANGE", "energy-insights.events.exchange"),
			EventsRoutingKey: getEnv("RABBITMQ_EVENTS_ROUTING_KEY", "insights.refreshed"),
			DLQQueue:         getEnv("RABBITMQ_DLQ_QUEUE", "energy-insights.scan.dlq"),
			PrefetchCount:    getEnvAsInt("RABBITMQ_PREFETCH", 10),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 300)) * time.Second,
		},
		Metrics: MetricsConfig{
			Namespace: getEnv("METRICS_NAMESPACE", "energy_insights"),
		},
	}

	// Validate required fields
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set in environment variables")
	}
	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL is required but not set in environment variables")
	}
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", cfg.HTTPPort)
	}

	return cfg, nil
}

// CachingEnabled reports whether a Redis address is configured
func (c *Config) CachingEnabled() bool {
	return c.Redis.Addr != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
