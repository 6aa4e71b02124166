package config

import (
	"os"
	"strconv"
	"time"
)

// Query log backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
	BackendRedis    = "redis"
)

// Config holds all application configuration loaded from environment variables.
// It is built once at startup and handed to each component explicitly.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr   string
	RateLimitMax int // requests per minute per IP on the HTTP transport

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // text or json

	// Catalog
	CatalogPath          string        // local file path or s3://bucket/key
	CatalogCheckInterval time.Duration // background catalog check on the HTTP transport, 0 disables

	// Query log
	QueryLogBackend string
	DatabaseURL     string
	AWSRegion       string
	DynamoDBTable   string
	DynamoDBIndex   string // secondary index keyed by search_count
	DynamoDBURL     string // optional endpoint override, e.g. DynamoDB Local
	RedisURL        string

	// Metrics
	MetricsTopQueries int // number of query log items exported per scrape

	// Bot copy and card settings
	Bot BotConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:                  getEnv("ENV", "development"),
		ServerAddr:           getEnv("SERVER_ADDR", ":3000"),
		RateLimitMax:         getEnvInt("RATE_LIMIT_MAX", 100),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", defaultLogFormat()),
		CatalogPath:          getEnv("CATALOG_PATH", "./data/val.json"),
		CatalogCheckInterval: getEnvDuration("CATALOG_CHECK_INTERVAL", 5*time.Minute),
		QueryLogBackend:      getEnv("QUERY_LOG_BACKEND", BackendMemory),
		DatabaseURL:          getEnv("DATABASE_URL", "postgres://localhost:5432/helpdeskbot?sslmode=disable"),
		AWSRegion:            getEnv("AWS_REGION", "us-east-1"),
		DynamoDBTable:        getEnv("DYNAMODB_TABLE", "valaxy-butler-queries"),
		DynamoDBIndex:        getEnv("DYNAMODB_INDEX", "valaxy-butler-queries-index"),
		DynamoDBURL:          getEnv("DYNAMODB_URL", ""),
		RedisURL:             getEnv("REDIS_URL", ""),
		MetricsTopQueries:    getEnvInt("METRICS_TOP_QUERIES", 50),
		Bot:                  DefaultBotConfig(),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// getEnvDuration parses a Go duration such as "30s". "0" disables, invalid values fall back.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

func defaultLogFormat() string {
	if IsLambda() {
		return "json"
	}
	return "text"
}

// IsLambda reports whether the process runs inside AWS Lambda.
func IsLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}
