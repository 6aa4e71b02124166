// Package app assembles the bot and its query log backend from configuration.
// Both transports build their dependencies here.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"helpdeskbot/internal/bot"
	"helpdeskbot/internal/catalog"
	"helpdeskbot/internal/config"
	"helpdeskbot/internal/db"
	"helpdeskbot/internal/dynamo"
	"helpdeskbot/internal/kv"
	"helpdeskbot/internal/querylog"
)

// App holds the wired components for one process.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Bot     *bot.Bot
	Queries *querylog.Service
	Catalog catalog.Source

	awsCfg  *aws.Config
	closers []func()
}

// NewLogger builds the process logger from the configured format and level.
func NewLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// New connects the query log backend, resolves the catalog source and builds the bot.
// Call Close when done.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = NewLogger(cfg)
	}
	a := &App{Config: cfg, Logger: logger}

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	source, err := a.catalogSource(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Catalog = source
	a.Queries = querylog.NewService(store, logger)
	recorder := querylog.NewRecorder(a.Queries, logger)
	a.Bot = bot.New(cfg.Bot, source, recorder, logger)

	logger.Info("bot initialized",
		"intent", cfg.Bot.IntentName,
		"catalog", cfg.CatalogPath,
		"query_log_backend", cfg.QueryLogBackend)
	return a, nil
}

// Close releases backend connections.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) openStore(ctx context.Context) (querylog.Store, error) {
	cfg := a.Config

	switch cfg.QueryLogBackend {
	case config.BackendMemory, "":
		return querylog.NewMemoryStore(), nil

	case config.BackendPostgres:
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers = append(a.closers, database.Close)
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		a.Logger.Info("migrations completed")
		return database, nil

	case config.BackendDynamoDB:
		awsCfg, err := a.awsConfig(ctx)
		if err != nil {
			return nil, err
		}
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.DynamoDBURL != "" {
				o.BaseEndpoint = aws.String(cfg.DynamoDBURL)
			}
		})
		return dynamo.NewQueryLogs(client, cfg.DynamoDBTable, cfg.DynamoDBIndex), nil

	case config.BackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("query log backend %q requires REDIS_URL", cfg.QueryLogBackend)
		}
		client, err := kv.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { client.Close() })
		return kv.NewQueryLogs(client, kv.DefaultPrefix), nil
	}

	return nil, fmt.Errorf("unknown query log backend %q", cfg.QueryLogBackend)
}

func (a *App) catalogSource(ctx context.Context) (catalog.Source, error) {
	var client catalog.S3API
	if strings.HasPrefix(a.Config.CatalogPath, "s3://") {
		awsCfg, err := a.awsConfig(ctx)
		if err != nil {
			return nil, err
		}
		client = s3.NewFromConfig(awsCfg)
	}
	return catalog.NewSource(a.Config.CatalogPath, client)
}

// awsConfig loads the shared AWS configuration once.
func (a *App) awsConfig(ctx context.Context) (aws.Config, error) {
	if a.awsCfg != nil {
		return *a.awsCfg, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(a.Config.AWSRegion))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	a.awsCfg = &awsCfg
	return awsCfg, nil
}
