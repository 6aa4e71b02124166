package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"helpdeskbot/internal/app"
	"helpdeskbot/internal/config"
	"helpdeskbot/internal/jobs"
	"helpdeskbot/internal/server"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// Load optional YAML config
	if err := cfg.LoadYAMLConfig(); err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}

	// Initialize query log backend and bot
	a, err := app.New(ctx, cfg, nil)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	// Create server
	srv := server.New(cfg, a.Logger)
	if err := srv.RegisterRoutes(a); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	// Start background catalog checker
	jobCtx, stopJobs := context.WithCancel(ctx)
	defer stopJobs()
	if cfg.CatalogCheckInterval > 0 {
		checker := jobs.NewCatalogChecker(a.Catalog, cfg.CatalogCheckInterval, a.Logger)
		go checker.Start(jobCtx)
	}

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.Logger.Info("shutting down server")
	stopJobs()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	a.Logger.Info("server exited")
}
