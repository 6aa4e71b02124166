package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"helpdeskbot/internal/app"
	"helpdeskbot/internal/config"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()
	if err := cfg.LoadYAMLConfig(); err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}

	a, err := app.New(ctx, cfg, nil)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	h := &handler{bot: a.Bot, log: a.Logger}
	lambda.Start(h.Handle)
}
