package main

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambdacontext"

	"helpdeskbot/internal/handlers/api"
	"helpdeskbot/internal/models"
)

type handler struct {
	bot api.Dispatcher
	log *slog.Logger
}

// Handle serves one dialog engine invocation. Unsupported intents and catalog
// failures fail the invocation.
func (h *handler) Handle(ctx context.Context, req models.LexRequest) (*models.LexResponse, error) {
	log := h.log
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		log = log.With("request_id", lc.AwsRequestID)
	}
	log.Debug("fulfillment request", "intent", req.IntentName(), "user_id", req.UserID,
		"invocation_source", req.InvocationSource)

	resp, err := h.bot.Dispatch(ctx, &req)
	if err != nil {
		log.Error("fulfillment failed", "intent", req.IntentName(), "error", err)
		return nil, err
	}
	return resp, nil
}
