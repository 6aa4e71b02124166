package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"helpdeskbot/internal/bot"
	"helpdeskbot/internal/catalog"
	"helpdeskbot/internal/models"
)

// Dispatcher handles a dialog engine fulfillment request.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *models.LexRequest) (*models.LexResponse, error)
}

// FulfillHandler exposes the bot over HTTP.
type FulfillHandler struct {
	bot Dispatcher
	log *slog.Logger
}

// NewFulfillHandler creates a new fulfillment handler.
func NewFulfillHandler(b Dispatcher, logger *slog.Logger) *FulfillHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FulfillHandler{bot: b, log: logger}
}

// Fulfill decodes a dialog engine event and returns the dialog action as-is.
func (h *FulfillHandler) Fulfill(c fiber.Ctx) error {
	invocationID := uuid.NewString()
	c.Set("X-Invocation-ID", invocationID)
	log := h.log.With("invocation_id", invocationID)

	var req models.LexRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.bot.Dispatch(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, bot.ErrUnsupportedIntent):
			log.Warn("unsupported intent", "intent", req.IntentName())
			return jsonError(c, fiber.StatusUnprocessableEntity, "unsupported intent")
		case errors.Is(err, catalog.ErrCatalogRead):
			log.Error("catalog unavailable", "error", err)
			return jsonError(c, fiber.StatusInternalServerError, "catalog unavailable")
		default:
			log.Error("fulfillment failed", "error", err)
			return jsonError(c, fiber.StatusInternalServerError, "fulfillment failed")
		}
	}

	return c.JSON(resp)
}
