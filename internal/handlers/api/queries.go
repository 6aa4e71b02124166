package api

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"helpdeskbot/internal/models"
	"helpdeskbot/internal/validation"
)

const (
	defaultTopLimit = 10
	maxTopLimit     = 100
)

// TopQuerier reads the most searched terms.
type TopQuerier interface {
	Top(ctx context.Context, limit int) ([]models.QueryLogItem, error)
}

// QueryHandler serves query log analytics.
type QueryHandler struct {
	queries TopQuerier
}

// NewQueryHandler creates a new query analytics handler.
func NewQueryHandler(queries TopQuerier) *QueryHandler {
	return &QueryHandler{queries: queries}
}

// Top returns the most searched terms, most searched first.
func (h *QueryHandler) Top(c fiber.Ctx) error {
	limit := validation.ParseLimit(c.Query("limit"), defaultTopLimit, maxTopLimit)

	items, err := h.queries.Top(c.Context(), limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch queries")
	}

	summaries := make([]models.QuerySummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, item.Summary())
	}
	return jsonSuccess(c, summaries)
}
