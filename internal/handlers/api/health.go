package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"helpdeskbot/internal/catalog"
	"helpdeskbot/internal/models"
)

// HealthHandler reports whether the catalog can be loaded.
type HealthHandler struct {
	source  catalog.Source
	timeout time.Duration
}

// NewHealthHandler creates a new API health handler.
func NewHealthHandler(source catalog.Source) *HealthHandler {
	return &HealthHandler{source: source, timeout: 5 * time.Second}
}

// Check loads the catalog and returns JSON results. An unreadable catalog is a 503.
func (h *HealthHandler) Check(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	resp := models.HealthCheckAPIResponse{
		Status:    models.HealthHealthy,
		CheckedAt: time.Now().UTC(),
	}

	entries, err := h.source.Load(ctx)
	if err != nil {
		resp.Status = models.HealthUnhealthy
		resp.Error = err.Error()
		return jsonFailure(c, fiber.StatusServiceUnavailable, resp)
	}

	resp.CatalogEntries = len(entries)
	return jsonSuccess(c, resp)
}
