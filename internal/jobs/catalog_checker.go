package jobs

import (
	"context"
	"log/slog"
	"time"

	"helpdeskbot/internal/catalog"
	"helpdeskbot/internal/metrics"
)

// CatalogChecker periodically loads the catalog and reports whether it is
// readable through the catalog gauges.
type CatalogChecker struct {
	source   catalog.Source
	interval time.Duration
	timeout  time.Duration
	log      *slog.Logger
}

// NewCatalogChecker creates a new catalog checker.
func NewCatalogChecker(source catalog.Source, interval time.Duration, logger *slog.Logger) *CatalogChecker {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogChecker{
		source:   source,
		interval: interval,
		timeout:  30 * time.Second,
		log:      logger,
	}
}

// Start begins the background check loop and returns when ctx is done.
func (h *CatalogChecker) Start(ctx context.Context) {
	h.log.Info("catalog checker started", "interval", h.interval)

	// Run immediately on start
	h.check(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Info("catalog checker stopped")
			return
		case <-ticker.C:
			h.check(ctx)
		}
	}
}

// check loads the catalog once and updates the gauges.
func (h *CatalogChecker) check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	entries, err := h.source.Load(ctx)
	if err != nil {
		metrics.CatalogUp.Set(0)
		h.log.Error("catalog check failed", "error", err)
		return false
	}

	metrics.CatalogUp.Set(1)
	metrics.CatalogEntries.Set(float64(len(entries)))
	h.log.Debug("catalog check passed", "entries", len(entries))
	return true
}
