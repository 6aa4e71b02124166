package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"helpdeskbot/internal/app"
	"helpdeskbot/internal/handlers/api"
	"helpdeskbot/internal/metrics"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(a *app.App) error {
	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := metrics.Register(reg, a.Queries, s.Cfg.MetricsTopQueries); err != nil {
		return err
	}

	// Initialize handlers
	fulfillHandler := api.NewFulfillHandler(a.Bot, s.Log)
	queryHandler := api.NewQueryHandler(a.Queries)
	healthHandler := api.NewHealthHandler(a.Catalog)

	// Dialog engine fulfillment
	s.App.Post("/fulfill", fulfillHandler.Fulfill)

	// Analytics
	s.App.Get("/api/queries/top", queryHandler.Top)

	// Operations
	s.App.Get("/healthz", healthHandler.Check)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	return nil
}
