package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"helpdeskbot/internal/models"
)

// Fulfillment outcomes.
const (
	OutcomeFulfilled   = "fulfilled"
	OutcomeElicit      = "elicit"
	OutcomeUnsupported = "unsupported"
	OutcomeCatalogErr  = "catalog_error"
)

var (
	querySearchesDesc = prometheus.NewDesc(
		"helpdeskbot_query_searches_total",
		"Total searches per normalized query, read from the query log",
		[]string{"query"},
		nil,
	)

	// Fulfillments counts dispatched requests by outcome.
	Fulfillments = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "helpdeskbot_fulfillments_total",
		Help: "Dialog fulfillments by outcome",
	}, []string{"outcome"})

	// CatalogUp is 1 when the last background catalog load succeeded.
	CatalogUp = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "helpdeskbot_catalog_up",
		Help: "Whether the last catalog check succeeded",
	})

	// CatalogEntries is the entry count from the last successful catalog load.
	CatalogEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "helpdeskbot_catalog_entries",
		Help: "Catalog entries at the last successful check",
	})

	// QueryLogErrors counts query log writes that failed and were dropped.
	QueryLogErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "helpdeskbot_query_log_errors_total",
		Help: "Query log writes that failed",
	})
)

// TopQuerier reads the most searched query log items.
type TopQuerier interface {
	Top(ctx context.Context, limit int) ([]models.QueryLogItem, error)
}

// QueryCollector is a custom Prometheus collector that reads search counts
// from the query log on each scrape.
type QueryCollector struct {
	store TopQuerier
	limit int
}

// NewQueryCollector exports the limit most searched queries.
func NewQueryCollector(store TopQuerier, limit int) *QueryCollector {
	return &QueryCollector{store: store, limit: limit}
}

// Describe sends the metric descriptor to the channel.
func (c *QueryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- querySearchesDesc
}

// Collect queries the store and emits one counter per query.
func (c *QueryCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	items, err := c.store.Top(ctx, c.limit)
	if err != nil {
		slog.Error("failed to collect query log metrics", "error", err)
		return
	}
	for _, item := range items {
		ch <- prometheus.MustNewConstMetric(
			querySearchesDesc,
			prometheus.CounterValue,
			float64(item.SearchCount),
			item.SearchQuery,
		)
	}
}

// Register registers the process counters and the query collector with reg.
func Register(reg prometheus.Registerer, store TopQuerier, limit int) error {
	for _, c := range []prometheus.Collector{Fulfillments, QueryLogErrors, CatalogUp, CatalogEntries, NewQueryCollector(store, limit)} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordFulfillment increments the outcome counter.
func RecordFulfillment(outcome string) {
	Fulfillments.WithLabelValues(outcome).Inc()
}
