package models

import (
	"time"
)

// Health states reported by the health endpoint.
const (
	HealthHealthy   = "healthy"
	HealthUnhealthy = "unhealthy"
)

// QuerySummary is the analytics view of a query log item.
// User IDs and utterances are reduced to counts.
type QuerySummary struct {
	Query        string    `json:"query"`
	Count        int64     `json:"count"`
	Users        int       `json:"users"`
	Utterances   int       `json:"utterances"`
	CreatedOn    time.Time `json:"created_on"`
	LastSearched time.Time `json:"last_searched"`
}

// Summary converts a query log item to its analytics view.
func (q QueryLogItem) Summary() QuerySummary {
	return QuerySummary{
		Query:        q.SearchQuery,
		Count:        q.SearchCount,
		Users:        len(q.UserIDs),
		Utterances:   len(q.Utterances),
		CreatedOn:    q.CreatedOn,
		LastSearched: q.LastSearched,
	}
}

// HealthCheckAPIResponse contains health check results for the API.
type HealthCheckAPIResponse struct {
	Status         string    `json:"status"`
	CheckedAt      time.Time `json:"checked_at"`
	CatalogEntries int       `json:"catalog_entries"`
	Error          string    `json:"error,omitempty"`
}
