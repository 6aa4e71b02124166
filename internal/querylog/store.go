// Package querylog records how often, and by whom, each search term is used.
package querylog

import (
	"context"

	"helpdeskbot/internal/models"
)

// Store is the persistent query log, one item per normalized search term.
//
// Create must fail with ErrDuplicateQuery when the item already exists.
// Update must apply the whole QueryLogUpdate as a single atomic operation,
// incrementing search_count with the backend's native increment, and fail
// with ErrQueryLogNotFound when the item does not exist.
type Store interface {
	Get(ctx context.Context, query string) (*models.QueryLogItem, error)
	Create(ctx context.Context, item *models.QueryLogItem) error
	Update(ctx context.Context, query string, upd models.QueryLogUpdate) error
	// Top reads the search_count access path, most searched first.
	Top(ctx context.Context, limit int) ([]models.QueryLogItem, error)
}
