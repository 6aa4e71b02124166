package querylog

import (
	"context"
	"slices"
	"strings"
	"sync"

	"helpdeskbot/internal/models"
)

// MemoryStore is a process-local Store for tests and local development.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]*models.QueryLogItem
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]*models.QueryLogItem)}
}

// Get returns a copy of the stored item.
func (m *MemoryStore) Get(ctx context.Context, query string) (*models.QueryLogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[query]
	if !ok {
		return nil, ErrQueryLogNotFound
	}
	return cloneItem(item), nil
}

// Create inserts item unless its query already exists.
func (m *MemoryStore) Create(ctx context.Context, item *models.QueryLogItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[item.SearchQuery]; ok {
		return ErrDuplicateQuery
	}
	m.items[item.SearchQuery] = cloneItem(item)
	return nil
}

// Update applies upd under the store lock.
func (m *MemoryStore) Update(ctx context.Context, query string, upd models.QueryLogUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[query]
	if !ok {
		return ErrQueryLogNotFound
	}
	item.SearchCount++
	item.LastSearched = upd.SearchedAt
	if upd.AppendUserID {
		item.UserIDs = append(item.UserIDs, upd.UserID)
	}
	if upd.AppendUtterance {
		item.Utterances = append(item.Utterances, upd.Utterance)
	}
	return nil
}

// Top returns up to limit items ordered by search count, then query.
func (m *MemoryStore) Top(ctx context.Context, limit int) ([]models.QueryLogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]models.QueryLogItem, 0, len(m.items))
	for _, item := range m.items {
		items = append(items, *cloneItem(item))
	}
	slices.SortFunc(items, func(a, b models.QueryLogItem) int {
		if a.SearchCount != b.SearchCount {
			if a.SearchCount > b.SearchCount {
				return -1
			}
			return 1
		}
		return strings.Compare(a.SearchQuery, b.SearchQuery)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func cloneItem(item *models.QueryLogItem) *models.QueryLogItem {
	c := *item
	c.UserIDs = slices.Clone(item.UserIDs)
	c.Utterances = slices.Clone(item.Utterances)
	return &c
}
