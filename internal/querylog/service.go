package querylog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"helpdeskbot/internal/models"
	"helpdeskbot/internal/validation"
)

// Service implements the query log upsert.
//
// The existence probe and the write that follows are two separate store
// operations. A concurrent search for the same term between them can append
// a duplicate user id or utterance, or make the second Create fail with
// ErrDuplicateQuery and lose that search. Deduplication of the lists is
// therefore best effort. The counter itself is only ever changed through the
// store's atomic increment.
type Service struct {
	store Store
	now   func() time.Time
	log   *slog.Logger
}

// NewService creates a query log service.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		log:   logger,
	}
}

// RecordSearch records one fulfilled search of term.
// Empty user ids and utterances are not appended.
func (s *Service) RecordSearch(ctx context.Context, term, userID, utterance string) error {
	query := validation.NormalizeQuery(term)
	if query == "" {
		return fmt.Errorf("record search: empty term")
	}
	now := s.now()

	existing, err := s.store.Get(ctx, query)
	switch {
	case errors.Is(err, ErrQueryLogNotFound):
		item := &models.QueryLogItem{
			SearchQuery:  query,
			SearchCount:  1,
			CreatedOn:    now,
			LastSearched: now,
			UserIDs:      nonEmpty(userID),
			Utterances:   nonEmpty(utterance),
		}
		if err := s.store.Create(ctx, item); err != nil {
			return fmt.Errorf("create query log %q: %w", query, err)
		}
		s.log.Debug("query log created", "query", query)
		return nil
	case err != nil:
		return fmt.Errorf("get query log %q: %w", query, err)
	}

	upd := models.QueryLogUpdate{
		SearchedAt:      now,
		UserID:          userID,
		AppendUserID:    userID != "" && !existing.HasUserID(userID),
		Utterance:       utterance,
		AppendUtterance: utterance != "" && !existing.HasUtterance(utterance),
	}
	if err := s.store.Update(ctx, query, upd); err != nil {
		return fmt.Errorf("update query log %q: %w", query, err)
	}
	s.log.Debug("query log updated", "query", query,
		"append_user", upd.AppendUserID, "append_utterance", upd.AppendUtterance)
	return nil
}

// Top returns the most searched terms.
func (s *Service) Top(ctx context.Context, limit int) ([]models.QueryLogItem, error) {
	return s.store.Top(ctx, limit)
}

func nonEmpty(v string) []string {
	if v == "" {
		return []string{}
	}
	return []string{v}
}
