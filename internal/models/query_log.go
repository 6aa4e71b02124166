package models

import (
	"slices"
	"time"
)

// QueryLogItem is the per-term search history used for analytics.
type QueryLogItem struct {
	SearchQuery  string    `json:"search_query"`
	SearchCount  int64     `json:"search_count"`
	CreatedOn    time.Time `json:"created_on"`
	LastSearched time.Time `json:"last_searched"`
	UserIDs      []string  `json:"user_ids"`
	Utterances   []string  `json:"utterances"`
}

// HasUserID reports whether id was already recorded for this term.
func (q *QueryLogItem) HasUserID(id string) bool {
	return slices.Contains(q.UserIDs, id)
}

// HasUtterance reports whether the exact utterance was already recorded.
func (q *QueryLogItem) HasUtterance(utterance string) bool {
	return slices.Contains(q.Utterances, utterance)
}

// QueryLogUpdate describes the single atomic mutation applied on a repeat search.
// The counter always increments by one; list values are appended only when
// the matching Append flag is set.
type QueryLogUpdate struct {
	SearchedAt      time.Time
	UserID          string
	AppendUserID    bool
	Utterance       string
	AppendUtterance bool
}
