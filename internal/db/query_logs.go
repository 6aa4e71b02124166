package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"helpdeskbot/internal/models"
	"helpdeskbot/internal/querylog"
)

// queryLogColumns is the standard column list for query log queries.
const queryLogColumns = `search_query, search_count, created_on, last_searched, user_ids, utterances`

// scanQueryLog scans a row into a QueryLogItem.
func scanQueryLog(row pgx.Row) (*models.QueryLogItem, error) {
	var item models.QueryLogItem
	err := row.Scan(
		&item.SearchQuery,
		&item.SearchCount,
		&item.CreatedOn,
		&item.LastSearched,
		&item.UserIDs,
		&item.Utterances,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, querylog.ErrQueryLogNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Get returns the query log item for query.
func (d *DB) Get(ctx context.Context, query string) (*models.QueryLogItem, error) {
	row := d.Pool.QueryRow(ctx, `SELECT `+queryLogColumns+` FROM query_logs WHERE search_query = $1`, query)
	return scanQueryLog(row)
}

// Create inserts a new query log item.
func (d *DB) Create(ctx context.Context, item *models.QueryLogItem) error {
	userIDs := item.UserIDs
	if userIDs == nil {
		userIDs = []string{}
	}
	utterances := item.Utterances
	if utterances == nil {
		utterances = []string{}
	}

	_, err := d.Pool.Exec(ctx, `
		INSERT INTO query_logs (search_query, search_count, created_on, last_searched, user_ids, utterances)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, item.SearchQuery, item.SearchCount, item.CreatedOn, item.LastSearched, userIDs, utterances)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return querylog.ErrDuplicateQuery
		}
		return fmt.Errorf("failed to insert query log: %w", err)
	}
	return nil
}

// Update increments the counter and appends the flagged values in one statement.
func (d *DB) Update(ctx context.Context, query string, upd models.QueryLogUpdate) error {
	tag, err := d.Pool.Exec(ctx, `
		UPDATE query_logs SET
			search_count  = search_count + 1,
			last_searched = $2,
			user_ids      = CASE WHEN $3::boolean THEN array_append(user_ids, $4::text) ELSE user_ids END,
			utterances    = CASE WHEN $5::boolean THEN array_append(utterances, $6::text) ELSE utterances END
		WHERE search_query = $1
	`, query, upd.SearchedAt, upd.AppendUserID, upd.UserID, upd.AppendUtterance, upd.Utterance)
	if err != nil {
		return fmt.Errorf("failed to update query log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return querylog.ErrQueryLogNotFound
	}
	return nil
}

// Top returns the most searched query log items. A non-positive limit returns all.
func (d *DB) Top(ctx context.Context, limit int) ([]models.QueryLogItem, error) {
	var lim *int
	if limit > 0 {
		lim = &limit
	}
	rows, err := d.Pool.Query(ctx, `
		SELECT `+queryLogColumns+`
		FROM query_logs
		ORDER BY search_count DESC, search_query ASC
		LIMIT $1::int
	`, lim)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.QueryLogItem, 0)
	for rows.Next() {
		item, err := scanQueryLog(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
