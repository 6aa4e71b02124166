// Package kv stores the query log in Redis.
//
// Each term is a hash at <prefix>:item:{<term>} holding search_count, created_on
// and last_searched. User IDs and utterances live in lists at
// <prefix>:users:{<term>} and <prefix>:utterances:{<term>}. The braces are a
// cluster hash tag, so the three keys of a term share a slot and the scripts
// that touch them run under Redis Cluster.
//
// A sorted set at <prefix>:counts mirrors search_count and serves Top. It lives
// in its own slot and is written after the script succeeds, so it can trail
// the hashes if that second write fails.
package kv

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"helpdeskbot/internal/models"
	"helpdeskbot/internal/querylog"
)

// DefaultPrefix is the key prefix used when none is given.
const DefaultPrefix = "querylog"

var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
redis.call('HSET', KEYS[1], 'search_count', ARGV[2], 'created_on', ARGV[3], 'last_searched', ARGV[4])
local n = tonumber(ARGV[5])
for i = 1, n do
  redis.call('RPUSH', KEYS[2], ARGV[5 + i])
end
for i = 6 + n, #ARGV do
  redis.call('RPUSH', KEYS[3], ARGV[i])
end
return 1
`)

var updateScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return 0
end
redis.call('HINCRBY', KEYS[1], 'search_count', 1)
redis.call('HSET', KEYS[1], 'last_searched', ARGV[2])
if ARGV[3] == '1' then
  redis.call('RPUSH', KEYS[2], ARGV[4])
end
if ARGV[5] == '1' then
  redis.call('RPUSH', KEYS[3], ARGV[6])
end
return 1
`)

// QueryLogs is a Redis-backed query log store.
type QueryLogs struct {
	client redis.UniversalClient
	prefix string
}

// NewQueryLogs creates a store using client. An empty prefix uses DefaultPrefix.
func NewQueryLogs(client redis.UniversalClient, prefix string) *QueryLogs {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &QueryLogs{client: client, prefix: prefix}
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func tag(query string) string { return "{" + query + "}" }

func (q *QueryLogs) itemKey(query string) string       { return q.prefix + ":item:" + tag(query) }
func (q *QueryLogs) usersKey(query string) string      { return q.prefix + ":users:" + tag(query) }
func (q *QueryLogs) utterancesKey(query string) string { return q.prefix + ":utterances:" + tag(query) }
func (q *QueryLogs) countsKey() string                 { return q.prefix + ":counts" }

// keys lists the per-term keys a script touches. They all hash to one slot.
func (q *QueryLogs) keys(query string) []string {
	return []string{q.itemKey(query), q.usersKey(query), q.utterancesKey(query)}
}

// Get reads the hash and both lists in one pipeline.
func (q *QueryLogs) Get(ctx context.Context, query string) (*models.QueryLogItem, error) {
	var (
		fields     *redis.MapStringStringCmd
		users      *redis.StringSliceCmd
		utterances *redis.StringSliceCmd
	)
	_, err := q.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		fields = pipe.HGetAll(ctx, q.itemKey(query))
		users = pipe.LRange(ctx, q.usersKey(query), 0, -1)
		utterances = pipe.LRange(ctx, q.utterancesKey(query), 0, -1)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read query log: %w", err)
	}
	if len(fields.Val()) == 0 {
		return nil, querylog.ErrQueryLogNotFound
	}
	return decodeItem(query, fields.Val(), users.Val(), utterances.Val())
}

func decodeItem(query string, fields map[string]string, users, utterances []string) (*models.QueryLogItem, error) {
	count, err := strconv.ParseInt(fields["search_count"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse search_count: %w", err)
	}
	created, err := time.Parse(time.RFC3339Nano, fields["created_on"])
	if err != nil {
		return nil, fmt.Errorf("parse created_on: %w", err)
	}
	last, err := time.Parse(time.RFC3339Nano, fields["last_searched"])
	if err != nil {
		return nil, fmt.Errorf("parse last_searched: %w", err)
	}
	return &models.QueryLogItem{
		SearchQuery:  query,
		SearchCount:  count,
		CreatedOn:    created,
		LastSearched: last,
		UserIDs:      users,
		Utterances:   utterances,
	}, nil
}

// Create writes the item only if the hash does not exist yet.
func (q *QueryLogs) Create(ctx context.Context, item *models.QueryLogItem) error {
	args := make([]any, 0, 5+len(item.UserIDs)+len(item.Utterances))
	args = append(args,
		item.SearchQuery,
		item.SearchCount,
		item.CreatedOn.UTC().Format(time.RFC3339Nano),
		item.LastSearched.UTC().Format(time.RFC3339Nano),
		len(item.UserIDs),
	)
	for _, u := range item.UserIDs {
		args = append(args, u)
	}
	for _, u := range item.Utterances {
		args = append(args, u)
	}

	created, err := createScript.Run(ctx, q.client, q.keys(item.SearchQuery), args...).Int()
	if err != nil {
		return fmt.Errorf("create query log: %w", err)
	}
	if created == 0 {
		return querylog.ErrDuplicateQuery
	}
	if err := q.client.ZAdd(ctx, q.countsKey(), redis.Z{
		Score:  float64(item.SearchCount),
		Member: item.SearchQuery,
	}).Err(); err != nil {
		return fmt.Errorf("index query log: %w", err)
	}
	return nil
}

// Update applies upd in a single script so the counter, timestamp and lists
// change together.
func (q *QueryLogs) Update(ctx context.Context, query string, upd models.QueryLogUpdate) error {
	updated, err := updateScript.Run(ctx, q.client, q.keys(query),
		query,
		upd.SearchedAt.UTC().Format(time.RFC3339Nano),
		flag(upd.AppendUserID), upd.UserID,
		flag(upd.AppendUtterance), upd.Utterance,
	).Int()
	if err != nil {
		return fmt.Errorf("update query log: %w", err)
	}
	if updated == 0 {
		return querylog.ErrQueryLogNotFound
	}
	if err := q.client.ZIncrBy(ctx, q.countsKey(), 1, query).Err(); err != nil {
		return fmt.Errorf("index query log: %w", err)
	}
	return nil
}

// Top reads the counts sorted set, most searched first, ties by term.
func (q *QueryLogs) Top(ctx context.Context, limit int) ([]models.QueryLogItem, error) {
	scored, err := q.client.ZRevRangeWithScores(ctx, q.countsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read counts: %w", err)
	}
	slices.SortStableFunc(scored, func(a, b redis.Z) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(fmt.Sprint(a.Member), fmt.Sprint(b.Member))
	})
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	items := make([]models.QueryLogItem, 0, len(scored))
	for _, z := range scored {
		item, err := q.Get(ctx, fmt.Sprint(z.Member))
		if errors.Is(err, querylog.ErrQueryLogNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
