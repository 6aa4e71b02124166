package db

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"
	"time"

	"helpdeskbot/internal/models"
	"helpdeskbot/internal/querylog"
)

func skipIfNoTestDB(t *testing.T) {
	t.Helper()
	if os.Getenv("TEST_DATABASE_URL") == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}
}

func setupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()
	skipIfNoTestDB(t)

	connString := os.Getenv("TEST_DATABASE_URL")
	ctx := context.Background()
	database, err := New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	database.Pool.Exec(ctx, "DELETE FROM query_logs")
	cleanup := func() {
		database.Pool.Exec(ctx, "DELETE FROM query_logs")
		database.Close()
	}

	return database, cleanup
}

func TestQueryLogs_CreateAndGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	item := &models.QueryLogItem{
		SearchQuery:  "ec2",
		SearchCount:  1,
		CreatedOn:    now,
		LastSearched: now,
		UserIDs:      []string{"user-1"},
		Utterances:   []string{"How to launch an EC2"},
	}
	if err := db.Create(ctx, item); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := db.Get(ctx, "ec2")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.SearchCount != 1 || !got.CreatedOn.Equal(now) {
		t.Errorf("Get() = %+v", got)
	}
	if !reflect.DeepEqual(got.UserIDs, item.UserIDs) || !reflect.DeepEqual(got.Utterances, item.Utterances) {
		t.Errorf("Get() lists = %v / %v", got.UserIDs, got.Utterances)
	}

	if err := db.Create(ctx, item); !errors.Is(err, querylog.ErrDuplicateQuery) {
		t.Errorf("second Create() error = %v, want ErrDuplicateQuery", err)
	}

	if _, err := db.Get(ctx, "missing"); !errors.Is(err, querylog.ErrQueryLogNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrQueryLogNotFound", err)
	}
}

func TestQueryLogs_Update(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	if err := db.Create(ctx, &models.QueryLogItem{SearchQuery: "s3", SearchCount: 1, CreatedOn: now, LastSearched: now, UserIDs: []string{"u1"}, Utterances: []string{"a"}}); err != nil {
		t.Fatal(err)
	}

	later := now.Add(time.Hour)
	if err := db.Update(ctx, "s3", models.QueryLogUpdate{SearchedAt: later, UserID: "u1", Utterance: "b", AppendUtterance: true}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, _ := db.Get(ctx, "s3")
	if got.SearchCount != 2 {
		t.Errorf("SearchCount = %d, want 2", got.SearchCount)
	}
	if !got.LastSearched.Equal(later) || !got.CreatedOn.Equal(now) {
		t.Errorf("timestamps = %v / %v", got.CreatedOn, got.LastSearched)
	}
	if !reflect.DeepEqual(got.UserIDs, []string{"u1"}) || !reflect.DeepEqual(got.Utterances, []string{"a", "b"}) {
		t.Errorf("lists = %v / %v", got.UserIDs, got.Utterances)
	}

	if err := db.Update(ctx, "missing", models.QueryLogUpdate{SearchedAt: later}); !errors.Is(err, querylog.ErrQueryLogNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrQueryLogNotFound", err)
	}
}

func TestQueryLogs_ServiceRoundTrip(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	svc := querylog.NewService(db, nil)

	for i := 0; i < 2; i++ {
		if err := svc.RecordSearch(ctx, "Lambda", "user-1", "lambda demo"); err != nil {
			t.Fatalf("RecordSearch() error = %v", err)
		}
	}

	got, err := db.Get(ctx, "lambda")
	if err != nil {
		t.Fatal(err)
	}
	if got.SearchCount != 2 || len(got.UserIDs) != 1 || len(got.Utterances) != 1 {
		t.Errorf("Get() = %+v", got)
	}

	top, err := db.Top(ctx, 10)
	if err != nil {
		t.Fatalf("Top() error = %v", err)
	}
	if len(top) != 1 || top[0].SearchQuery != "lambda" {
		t.Errorf("Top() = %+v", top)
	}
}
