// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"helpdeskbot/internal/db"
	"helpdeskbot/internal/models"
)

// TestDB creates a test database connection and returns a cleanup function.
// Uses TEST_DATABASE_URL environment variable and skips the test when unset.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanupTestData(ctx, database.Pool)
	cleanup := func() {
		cleanupTestData(ctx, database.Pool)
		database.Close()
	}

	return database, cleanup
}

// cleanupTestData removes all test data from the database.
func cleanupTestData(ctx context.Context, pool *pgxpool.Pool) {
	pool.Exec(ctx, "DELETE FROM query_logs")
}

// FixtureCatalog returns the three-entry catalog used across tests.
func FixtureCatalog() []models.CatalogEntry {
	return []models.CatalogEntry{
		{Title: "Deploying on EC2", VideoID: "vid-ec2-deploy", ViewCount: 1000, LikeCount: 90, DislikeCount: 10, ThumbnailURL: "https://i.ytimg.com/vi/vid-ec2-deploy/hqdefault.jpg"},
		{Title: "EC2 Spot Fleet", VideoID: "vid-ec2-spot", ViewCount: 500, LikeCount: 40, DislikeCount: 60, ThumbnailURL: "https://i.ytimg.com/vi/vid-ec2-spot/hqdefault.jpg"},
		{Title: "S3 Basics", VideoID: "vid-s3-basics", ViewCount: 2000, LikeCount: 10, DislikeCount: 0, ThumbnailURL: "https://i.ytimg.com/vi/vid-s3-basics/hqdefault.jpg"},
	}
}

// WriteCatalogFile writes entries in the catalog dataset layout and returns the path.
// Statistics are written as decimal strings, as the upstream export does.
func WriteCatalogFile(t *testing.T, entries []models.CatalogEntry) string {
	t.Helper()

	type stats struct {
		ViewCount    string `json:"viewCount"`
		LikeCount    string `json:"likeCount"`
		DislikeCount string `json:"dislikeCount"`
	}
	type video struct {
		Title      string `json:"title"`
		VidID      string `json:"vid_id"`
		Statistics stats  `json:"statistics"`
		Thumbnails string `json:"thumbnails"`
	}

	doc := struct {
		Vids [][]video `json:"vids"`
	}{Vids: make([][]video, 0, len(entries))}
	for _, e := range entries {
		doc.Vids = append(doc.Vids, []video{{
			Title: e.Title,
			VidID: e.VideoID,
			Statistics: stats{
				ViewCount:    strconv.FormatUint(e.ViewCount, 10),
				LikeCount:    strconv.FormatUint(e.LikeCount, 10),
				DislikeCount: strconv.FormatUint(e.DislikeCount, 10),
			},
			Thumbnails: e.ThumbnailURL,
		}})
	}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal catalog: %v", err)
	}
	path := filepath.Join(t.TempDir(), "val.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}
	return path
}
