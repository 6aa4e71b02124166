package catalog

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"helpdeskbot/internal/models"
	"helpdeskbot/internal/testutil"
)

func TestRank_Example(t *testing.T) {
	ranked := Rank(Match("ec2", testutil.FixtureCatalog()), DefaultLimits)

	if len(ranked) != 2 {
		t.Fatalf("Rank() returned %d results, want 2", len(ranked))
	}
	if ranked[0].Title != "Deploying on EC2" || ranked[0].Popularity != 90 {
		t.Errorf("ranked[0] = %+v, want Deploying on EC2 with popularity 90", ranked[0])
	}
	if ranked[1].Title != "EC2 Spot Fleet" || ranked[1].Popularity != 40 {
		t.Errorf("ranked[1] = %+v, want EC2 Spot Fleet with popularity 40", ranked[1])
	}
}

func TestRank_Empty(t *testing.T) {
	ranked := Rank(nil, DefaultLimits)
	if ranked == nil || len(ranked) != 0 {
		t.Errorf("Rank(nil) = %v, want empty slice", ranked)
	}
}

func TestRank_TwoStages(t *testing.T) {
	// Twelve entries; the two least viewed are the most popular and must be
	// dropped by the view-count stage before popularity is considered.
	var entries []models.CatalogEntry
	for i := 0; i < 12; i++ {
		e := models.CatalogEntry{
			Title:        fmt.Sprintf("video-%02d", i),
			VideoID:      fmt.Sprintf("id-%02d", i),
			ViewCount:    uint64(1000 - i*10),
			LikeCount:    uint64(i),
			DislikeCount: uint64(20 - i),
		}
		if i >= 10 {
			e.LikeCount, e.DislikeCount = 100, 0
		}
		entries = append(entries, e)
	}

	ranked := Rank(entries, DefaultLimits)

	want := []string{"video-09", "video-08", "video-07", "video-06", "video-05"}
	if got := titles(ranked); !reflect.DeepEqual(got, want) {
		t.Errorf("Rank() = %v, want %v", got, want)
	}
}

func TestRank_StableTies(t *testing.T) {
	entries := []models.CatalogEntry{
		{Title: "first", ViewCount: 100, LikeCount: 1, DislikeCount: 1},
		{Title: "second", ViewCount: 100, LikeCount: 1, DislikeCount: 1},
		{Title: "third", ViewCount: 100, LikeCount: 1, DislikeCount: 1},
		{Title: "popular", ViewCount: 50, LikeCount: 1},
	}

	ranked := Rank(entries, DefaultLimits)

	want := []string{"popular", "first", "second", "third"}
	if got := titles(ranked); !reflect.DeepEqual(got, want) {
		t.Errorf("Rank() = %v, want %v", got, want)
	}
}

func TestRank_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		limits  Limits
		wantLen int
	}{
		{"fewer than both bounds", 3, DefaultLimits, 3},
		{"exactly five", 5, DefaultLimits, 5},
		{"between bounds", 7, DefaultLimits, 5},
		{"above both bounds", 40, DefaultLimits, 5},
		{"custom limits", 40, Limits{ViewCountCutoff: 4, ResultLimit: 3}, 3},
		{"custom stage one smaller", 40, Limits{ViewCountCutoff: 2, ResultLimit: 5}, 2},
		{"zero limits use defaults", 40, Limits{}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := make([]models.CatalogEntry, tt.n)
			for i := range entries {
				entries[i] = models.CatalogEntry{Title: fmt.Sprint(i), ViewCount: uint64(i)}
			}
			if got := len(Rank(entries, tt.limits)); got != tt.wantLen {
				t.Errorf("len(Rank()) = %d, want %d", got, tt.wantLen)
			}
		})
	}
}

func TestRerank_Idempotent(t *testing.T) {
	var entries []models.CatalogEntry
	for i := 0; i < 15; i++ {
		entries = append(entries, models.CatalogEntry{
			Title:        fmt.Sprintf("v%d", i),
			ViewCount:    uint64((i * 37) % 11 * 100),
			LikeCount:    uint64(i % 4),
			DislikeCount: uint64(i % 3),
		})
	}

	once := Rank(entries, DefaultLimits)
	twice := Rerank(once, DefaultLimits)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Rerank(Rank(x)) = %v, want %v", titles(twice), titles(once))
	}
}

func TestRerank_DoesNotMutateInput(t *testing.T) {
	input := []models.RankedResult{
		{Title: "low", ViewCount: 1, Popularity: 10},
		{Title: "high", ViewCount: 2, Popularity: 90},
	}
	snapshot := append([]models.RankedResult(nil), input...)

	Rerank(input, DefaultLimits)

	if !reflect.DeepEqual(input, snapshot) {
		t.Errorf("Rerank() mutated its input: %v", input)
	}
}

func TestPopularity(t *testing.T) {
	tests := []struct {
		name     string
		likes    uint64
		dislikes uint64
		want     int
	}{
		{"no feedback", 0, 0, 0},
		{"all likes", 10, 0, 100},
		{"all dislikes", 0, 7, 0},
		{"ninety percent", 90, 10, 90},
		{"floors fractions", 2, 1, 66},
		{"large counts", 1 << 40, 1 << 40, 50},
		{"product exceeds 64 bits", 1 << 62, 1 << 62, 50},
		{"sum exceeds 64 bits", 1 << 63, 1 << 63, 50},
		{"max likes only", math.MaxUint64, 0, 100},
		{"max both", math.MaxUint64, math.MaxUint64, 50},
		{"max likes one dislike", math.MaxUint64, 1, 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := models.Popularity(tt.likes, tt.dislikes)
			if got != tt.want {
				t.Errorf("Popularity(%d, %d) = %d, want %d", tt.likes, tt.dislikes, got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("Popularity(%d, %d) = %d, out of range", tt.likes, tt.dislikes, got)
			}
		})
	}
}
