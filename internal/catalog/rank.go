package catalog

import (
	"slices"

	"helpdeskbot/internal/models"
)

// Limits bounds the two ranking stages.
type Limits struct {
	ViewCountCutoff int // kept after sorting by view count
	ResultLimit     int // kept after sorting by popularity
}

// DefaultLimits keeps the 10 most viewed matches and returns the 5 most popular of those.
var DefaultLimits = Limits{ViewCountCutoff: 10, ResultLimit: 5}

// Rank scores matches and orders them by view count, then popularity.
func Rank(matches []models.CatalogEntry, limits Limits) []models.RankedResult {
	results := make([]models.RankedResult, len(matches))
	for i, m := range matches {
		results[i] = m.ToRanked()
	}
	return Rerank(results, limits)
}

// Rerank applies both ranking stages to already scored results.
// Both sorts are stable so equal keys keep their input order, which makes
// Rerank idempotent on its own output.
func Rerank(results []models.RankedResult, limits Limits) []models.RankedResult {
	if limits.ViewCountCutoff <= 0 {
		limits.ViewCountCutoff = DefaultLimits.ViewCountCutoff
	}
	if limits.ResultLimit <= 0 {
		limits.ResultLimit = DefaultLimits.ResultLimit
	}
	ranked := slices.Clone(results)
	if ranked == nil {
		ranked = []models.RankedResult{}
	}

	slices.SortStableFunc(ranked, func(a, b models.RankedResult) int {
		switch {
		case a.ViewCount > b.ViewCount:
			return -1
		case a.ViewCount < b.ViewCount:
			return 1
		}
		return 0
	})
	ranked = truncate(ranked, limits.ViewCountCutoff)

	slices.SortStableFunc(ranked, func(a, b models.RankedResult) int {
		return b.Popularity - a.Popularity
	})
	return truncate(ranked, limits.ResultLimit)
}

func truncate(results []models.RankedResult, n int) []models.RankedResult {
	if len(results) > n {
		return results[:n]
	}
	return results
}
