package catalog

import (
	"strings"

	"helpdeskbot/internal/models"
)

// Match returns the entries whose title contains term, ignoring case,
// in catalog order. The result is empty, not nil, when nothing matches.
func Match(term string, entries []models.CatalogEntry) []models.CatalogEntry {
	needle := strings.ToLower(term)
	matches := make([]models.CatalogEntry, 0)
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Title), needle) {
			matches = append(matches, e)
		}
	}
	return matches
}
