package validation

import (
	"net/url"
	"strconv"
	"strings"
)

// NormalizeQuery trims and lowercases a search term so query log keys are case-insensitive.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// ValidateQuery checks that a slot value is present. Any non-blank value,
// however long, is searched.
func ValidateQuery(query string) (bool, string) {
	if strings.TrimSpace(query) == "" {
		return false, "search term is required"
	}
	return true, ""
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
// Card links and images are rendered by chat clients, so javascript:, data: and
// other schemes are refused.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// ParseLimit parses a positive integer limit, falling back to def and capping at max.
func ParseLimit(raw string, def, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
