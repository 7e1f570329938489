package httpmetrics

import "strings"

// NormalizePath collapses user-supplied segments so label cardinality stays
// bounded. Routes alternate between a collection name and a value
// (/users/alice/movies/42), so every second segment becomes {param}.
func NormalizePath(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "/"
	}

	parts := strings.Split(trimmed, "/")
	for i := range parts {
		if i%2 == 1 {
			parts[i] = "{param}"
		}
	}

	return "/" + strings.Join(parts, "/")
}
