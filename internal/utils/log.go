package utils

import "strings"

// TruncateForLog turns s into a single-line preview of at most limit runes.
// Runs of whitespace, newlines included, collapse into one space; an ellipsis marks a cut.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
