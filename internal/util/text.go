package util

import (
	"regexp"
	"strings"
)

var reWhitespace = regexp.MustCompile(`\s+`)

// SanitizePostgresText drops invalid UTF-8 and NUL bytes, which Postgres
// rejects in text and jsonb values.
func SanitizePostgresText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}

// NormalizeText collapses runs of whitespace, including line breaks and
// non-breaking spaces, into single spaces and trims the ends.
func NormalizeText(value string) string {
	value = strings.ReplaceAll(value, "\u00a0", " ")
	return strings.TrimSpace(reWhitespace.ReplaceAllString(value, " "))
}
