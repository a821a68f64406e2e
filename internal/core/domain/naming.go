package domain

import (
	"regexp"
	"strings"
)

// MaxNameLength bounds a sanitized filename component.
const MaxNameLength = 200

var (
	invalidNameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	underscoreRuns   = regexp.MustCompile(`_+`)
	whitespaceRuns   = regexp.MustCompile(`\s+`)
)

// SanitizeName converts an arbitrary extracted string into a filesystem-safe
// name: disallowed characters become underscores, underscore runs collapse to
// one, leading/trailing underscores and spaces are trimmed, and names longer
// than MaxNameLength are truncated, preferring the nearest word boundary.
// Pure and idempotent; may return "" (callers substitute a fallback label).
func SanitizeName(name string) string {
	name = invalidNameChars.ReplaceAllString(name, "_")
	name = underscoreRuns.ReplaceAllString(name, "_")
	name = strings.Trim(name, " _")

	runes := []rune(name)
	if len(runes) > MaxNameLength {
		cut := string(runes[:MaxNameLength])
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		name = strings.Trim(cut, " _")
	}
	return name
}

// CollapseWhitespace replaces every run of whitespace with a single
// underscore, keeping archive filenames free of spaces inside name parts.
func CollapseWhitespace(name string) string {
	return whitespaceRuns.ReplaceAllString(name, "_")
}
