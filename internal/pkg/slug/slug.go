// Package slug derives URL-safe identifiers for posts and categories.
package slug

import (
	"regexp"
	"strings"
)

var (
	nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)
	spaceRun    = regexp.MustCompile(`\s+`)
	nonSlugChar = regexp.MustCompile(`[^a-z0-9-]`)
	validSlug   = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// FromTitle lowercases s, collapses every run of characters outside [a-z0-9]
// into one hyphen and strips leading and trailing hyphens.
//
//	FromTitle("Crypto & DeFi: A Guide!") == "crypto-defi-a-guide"
func FromTitle(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonAlnumRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// FromName derives a category slug: lowercase, whitespace to hyphens,
// anything else outside [a-z0-9-] removed.
func FromName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = spaceRun.ReplaceAllString(s, "-")
	return nonSlugChar.ReplaceAllString(s, "")
}

// Valid reports whether s is a non-empty slug made of [a-z0-9-].
func Valid(s string) bool {
	return validSlug.MatchString(s)
}
