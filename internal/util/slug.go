// Package util provides common utility functions.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/inkwellapp/inkwell-server/internal/id"
)

var (
	// Matches any non-alphanumeric character.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// Matches multiple hyphens.
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Slugify converts a title or tag name to a URL-safe slug.
// "Going Faster With Go" -> "going-faster-with-go".
// "Café Culture" -> "cafe-culture".
func Slugify(s string) string {
	// Normalize unicode (decompose accented characters).
	s = norm.NFKD.String(s)

	// Remove non-ASCII characters.
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)

	// Replace non-alphanumeric runs with hyphens.
	s = nonAlphanumeric.ReplaceAllString(s, "-")

	// Collapse multiple hyphens.
	s = multipleHyphens.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}

// GenerateUsername derives a unique handle from a display name:
// lowercased, spaces replaced with underscores, plus a short random suffix.
// "Ada Lovelace" -> "ada_lovelace_x7k2m9q1".
func GenerateUsername(name string) (string, error) {
	base := strings.ToLower(strings.TrimSpace(name))
	base = strings.ReplaceAll(base, " ", "_")

	suffix, err := id.Suffix(8)
	if err != nil {
		return "", err
	}
	return base + "_" + suffix, nil
}
