// Package dishkey turns free-text dish names into cache key fragments.
package dishkey

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	disallowed = regexp.MustCompile(`[^a-z0-9_\s]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Normalize lower-cases and trims name, strips punctuation and symbols and
// collapses whitespace runs, including Unicode spaces such as U+00A0, to a
// single underscore. Underscores survive the strip so that
// Normalize(Normalize(x)) == Normalize(x). An empty result means the name is
// not searchable.
func Normalize(name string) string {
	s := strings.Map(spaceToASCII, strings.ToLower(name))
	s = strings.TrimSpace(s)
	s = disallowed.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return whitespace.ReplaceAllString(s, "_")
}

func spaceToASCII(r rune) rune {
	if unicode.IsSpace(r) {
		return ' '
	}
	return r
}

// Composite returns the key fragment for a dish at an optional place.
// It is empty whenever the normalized name is empty.
func Composite(name, placeID string) string {
	key := Normalize(name)
	if key == "" {
		return ""
	}
	if placeID != "" {
		key += "_" + placeID
	}
	return key
}
