// Package slug converts arbitrary text into URL-safe ASCII tokens.
package slug

import (
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes characters and removes combining marks, so that
// e.g. "é" folds to "e" before the ASCII filter below.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts a string into a URL-safe slug.
//
// It lowercases, transliterates accented characters to ASCII, maps
// whitespace/underscore runs and hyphen runs to a single hyphen, drops
// everything that isn't alphanumeric, a hyphen, or a period, and trims
// leading and trailing hyphens. Periods are kept so file extensions survive.
//
// Slugify is idempotent: Slugify(Slugify(s)) == Slugify(s).
func Slugify(s string) string {
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	prevHyphen := true // true at the start, so leading hyphens are trimmed
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			prevHyphen = false
		case r == '.':
			b.WriteByte('.')
			prevHyphen = false
		case r == '-' || r == '_' || unicode.IsSpace(r):
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// SlugifyPath slugifies every segment of a slash- or OS-separated path,
// preserving the segment boundaries.
func SlugifyPath(p string) string {
	segments := strings.Split(filepath.ToSlash(p), "/")
	for i, seg := range segments {
		segments[i] = Slugify(seg)
	}
	return path.Join(segments...)
}
