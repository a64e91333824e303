// Package normalize canonicalizes free-text names into stable comparison keys.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes and removes combining marks, so "Montréal" and
// "Montreal" collapse to the same bytes.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

var (
	ageLevelRe = regexp.MustCompile(`(?:u\s?(\d{2})|(\d{2})\s?u)`)
	fileNameRe = regexp.MustCompile(`[^a-zA-Z0-9_]+`)
)

// Name produces a lowercase, ASCII-only, whitespace-collapsed key for a
// team or player name. Accents are stripped, any remaining non-ASCII runes
// are discarded, and every run of non-alphanumeric characters becomes a
// single space. Deterministic and side-effect-free; empty input stays empty.
func Name(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range folded {
		if r > unicode.MaxASCII {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		} else {
			pendingSpace = true
		}
	}
	return b.String()
}

// ASCII strips diacritics and discards any remaining non-ASCII runes while
// preserving case and punctuation. Used for player names, which must stay
// readable but byte-stable across sources.
func ASCII(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// AgeLevel extracts a two-digit age code from a team name, accepting both
// "U16"/"u 16" and "16U" forms. Returns "" when no code is present.
func AgeLevel(s string) string {
	m := ageLevelRe.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}

// FileName turns an arbitrary cohort value into a filesystem-safe stem:
// runs of non-alphanumeric characters collapse to "_", truncated to 60
// characters.
func FileName(s string) string {
	safe := fileNameRe.ReplaceAllString(s, "_")
	if len(safe) > 60 {
		safe = safe[:60]
	}
	return safe
}
