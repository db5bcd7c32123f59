// Package normalize makes the four heterogeneously formatted spreadsheet
// exports line up on one canonical field vocabulary: header cleanup,
// synonym-based renaming and date coercion.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/itechlabs/comercial-insights/internal/table"
)

// stripAccents decomposes to NFD, removes combining marks and drops any
// remaining non-ASCII runes, so "Razão" becomes "Razao" and characters
// with no ASCII decomposition disappear.
var stripAccents = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
)

// Header normalizes one raw header string: trim, lowercase, de-accent.
// It never fails; undecodable input passes through with the offending
// runes dropped, and empty input stays empty.
func Header(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		return s
	}
	return out
}

// Headers rewrites every header of the table in place with Header.
func Headers(t *table.Table) {
	for i, h := range t.Headers {
		t.Headers[i] = Header(h)
	}
}
