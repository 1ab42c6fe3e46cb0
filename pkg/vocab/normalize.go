package vocab

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes a raw vocabulary or query string into the
// comparison-stable form every index structure is keyed on: Unicode NFC,
// lowercased, whitespace collapsed to single spaces and trimmed.
// Pure and total; the same input always yields the same output, so
// index-build time and query time can never disagree.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
