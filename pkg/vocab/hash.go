package vocab

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ContentHash fingerprints the normalized content of both vocabularies so
// callers can tell whether a rebuild actually changed anything. It hashes
// the sorted normalized forms, so two indexes built from the same sets in
// different input order hash identically. Deterministic and side-effect
// free.
func ContentHash(predicates, contexts *Index) string {
	d := xxhash.New()
	for _, n := range predicates.SortedNormalized() {
		_, _ = d.WriteString("p\x00")
		_, _ = d.WriteString(n)
		_, _ = d.WriteString("\x00")
	}
	for _, n := range contexts.SortedNormalized() {
		_, _ = d.WriteString("c\x00")
		_, _ = d.WriteString(n)
		_, _ = d.WriteString("\x00")
	}
	return fmt.Sprintf("%016x", d.Sum64())
}
