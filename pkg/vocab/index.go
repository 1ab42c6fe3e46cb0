// Package vocab builds immutable, queryable vocabulary indexes: an exact
// lookup table, a patricia trie for prefix search, and an n-gram inverted
// index for shortlisting fuzzy candidates.
package vocab

import (
	"errors"
	"sort"

	"github.com/tchap/go-patricia/v2/patricia"
)

// ErrEmptyVocabulary is returned by Build when no usable entries remain
// after normalization and deduplication.
var ErrEmptyVocabulary = errors.New("vocab: empty vocabulary")

// Entry pairs a normalized vocabulary string with its original form.
type Entry struct {
	Normalized string
	Original   string
}

// Index is the indexed representation of one vocabulary. It is never
// mutated after Build; a rebuild always constructs a fresh Index.
type Index struct {
	entries []Entry
	exact   map[string]string
	trie    *patricia.Trie
	grams   map[string][]int
	short   []int
	sorted  []string
}

// Build constructs an Index from raw vocabulary strings. Entries are
// deduplicated by normalized form; when duplicates collide the first
// occurrence's original casing is kept. That is a degenerate tie-break for
// inputs that only differ in casing or whitespace, not meaningful
// precedence. Entries that normalize to the empty string are dropped.
// Fails only with ErrEmptyVocabulary.
func Build(raw []string) (*Index, error) {
	idx := &Index{
		exact: make(map[string]string, len(raw)),
		trie:  patricia.NewTrie(),
		grams: make(map[string][]int),
	}

	for _, r := range raw {
		n := Normalize(r)
		if n == "" {
			continue
		}
		if _, dup := idx.exact[n]; dup {
			continue
		}
		id := len(idx.entries)
		idx.entries = append(idx.entries, Entry{Normalized: n, Original: r})
		idx.exact[n] = r
		idx.trie.Insert(patricia.Prefix(n), id)

		gs := NGrams(n)
		if len(gs) == 0 {
			idx.short = append(idx.short, id)
		}
		for _, g := range gs {
			idx.grams[g] = append(idx.grams[g], id)
		}
	}

	if len(idx.entries) == 0 {
		return nil, ErrEmptyVocabulary
	}

	idx.sorted = make([]string, 0, len(idx.entries))
	for _, e := range idx.entries {
		idx.sorted = append(idx.sorted, e.Normalized)
	}
	sort.Strings(idx.sorted)

	return idx, nil
}

// Len returns the number of distinct indexed entries.
func (idx *Index) Len() int { return len(idx.entries) }

// Entry returns the entry with the given id.
func (idx *Index) Entry(id int) Entry { return idx.entries[id] }

// Lookup resolves an exactly matching normalized string to its original form.
func (idx *Index) Lookup(normalized string) (string, bool) {
	orig, ok := idx.exact[normalized]
	return orig, ok
}

// VisitPrefix calls fn for every entry whose normalized form starts with
// prefix. Traversal order follows the trie; callers needing a stable order
// sort afterwards.
func (idx *Index) VisitPrefix(prefix string, fn func(Entry)) {
	// the visitor never returns an error
	_ = idx.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		fn(idx.entries[item.(int)])
		return nil
	})
}

// Shortlist returns the ids of entries sharing at least one of the given
// n-grams, in ascending order for deterministic iteration.
func (idx *Index) Shortlist(grams []string) []int {
	seen := make(map[int]struct{})
	for _, g := range grams {
		for _, id := range idx.grams[g] {
			seen[id] = struct{}{}
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ShortEntries returns the ids of entries shorter than GramSize runes,
// the fallback candidate set for queries too short to produce n-grams.
func (idx *Index) ShortEntries() []int { return idx.short }

// SortedNormalized returns all normalized forms in lexical order,
// independent of the input ordering Build saw.
func (idx *Index) SortedNormalized() []string { return idx.sorted }
