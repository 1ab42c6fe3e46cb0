// Package match implements the exact, prefix and fuzzy matching strategies
// and the ranking rules that merge their candidates into one ordered list.
package match

import (
	"unicode/utf8"

	"github.com/hbollon/go-edlib"

	"github.com/bastiangx/vocabserve/pkg/vocab"
)

// Strategy tags, in preference order for deduplication.
const (
	StrategyExact  = "exact"
	StrategyPrefix = "prefix"
	StrategyFuzzy  = "fuzzy"
)

// Candidate is a single (value, score, strategy) match produced per search.
// Scores are in [0,1]. Transient, never persisted.
type Candidate struct {
	Value    string
	Score    float64
	Strategy string
}

// Exact emits a 1.0-scored candidate when the normalized query is itself a
// vocabulary entry.
func Exact(idx *vocab.Index, query string) []Candidate {
	orig, ok := idx.Lookup(query)
	if !ok {
		return nil
	}
	return []Candidate{{Value: orig, Score: 1.0, Strategy: StrategyExact}}
}

// Prefix emits candidates for every entry whose normalized form starts with
// the non-empty query. Score is queryRunes/entryRunes, clamped to (0,1] by
// construction, so entries closest in length to the query rank highest; an
// exact-length hit scores 1.0 and degenerates into the exact case.
func Prefix(idx *vocab.Index, query string) []Candidate {
	if query == "" {
		return nil
	}
	qlen := utf8.RuneCountInString(query)
	var out []Candidate
	idx.VisitPrefix(query, func(e vocab.Entry) {
		elen := utf8.RuneCountInString(e.Normalized)
		out = append(out, Candidate{
			Value:    e.Original,
			Score:    float64(qlen) / float64(elen),
			Strategy: StrategyPrefix,
		})
	})
	return out
}

// Fuzzy shortlists entries sharing at least one n-gram with the query, then
// scores each by normalized Levenshtein similarity, (maxLen-dist)/maxLen over
// rune lengths with go-edlib's distance. Computed in float64 from the integer
// distance so that equal ratios across strategies compare equal and the
// ranker's strategy preference can break the tie. Queries too short to
// produce n-grams skip the inverted index and compare against the short-entry
// list only, so an empty or one-rune query can at most surface very short
// entries. Entries that exact/prefix also found may reappear here; the
// ranker resolves duplicates.
func Fuzzy(idx *vocab.Index, query string) []Candidate {
	grams := vocab.NGrams(query)
	var ids []int
	if len(grams) > 0 {
		ids = idx.Shortlist(grams)
	} else {
		ids = idx.ShortEntries()
	}

	qlen := utf8.RuneCountInString(query)
	out := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		e := idx.Entry(id)
		maxLen := utf8.RuneCountInString(e.Normalized)
		if qlen > maxLen {
			maxLen = qlen
		}
		if maxLen == 0 {
			continue
		}
		dist := edlib.LevenshteinDistance(query, e.Normalized)
		out = append(out, Candidate{
			Value:    e.Original,
			Score:    float64(maxLen-dist) / float64(maxLen),
			Strategy: StrategyFuzzy,
		})
	}
	return out
}
