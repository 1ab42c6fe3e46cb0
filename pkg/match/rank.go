package match

import "sort"

// Defaults applied when callers pass the zero sentinel. A limit of 0 means
// "use the default", never "return nothing".
const (
	DefaultMinScore = 0.6
	DefaultLimit    = 20
)

func strategyRank(s string) int {
	switch s {
	case StrategyExact:
		return 0
	case StrategyPrefix:
		return 1
	default:
		return 2
	}
}

// Rank merges candidates from all strategies: one candidate per value (the
// best-scoring wins, ties prefer exact over prefix over fuzzy), scores below
// minScore dropped, ordered score-descending with lexical value order and
// then strategy preference as tie-breaks, truncated to limit.
// minScore <= 0 and limit <= 0 select the defaults.
func Rank(candidates []Candidate, minScore float64, limit int) []Candidate {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	best := make(map[string]Candidate, len(candidates))
	for _, c := range candidates {
		cur, ok := best[c.Value]
		if !ok || c.Score > cur.Score ||
			(c.Score == cur.Score && strategyRank(c.Strategy) < strategyRank(cur.Strategy)) {
			best[c.Value] = c
		}
	}

	out := make([]Candidate, 0, len(best))
	for _, c := range best {
		if c.Score >= minScore {
			out = append(out, c)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Value != out[j].Value {
			return out[i].Value < out[j].Value
		}
		return strategyRank(out[i].Strategy) < strategyRank(out[j].Strategy)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
