// Package engine owns the published vocabulary snapshot and resolves
// free-text queries against it through the matching strategies.
//
// Searches are lock-free readers: each one loads the current snapshot
// pointer exactly once and runs entirely against that generation. Rebuilds
// construct the next snapshot off to the side and publish it with a single
// atomic store, so in-flight searches keep their generation and new ones
// pick up the replacement, never a partially built index.
package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/vocabserve/pkg/match"
	"github.com/bastiangx/vocabserve/pkg/vocab"
)

// VocabularyType selects which of the two vocabularies a search runs
// against. The two indexes are rebuilt together but queried separately.
type VocabularyType int

const (
	Predicates VocabularyType = iota
	Contexts
)

func (t VocabularyType) String() string {
	switch t {
	case Predicates:
		return "predicates"
	case Contexts:
		return "contexts"
	default:
		return fmt.Sprintf("vocabulary(%d)", int(t))
	}
}

// ParseVocabularyType maps a wire selector to its enum value.
func ParseVocabularyType(s string) (VocabularyType, error) {
	switch s {
	case "predicates":
		return Predicates, nil
	case "contexts":
		return Contexts, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidVocabularyType, s)
	}
}

var (
	// ErrNotReady is returned by searches before any successful rebuild.
	ErrNotReady = errors.New("engine: no vocabulary index published")

	// ErrInvalidVocabularyType flags an out-of-range vocabulary selector,
	// a programming error at the call site.
	ErrInvalidVocabularyType = errors.New("engine: invalid vocabulary type")
)

// RebuildResult reports a successful index rebuild.
type RebuildResult struct {
	PredicateCount int
	ContextCount   int
	BuildTime      time.Duration
	ContentHash    string
}

// SearchResult carries the ranked matches of one search and its wall-clock
// cost.
type SearchResult struct {
	Matches    []match.Candidate
	SearchTime time.Duration
}

// Options tune engine defaults. Zero values select the package defaults of
// pkg/match; CacheSize 0 disables the result cache.
type Options struct {
	MinScore   float64
	MaxResults int
	CacheSize  int
}

// Engine is one instance of the matching engine: the published snapshot
// reference plus the configured search defaults. Rebuild must not be
// invoked concurrently with itself (caller contract); the internal mutex
// only keeps an out-of-contract caller from corrupting state. Searches may
// run concurrently with each other and with a rebuild at any time.
type Engine struct {
	current    atomic.Pointer[Snapshot]
	rebuildMu  sync.Mutex
	cache      *resultCache
	minScore   float64
	maxResults int
}

// New returns a not-ready engine: searches fail with ErrNotReady until the
// first successful Rebuild.
func New(opts Options) *Engine {
	e := &Engine{
		minScore:   opts.MinScore,
		maxResults: opts.MaxResults,
	}
	if e.minScore <= 0 {
		e.minScore = match.DefaultMinScore
	}
	if e.maxResults <= 0 {
		e.maxResults = match.DefaultLimit
	}
	if opts.CacheSize > 0 {
		e.cache = newResultCache(opts.CacheSize)
	}
	return e
}

// Rebuild indexes both vocabularies and atomically publishes the result as
// the new current snapshot. Both indexes are built before anything is
// published: on any failure the previously published snapshot (or the
// not-ready state) is left untouched and the two vocabularies can never end
// up in different generations. Fails with vocab.ErrEmptyVocabulary when
// either input set has no usable entries.
func (e *Engine) Rebuild(predicates, contexts []string) (res *RebuildResult, err error) {
	e.rebuildMu.Lock()
	defer e.rebuildMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("engine: internal error during rebuild: %v", r)
		}
	}()

	start := time.Now()

	pidx, err := vocab.Build(predicates)
	if err != nil {
		return nil, fmt.Errorf("predicates: %w", err)
	}
	cidx, err := vocab.Build(contexts)
	if err != nil {
		return nil, fmt.Errorf("contexts: %w", err)
	}

	snap := &Snapshot{
		predicates: pidx,
		contexts:   cidx,
		hash:       vocab.ContentHash(pidx, cidx),
		builtAt:    time.Now(),
	}

	e.current.Store(snap)
	if e.cache != nil {
		e.cache.clear()
	}

	elapsed := time.Since(start)
	log.Debug("rebuilt vocabulary index",
		"predicates", pidx.Len(),
		"contexts", cidx.Len(),
		"hash", snap.hash,
		"time_us", elapsed.Microseconds())

	return &RebuildResult{
		PredicateCount: pidx.Len(),
		ContextCount:   cidx.Len(),
		BuildTime:      elapsed,
		ContentHash:    snap.hash,
	}, nil
}

// FindMatches resolves query against one vocabulary of the current
// snapshot. limit <= 0 and minScore <= 0 select the configured defaults.
// Returns ErrNotReady before the first successful rebuild and
// ErrInvalidVocabularyType for an out-of-range selector; a well-formed
// query that matches nothing above the threshold yields an empty result,
// not an error.
func (e *Engine) FindMatches(query string, vt VocabularyType, limit int, minScore float64) (res *SearchResult, err error) {
	if vt != Predicates && vt != Contexts {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVocabularyType, int(vt))
	}
	snap := e.current.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	if limit <= 0 {
		limit = e.maxResults
	}
	if minScore <= 0 {
		minScore = e.minScore
	}

	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("engine: internal error during search: %v", r)
		}
	}()

	start := time.Now()
	normalized := vocab.Normalize(query)

	var key string
	if e.cache != nil {
		key = cacheKey(snap.hash, vt, normalized, limit, minScore)
		if hit, ok := e.cache.get(key); ok {
			return &SearchResult{Matches: hit, SearchTime: time.Since(start)}, nil
		}
	}

	idx := snap.Index(vt)
	candidates := match.Exact(idx, normalized)
	candidates = append(candidates, match.Prefix(idx, normalized)...)
	candidates = append(candidates, match.Fuzzy(idx, normalized)...)

	ranked := match.Rank(candidates, minScore, limit)
	if e.cache != nil {
		e.cache.put(key, ranked)
	}

	elapsed := time.Since(start)
	if len(ranked) > 0 {
		log.Debug("search",
			"query", query,
			"vocab", vt.String(),
			"matches", len(ranked),
			"top", ranked[0].Value,
			"strategy", ranked[0].Strategy,
			"time_us", elapsed.Microseconds())
	}

	return &SearchResult{Matches: ranked, SearchTime: elapsed}, nil
}

// Ready reports whether a snapshot has ever been published.
func (e *Engine) Ready() bool {
	return e.current.Load() != nil
}

// ContentHash returns the current snapshot's hash, or the empty string when
// the engine is not ready.
func (e *Engine) ContentHash() string {
	snap := e.current.Load()
	if snap == nil {
		return ""
	}
	return snap.hash
}

// Counts returns the entry counts of both vocabularies, zero when not ready.
func (e *Engine) Counts() (predicates, contexts int) {
	snap := e.current.Load()
	if snap == nil {
		return 0, 0
	}
	return snap.predicates.Len(), snap.contexts.Len()
}
