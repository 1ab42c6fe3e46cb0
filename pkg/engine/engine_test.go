package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastiangx/vocabserve/pkg/match"
	"github.com/bastiangx/vocabserve/pkg/vocab"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng := New(Options{})
	_, err := eng.Rebuild(
		[]string{"works_at", "located_in", "reports_to", "deploy", "destroy", "deprecate"},
		[]string{"production", "staging", "development"},
	)
	require.NoError(t, err)
	return eng
}

func TestSearchBeforeRebuild(t *testing.T) {
	eng := New(Options{})
	assert.False(t, eng.Ready())
	assert.Empty(t, eng.ContentHash())

	_, err := eng.FindMatches("deploy", Predicates, 0, 0)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestInvalidVocabularyType(t *testing.T) {
	eng := newTestEngine(t)
	_, err := eng.FindMatches("deploy", VocabularyType(42), 0, 0)
	assert.ErrorIs(t, err, ErrInvalidVocabularyType)
}

func TestParseVocabularyType(t *testing.T) {
	vt, err := ParseVocabularyType("predicates")
	require.NoError(t, err)
	assert.Equal(t, Predicates, vt)

	vt, err = ParseVocabularyType("contexts")
	require.NoError(t, err)
	assert.Equal(t, Contexts, vt)

	_, err = ParseVocabularyType("verbs")
	assert.ErrorIs(t, err, ErrInvalidVocabularyType)
}

func TestRebuildResult(t *testing.T) {
	eng := New(Options{})
	result, err := eng.Rebuild(
		[]string{"works_at", "Works_At", "located_in"},
		[]string{"production"},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, result.PredicateCount, "duplicates collapse after normalization")
	assert.Equal(t, 1, result.ContextCount)
	assert.Len(t, result.ContentHash, 16)
	assert.True(t, eng.Ready())
	assert.Equal(t, result.ContentHash, eng.ContentHash())
}

func TestRebuildEmptyPredicatesKeepsPriorState(t *testing.T) {
	eng := newTestEngine(t)
	priorHash := eng.ContentHash()

	_, err := eng.Rebuild(nil, []string{"production"})
	require.ErrorIs(t, err, vocab.ErrEmptyVocabulary)
	assert.Contains(t, err.Error(), "predicates")

	// failed rebuild must not disturb the published snapshot
	assert.True(t, eng.Ready())
	assert.Equal(t, priorHash, eng.ContentHash())

	result, err := eng.FindMatches("deploy", Predicates, 0, 0)
	require.NoError(t, err)
	require.NotEmpty(t, result.Matches)
	assert.Equal(t, "deploy", result.Matches[0].Value)
}

func TestRebuildHashIdempotent(t *testing.T) {
	eng := newTestEngine(t)
	h1 := eng.ContentHash()

	_, err := eng.Rebuild(
		[]string{"deprecate", "destroy", "deploy", "reports_to", "located_in", "works_at"},
		[]string{"development", "production", "staging"},
	)
	require.NoError(t, err)
	assert.Equal(t, h1, eng.ContentHash(), "same content in a different order keeps the hash")

	_, err = eng.Rebuild([]string{"works_at"}, []string{"production"})
	require.NoError(t, err)
	assert.NotEqual(t, h1, eng.ContentHash(), "different content changes the hash")
}

func TestFindMatchesPrefixScenario(t *testing.T) {
	eng := newTestEngine(t)

	result, err := eng.FindMatches("depl", Predicates, 0, 0)
	require.NoError(t, err)
	require.Len(t, result.Matches, 1, "destroy shares no trigram, deprecate falls below the threshold")

	m := result.Matches[0]
	assert.Equal(t, "deploy", m.Value)
	assert.Equal(t, match.StrategyPrefix, m.Strategy)
	assert.InDelta(t, 4.0/6.0, m.Score, 1e-9)
}

func TestFindMatchesExactWins(t *testing.T) {
	eng := New(Options{})
	_, err := eng.Rebuild([]string{"Works_At", "works_at_home"}, []string{"production"})
	require.NoError(t, err)

	result, err := eng.FindMatches("WORKS_AT", Predicates, 0, 0)
	require.NoError(t, err)
	require.NotEmpty(t, result.Matches)

	top := result.Matches[0]
	assert.Equal(t, "Works_At", top.Value, "match reports the original casing")
	assert.Equal(t, match.StrategyExact, top.Strategy, "exact beats the full-length prefix duplicate")
	assert.Equal(t, 1.0, top.Score)
}

func TestFindMatchesFuzzyTypo(t *testing.T) {
	eng := newTestEngine(t)

	result, err := eng.FindMatches("wroks_at", Predicates, 0, 0)
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)

	m := result.Matches[0]
	assert.Equal(t, "works_at", m.Value)
	assert.Equal(t, match.StrategyFuzzy, m.Strategy)
	assert.InDelta(t, 0.75, m.Score, 1e-6)
}

func TestFindMatchesEmptyQuery(t *testing.T) {
	eng := New(Options{})
	_, err := eng.Rebuild([]string{"ab", "deploy", "destroy"}, []string{"x", "production"})
	require.NoError(t, err)

	// short entries are the only fuzzy candidates for an empty query; they
	// score 0 and fall below the threshold, so the search succeeds empty
	for _, vt := range []VocabularyType{Predicates, Contexts} {
		result, err := eng.FindMatches("", vt, 0, 0)
		require.NoError(t, err, "empty query on %s", vt)
		assert.Empty(t, result.Matches)
	}
}

func TestFindMatchesNoMatchesIsNotAnError(t *testing.T) {
	eng := newTestEngine(t)

	result, err := eng.FindMatches("zzzzzz", Predicates, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, result.Matches)
}

func TestFindMatchesVocabulariesAreSeparate(t *testing.T) {
	eng := newTestEngine(t)

	result, err := eng.FindMatches("production", Contexts, 0, 0)
	require.NoError(t, err)
	require.NotEmpty(t, result.Matches)
	assert.Equal(t, "production", result.Matches[0].Value)

	result, err = eng.FindMatches("production", Predicates, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, result.Matches, "context terms must not leak into predicate searches")
}

func TestFindMatchesDeterministic(t *testing.T) {
	eng := newTestEngine(t)

	first, err := eng.FindMatches("de", Predicates, 0, 0.1)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := eng.FindMatches("de", Predicates, 0, 0.1)
		require.NoError(t, err)
		assert.Equal(t, first.Matches, again.Matches)
	}
}

func TestFindMatchesLimitTruncates(t *testing.T) {
	eng := newTestEngine(t)

	result, err := eng.FindMatches("de", Predicates, 1, 0.1)
	require.NoError(t, err)
	assert.Len(t, result.Matches, 1)
}

func TestCounts(t *testing.T) {
	eng := New(Options{})
	preds, ctxs := eng.Counts()
	assert.Zero(t, preds)
	assert.Zero(t, ctxs)

	eng = newTestEngine(t)
	preds, ctxs = eng.Counts()
	assert.Equal(t, 6, preds)
	assert.Equal(t, 3, ctxs)
}

func TestResultCache(t *testing.T) {
	eng := New(Options{CacheSize: 8})
	_, err := eng.Rebuild([]string{"deploy", "destroy"}, []string{"production"})
	require.NoError(t, err)

	first, err := eng.FindMatches("depl", Predicates, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, eng.cache.len())

	second, err := eng.FindMatches("depl", Predicates, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, first.Matches, second.Matches)
	assert.Equal(t, 1, eng.cache.len(), "repeat query hits the cached entry")

	// publish invalidates everything
	_, err = eng.Rebuild([]string{"deploy"}, []string{"production"})
	require.NoError(t, err)
	assert.Zero(t, eng.cache.len())
}

func TestCacheKeyDistinguishesCloseThresholds(t *testing.T) {
	a := cacheKey("h1", Predicates, "depl", 10, 0.6)
	b := cacheKey("h1", Predicates, "depl", 10, 0.6000001)
	assert.NotEqual(t, a, b, "thresholds differing below 1e-4 must not alias")

	c := cacheKey("h1", Predicates, "depl", 10, 0.6)
	assert.Equal(t, a, c)
}

func TestResultCacheEviction(t *testing.T) {
	rc := newResultCache(2)
	rc.put("a", []match.Candidate{{Value: "a"}})
	rc.put("b", []match.Candidate{{Value: "b"}})
	_, ok := rc.get("a") // refresh "a" so "b" is the LRU victim
	require.True(t, ok)

	rc.put("c", []match.Candidate{{Value: "c"}})
	assert.Equal(t, 2, rc.len())
	_, ok = rc.get("b")
	assert.False(t, ok)
	_, ok = rc.get("a")
	assert.True(t, ok)
}

func TestSearchDuringRebuild(t *testing.T) {
	eng := New(Options{})
	_, err := eng.Rebuild([]string{"alpha_one"}, []string{"production"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			terms := []string{"alpha_one"}
			if i%2 == 1 {
				terms = []string{"alpha_two"}
			}
			if _, err := eng.Rebuild(terms, []string{"production"}); err != nil {
				t.Errorf("rebuild failed: %v", err)
				break
			}
		}
		close(stop)
	}()

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				result, err := eng.FindMatches("alpha_one", Predicates, 0, 0.1)
				if err != nil {
					t.Errorf("search failed mid-rebuild: %v", err)
					return
				}
				// one generation per search: never both terms at once
				if len(result.Matches) > 1 {
					t.Errorf("matches span generations: %+v", result.Matches)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestOptionsDefaults(t *testing.T) {
	eng := New(Options{})
	assert.InDelta(t, match.DefaultMinScore, eng.minScore, 1e-9)
	assert.Equal(t, match.DefaultLimit, eng.maxResults)
	assert.Nil(t, eng.cache)

	eng = New(Options{MinScore: 0.4, MaxResults: 5, CacheSize: 16})
	assert.InDelta(t, 0.4, eng.minScore, 1e-9)
	assert.Equal(t, 5, eng.maxResults)
	assert.NotNil(t, eng.cache)
}

func TestVocabularyTypeString(t *testing.T) {
	assert.Equal(t, "predicates", Predicates.String())
	assert.Equal(t, "contexts", Contexts.String())
	assert.Equal(t, "vocabulary(42)", VocabularyType(42).String())
}

func TestSnapshotIndexSelection(t *testing.T) {
	eng := newTestEngine(t)
	snap := eng.current.Load()
	require.NotNil(t, snap)
	assert.Equal(t, 6, snap.Index(Predicates).Len())
	assert.Equal(t, 3, snap.Index(Contexts).Len())
	assert.NotEmpty(t, snap.Hash())
	assert.False(t, snap.BuiltAt().IsZero())
}
