package engine

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/bastiangx/vocabserve/pkg/match"
)

// resultCache memoizes ranked results for repeated searches. Keys embed the
// snapshot hash and the whole cache is dropped on publish, so a hit can
// never mix index generations. Purely an optimization: cached and fresh
// results are identical.
type resultCache struct {
	mu          sync.Mutex
	results     map[string][]match.Candidate
	accessTime  map[string]int64
	accessCount int64
	maxEntries  int
}

func newResultCache(maxEntries int) *resultCache {
	return &resultCache{
		results:    make(map[string][]match.Candidate, maxEntries),
		accessTime: make(map[string]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

// cacheKey embeds minScore losslessly: thresholds that differ at all must
// never share an entry.
func cacheKey(hash string, vt VocabularyType, query string, limit int, minScore float64) string {
	return fmt.Sprintf("%s\x00%d\x00%s\x00%d\x00%s", hash, int(vt), query, limit,
		strconv.FormatFloat(minScore, 'g', -1, 64))
}

func (rc *resultCache) get(key string) ([]match.Candidate, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	cached, ok := rc.results[key]
	if !ok {
		return nil, false
	}
	rc.accessCount++
	rc.accessTime[key] = rc.accessCount

	// callers may truncate or reslice their copy
	out := make([]match.Candidate, len(cached))
	copy(out, cached)
	return out, true
}

func (rc *resultCache) put(key string, matches []match.Candidate) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if _, exists := rc.results[key]; !exists && len(rc.results) >= rc.maxEntries {
		rc.evictLRU()
	}

	stored := make([]match.Candidate, len(matches))
	copy(stored, matches)
	rc.results[key] = stored
	rc.accessCount++
	rc.accessTime[key] = rc.accessCount
}

func (rc *resultCache) clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.results = make(map[string][]match.Candidate, rc.maxEntries)
	rc.accessTime = make(map[string]int64, rc.maxEntries)
}

func (rc *resultCache) len() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.results)
}

func (rc *resultCache) evictLRU() {
	var oldestKey string
	oldestTime := int64(1<<63 - 1)

	for key, accessTime := range rc.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldestKey = key
		}
	}
	if oldestKey != "" {
		delete(rc.results, oldestKey)
		delete(rc.accessTime, oldestKey)
	}
}
