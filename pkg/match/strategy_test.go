package match

import (
	"math"
	"testing"

	"github.com/bastiangx/vocabserve/pkg/vocab"
)

func buildIndex(t *testing.T, raw []string) *vocab.Index {
	t.Helper()
	idx, err := vocab.Build(raw)
	if err != nil {
		t.Fatalf("Build(%v) failed: %v", raw, err)
	}
	return idx
}

func TestExact(t *testing.T) {
	idx := buildIndex(t, []string{"Works_At", "deploy"})

	got := Exact(idx, "works_at")
	if len(got) != 1 {
		t.Fatalf("Exact hit count = %d, want 1", len(got))
	}
	if got[0].Value != "Works_At" || got[0].Score != 1.0 || got[0].Strategy != StrategyExact {
		t.Errorf("Exact = %+v, want original casing, score 1.0, exact strategy", got[0])
	}

	if miss := Exact(idx, "works"); miss != nil {
		t.Errorf("Exact on a prefix should miss, got %+v", miss)
	}
}

func TestPrefixScores(t *testing.T) {
	idx := buildIndex(t, []string{"deploy", "deprecate", "restart"})

	got := Prefix(idx, "depl")
	if len(got) != 1 {
		t.Fatalf("Prefix(depl) count = %d, want 1 (only deploy)", len(got))
	}
	want := 4.0 / 6.0
	if math.Abs(got[0].Score-want) > 1e-9 {
		t.Errorf("Prefix(depl) score = %f, want %f", got[0].Score, want)
	}
	if got[0].Strategy != StrategyPrefix {
		t.Errorf("strategy = %q, want prefix", got[0].Strategy)
	}
}

func TestPrefixFullLengthScoresOne(t *testing.T) {
	idx := buildIndex(t, []string{"deploy"})
	got := Prefix(idx, "deploy")
	if len(got) != 1 || got[0].Score != 1.0 {
		t.Errorf("full-length prefix should score 1.0, got %+v", got)
	}
}

func TestPrefixEmptyQuery(t *testing.T) {
	idx := buildIndex(t, []string{"deploy"})
	if got := Prefix(idx, ""); got != nil {
		t.Errorf("empty query should yield no prefix candidates, got %+v", got)
	}
}

func TestFuzzyTypo(t *testing.T) {
	idx := buildIndex(t, []string{"works_at", "located_in"})

	got := Fuzzy(idx, "wroks_at")
	var hit *Candidate
	for i := range got {
		if got[i].Value == "works_at" {
			hit = &got[i]
		}
		if got[i].Value == "located_in" {
			t.Error("located_in shares no trigram with the query, should not be shortlisted")
		}
	}
	if hit == nil {
		t.Fatal("works_at should be shortlisted via shared trigrams")
	}
	// two substitutions over length 8
	if math.Abs(hit.Score-0.75) > 1e-6 {
		t.Errorf("fuzzy score = %f, want 0.75", hit.Score)
	}
	if hit.Strategy != StrategyFuzzy {
		t.Errorf("strategy = %q, want fuzzy", hit.Strategy)
	}
}

func TestFuzzyShortQueryFallback(t *testing.T) {
	idx := buildIndex(t, []string{"ab", "deploy"})

	// query too short for trigrams compares against short entries only
	got := Fuzzy(idx, "ab")
	if len(got) != 1 {
		t.Fatalf("short query candidates = %d, want 1", len(got))
	}
	if got[0].Value != "ab" || got[0].Score != 1.0 {
		t.Errorf("short query should find the identical short entry at 1.0, got %+v", got[0])
	}
}

func TestFuzzyEmptyQuery(t *testing.T) {
	idx := buildIndex(t, []string{"ab", "deploy"})

	// empty query reaches only the short-entry list, scored 0
	got := Fuzzy(idx, "")
	if len(got) != 1 {
		t.Fatalf("empty query candidates = %d, want 1 (short entries only)", len(got))
	}
	if got[0].Value != "ab" || got[0].Score != 0 {
		t.Errorf("empty query should score short entries 0, got %+v", got[0])
	}
}

func TestFuzzyNoSharedGrams(t *testing.T) {
	idx := buildIndex(t, []string{"deploy"})
	if got := Fuzzy(idx, "xyzzy"); len(got) != 0 {
		t.Errorf("no shared trigrams should yield no candidates, got %+v", got)
	}
}
