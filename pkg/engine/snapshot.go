package engine

import (
	"time"

	"github.com/bastiangx/vocabserve/pkg/vocab"
)

// Snapshot is an immutable pairing of both vocabulary indexes with the
// content hash and build time of the rebuild that produced it. A search
// that acquired a snapshot finishes against that same snapshot even if a
// rebuild publishes a newer one mid-flight; the retired generation is
// reclaimed once its last reader returns.
type Snapshot struct {
	predicates *vocab.Index
	contexts   *vocab.Index
	hash       string
	builtAt    time.Time
}

// Index returns the vocabulary index for the given type. Callers validate
// the selector before reaching here.
func (s *Snapshot) Index(vt VocabularyType) *vocab.Index {
	if vt == Contexts {
		return s.contexts
	}
	return s.predicates
}

// Hash returns the order-independent content hash of both vocabularies.
func (s *Snapshot) Hash() string { return s.hash }

// BuiltAt returns when the snapshot was published.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }
