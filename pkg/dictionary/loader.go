// Package dictionary loads vocabulary term files from disk.
//
// Each vocabulary lives in its own plain-text file, one term per line.
// Blank lines and lines starting with '#' are skipped so the files can
// carry comments.
package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

const (
	// PredicatesFile is the filename for the predicate vocabulary.
	PredicatesFile = "predicates.txt"
	// ContextsFile is the filename for the context vocabulary.
	ContextsFile = "contexts.txt"
)

// Loader reads vocabulary files from a data directory.
type Loader struct {
	dir        string
	maxEntries int
}

// NewLoader creates a Loader for the given directory. maxEntries caps how
// many terms are read per file; <= 0 means no cap.
func NewLoader(dir string, maxEntries int) *Loader {
	return &Loader{dir: dir, maxEntries: maxEntries}
}

// Dir returns the data directory this loader reads from.
func (l *Loader) Dir() string {
	return l.dir
}

// HasFiles reports whether at least one vocabulary file is present.
func (l *Loader) HasFiles() bool {
	for _, name := range []string{PredicatesFile, ContextsFile} {
		if _, err := os.Stat(filepath.Join(l.dir, name)); err == nil {
			return true
		}
	}
	return false
}

// LoadVocabulary reads both vocabulary files. A missing file yields an
// empty slice rather than an error, so callers decide whether an empty
// vocabulary is acceptable.
func (l *Loader) LoadVocabulary() (predicates, contexts []string, err error) {
	predicates, err = l.loadFile(PredicatesFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", PredicatesFile, err)
	}
	contexts, err = l.loadFile(ContextsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", ContextsFile, err)
	}
	log.Debug("loaded vocabulary files",
		"dir", l.dir, "predicates", len(predicates), "contexts", len(contexts))
	return predicates, contexts, nil
}

func (l *Loader) loadFile(name string) ([]string, error) {
	path := filepath.Join(l.dir, name)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var terms []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		if l.maxEntries > 0 && len(terms) >= l.maxEntries {
			log.Warnf("%s has more than %d entries, ignoring the rest", name, l.maxEntries)
			break
		}
		terms = append(terms, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return terms, nil
}
