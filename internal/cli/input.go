// Package cli implements the interactive debug prompt for querying the
// matching engine from a terminal. It is a development aid; production
// clients speak the msgpack protocol instead.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/vocabserve/internal/utils"
	"github.com/bastiangx/vocabserve/pkg/engine"
)

// InputHandler reads queries line by line and prints ranked matches.
type InputHandler struct {
	engine       *engine.Engine
	vocab        engine.VocabularyType
	limit        int
	minScore     float64
	noFilter     bool
	requestCount int
}

// NewInputHandler creates a handler with the given query defaults.
func NewInputHandler(eng *engine.Engine, vocab engine.VocabularyType, limit int, minScore float64, noFilter bool) *InputHandler {
	return &InputHandler{
		engine:   eng,
		vocab:    vocab,
		limit:    limit,
		minScore: minScore,
		noFilter: noFilter,
	}
}

// Start runs the prompt loop until EOF or "exit".
func (h *InputHandler) Start() {
	fmt.Println("Interactive mode. Type a query, ':p' / ':c' to switch vocabulary, ':hash' for the content hash, 'exit' to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("[%s]> ", h.vocab)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit", ":q":
			return
		case ":p", ":predicates":
			h.vocab = engine.Predicates
			log.Info("switched vocabulary", "vocab", h.vocab)
			continue
		case ":c", ":contexts":
			h.vocab = engine.Contexts
			log.Info("switched vocabulary", "vocab", h.vocab)
			continue
		case ":hash":
			fmt.Printf("  hash: %s\n", h.engine.ContentHash())
			continue
		}
		h.runQuery(line)
	}
}

func (h *InputHandler) runQuery(query string) {
	if !h.noFilter && !utils.IsValidQuery(query) {
		log.Debug("query rejected by input filter", "query", query)
		fmt.Println("  (filtered)")
		return
	}
	h.requestCount++

	result, err := h.engine.FindMatches(query, h.vocab, h.limit, h.minScore)
	if err != nil {
		log.Errorf("search failed: %v", err)
		return
	}
	if len(result.Matches) == 0 {
		fmt.Println("  no matches")
		return
	}
	for _, m := range result.Matches {
		fmt.Printf("  \033[38;5;75m%s\033[0m  %.3f  %s\n", m.Value, m.Score, m.Strategy)
	}
	log.Debug("query served",
		"n", h.requestCount, "matches", len(result.Matches), "took", result.SearchTime)
}
