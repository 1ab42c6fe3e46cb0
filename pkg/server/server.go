package server

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/vocabserve/internal/logger"
	"github.com/bastiangx/vocabserve/internal/utils"
	"github.com/bastiangx/vocabserve/pkg/config"
	"github.com/bastiangx/vocabserve/pkg/dictionary"
	"github.com/bastiangx/vocabserve/pkg/engine"
	"github.com/bastiangx/vocabserve/pkg/vocab"
)

// Server routes msgpack request frames to the matching engine.
type Server struct {
	engine *engine.Engine
	loader *dictionary.Loader
	cfg    *config.Config
	dec    *msgpack.Decoder
	enc    *msgpack.Encoder
	log    *log.Logger
}

// New creates a Server speaking on stdin/stdout. loader may be nil, which
// disables the "reload" op.
func New(eng *engine.Engine, loader *dictionary.Loader, cfg *config.Config) *Server {
	return NewWithIO(eng, loader, cfg, os.Stdin, os.Stdout)
}

// NewWithIO creates a Server on explicit streams, mainly for tests.
func NewWithIO(eng *engine.Engine, loader *dictionary.Loader, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	return &Server{
		engine: eng,
		loader: loader,
		cfg:    cfg,
		dec:    msgpack.NewDecoder(r),
		enc:    msgpack.NewEncoder(w),
		log:    logger.New("ipc"),
	}
}

// Start announces readiness and serves requests until the input stream
// closes.
func (s *Server) Start() error {
	if err := s.sendStatus(""); err != nil {
		return fmt.Errorf("send ready status: %w", err)
	}
	s.log.Debug("server started, waiting for requests")

	for {
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if err == io.EOF {
				s.log.Debug("input stream closed, shutting down")
				return nil
			}
			s.log.Errorf("Failed to decode request: %v", err)
			if sendErr := s.sendError("", "malformed request frame", KindBadRequest); sendErr != nil {
				return sendErr
			}
			continue
		}
		if err := s.handleRequest(&req); err != nil {
			return err
		}
	}
}

func (s *Server) handleRequest(req *Request) error {
	switch req.Op {
	case "search":
		return s.handleSearch(req)
	case "rebuild":
		return s.handleRebuild(req)
	case "reload":
		return s.handleReload(req)
	case "hash", "status":
		return s.sendStatus(req.ID)
	default:
		return s.sendError(req.ID, fmt.Sprintf("unknown op %q", req.Op), KindBadRequest)
	}
}

func (s *Server) handleSearch(req *Request) error {
	start := time.Now()

	vt, err := engine.ParseVocabularyType(req.Vocabulary)
	if err != nil {
		return s.sendSearchError(req.ID, err, start)
	}
	if s.cfg.Server.MaxQueryLen > 0 && len(req.Query) > s.cfg.Server.MaxQueryLen {
		return s.enc.Encode(&SearchResponse{
			ID:        req.ID,
			Error:     fmt.Sprintf("query longer than %d bytes", s.cfg.Server.MaxQueryLen),
			ErrorKind: KindBadRequest,
			TimeTaken: time.Since(start).Microseconds(),
		})
	}
	if s.cfg.Server.EnableFilter && !utils.IsValidQuery(req.Query) {
		// filtered queries get an empty OK response, not an error
		return s.enc.Encode(&SearchResponse{
			ID:        req.ID,
			OK:        true,
			Matches:   []Match{},
			TimeTaken: time.Since(start).Microseconds(),
		})
	}

	limit := req.Limit
	if s.cfg.Server.MaxLimit > 0 && limit > s.cfg.Server.MaxLimit {
		limit = s.cfg.Server.MaxLimit
	}

	result, err := s.engine.FindMatches(req.Query, vt, limit, req.MinScore)
	if err != nil {
		return s.sendSearchError(req.ID, err, start)
	}

	matches := make([]Match, len(result.Matches))
	for i, m := range result.Matches {
		matches[i] = Match{Value: m.Value, Score: m.Score, Strategy: m.Strategy}
	}
	return s.enc.Encode(&SearchResponse{
		ID:        req.ID,
		OK:        true,
		Matches:   matches,
		Count:     len(matches),
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) handleRebuild(req *Request) error {
	start := time.Now()
	result, err := s.engine.Rebuild(req.Predicates, req.Contexts)
	if err != nil {
		return s.enc.Encode(&RebuildResponse{
			ID:        req.ID,
			Error:     err.Error(),
			ErrorKind: errorKind(err),
			TimeTaken: time.Since(start).Microseconds(),
		})
	}
	return s.enc.Encode(&RebuildResponse{
		ID:             req.ID,
		OK:             true,
		PredicateCount: result.PredicateCount,
		ContextCount:   result.ContextCount,
		Hash:           result.ContentHash,
		TimeTaken:      time.Since(start).Microseconds(),
	})
}

func (s *Server) handleReload(req *Request) error {
	start := time.Now()
	if s.loader == nil {
		return s.enc.Encode(&RebuildResponse{
			ID:        req.ID,
			Error:     "no data directory configured",
			ErrorKind: KindBadRequest,
			TimeTaken: time.Since(start).Microseconds(),
		})
	}
	predicates, contexts, err := s.loader.LoadVocabulary()
	if err == nil {
		var result *engine.RebuildResult
		result, err = s.engine.Rebuild(predicates, contexts)
		if err == nil {
			return s.enc.Encode(&RebuildResponse{
				ID:             req.ID,
				OK:             true,
				PredicateCount: result.PredicateCount,
				ContextCount:   result.ContextCount,
				Hash:           result.ContentHash,
				TimeTaken:      time.Since(start).Microseconds(),
			})
		}
	}
	return s.enc.Encode(&RebuildResponse{
		ID:        req.ID,
		Error:     err.Error(),
		ErrorKind: errorKind(err),
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) sendStatus(id string) error {
	preds, ctxs := s.engine.Counts()
	return s.enc.Encode(&StatusResponse{
		ID:             id,
		Ready:          s.engine.Ready(),
		Hash:           s.engine.ContentHash(),
		PredicateCount: preds,
		ContextCount:   ctxs,
	})
}

func (s *Server) sendSearchError(id string, err error, start time.Time) error {
	return s.enc.Encode(&SearchResponse{
		ID:        id,
		Error:     err.Error(),
		ErrorKind: errorKind(err),
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) sendError(id, msg, kind string) error {
	return s.enc.Encode(&ErrorResponse{ID: id, Error: msg, ErrorKind: kind})
}

// errorKind maps engine errors to wire error kinds.
func errorKind(err error) string {
	switch {
	case errors.Is(err, vocab.ErrEmptyVocabulary):
		return KindEmptyVocabulary
	case errors.Is(err, engine.ErrNotReady):
		return KindNotReady
	case errors.Is(err, engine.ErrInvalidVocabularyType):
		return KindInvalidVocabularyType
	default:
		return KindInternal
	}
}
