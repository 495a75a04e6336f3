package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wildserve/pkg/config"
	"github.com/bastiangx/wildserve/pkg/index"
	"github.com/bastiangx/wildserve/pkg/query"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for wildcard queries
type Server struct {
	index   *index.Index
	planner *query.Planner

	maxLimit     int
	maxPattern   int
	defaultLimit int
	sorted       bool

	requestCount int
}

// NewServer creates a query server over a frozen index.
func NewServer(idx *index.Index, planner *query.Planner, cfg *config.Config) *Server {
	return &Server{
		index:        idx,
		planner:      planner,
		maxLimit:     cfg.Server.MaxLimit,
		maxPattern:   cfg.Server.MaxPattern,
		defaultLimit: cfg.Query.MaxResults,
		sorted:       cfg.Query.Sorted,
	}
}

// Start serves requests from stdin, answering on stdout.
func (s *Server) Start() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads msgpack requests from r until EOF and answers on w.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	log.Debug("Starting Server.")
	dec := msgpack.NewDecoder(bufio.NewReader(r))
	out := bufio.NewWriter(w)
	enc := msgpack.NewEncoder(out)

	send := func(response any) error {
		if err := enc.Encode(response); err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
		return out.Flush()
	}

	if err := send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		raw, err := dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("Input closed after %d requests", s.requestCount)
				return nil
			}
			log.Errorf("Reading request: %v", err)
			return err
		}
		s.requestCount++
		if err := send(s.handle(raw)); err != nil {
			log.Errorf("Writing response: %v", err)
			return err
		}
	}
}

// handle decodes one raw message and builds its response.
func (s *Server) handle(raw msgpack.RawMessage) any {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		log.Warnf("Malformed request: %v", err)
		return ErrorResponse{Error: "malformed request", Code: CodeBadRequest}
	}

	switch req.Action {
	case "", ActionQuery:
		return s.handleQuery(req)
	case ActionRecognize:
		return RecognizeResponse{ID: req.ID, Pattern: req.Pattern, OK: s.index.Recognize(req.Pattern)}
	case ActionStats:
		return s.handleStats(req)
	}
	return ErrorResponse{ID: req.ID, Error: fmt.Sprintf("unknown action: %s", req.Action), Code: CodeUnknownAction}
}

func (s *Server) handleQuery(req Request) any {
	if s.maxPattern > 0 && utf8.RuneCountInString(req.Pattern) > s.maxPattern {
		log.Debugf("Pattern too long in request %s", req.ID)
		return ErrorResponse{
			ID:    req.ID,
			Error: fmt.Sprintf("pattern exceeds maximum length of %d characters", s.maxPattern),
			Code:  CodePatternTooLarge,
		}
	}

	start := time.Now()
	plan, err := s.planner.Plan(req.Pattern)
	if err != nil {
		return ErrorResponse{ID: req.ID, Error: err.Error(), Code: CodeBadRequest}
	}
	log.Debugf("Request %s: %s query driven by the %s trie", req.ID, plan.Kind, plan.Drive)

	words, truncated := query.Gather(s.planner.Run(plan), s.limit(req.Limit), s.sortedFor(req))
	elapsed := time.Since(start)

	if words == nil {
		words = []string{}
	}
	return QueryResponse{
		ID:        req.ID,
		Words:     words,
		Count:     len(words),
		Truncated: truncated,
		TimeTaken: elapsed.Microseconds(),
	}
}

// limit resolves the effective result cap of a request: the request's own
// limit, else the configured default, never above the server maximum.
func (s *Server) limit(requested int) int {
	limit := requested
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if s.maxLimit > 0 && (limit <= 0 || limit > s.maxLimit) {
		limit = s.maxLimit
	}
	return limit
}

// sortedFor resolves whether a request wants sorted output.
func (s *Server) sortedFor(req Request) bool {
	if req.Sorted != nil {
		return *req.Sorted
	}
	return s.sorted
}

func (s *Server) handleStats(req Request) StatsResponse {
	stats := s.index.Stats()
	return StatsResponse{
		ID:          req.ID,
		Words:       stats.Words,
		Backend:     string(stats.Kind),
		ForwardHeap: stats.ForwardHeap,
		ReverseHeap: stats.ReverseHeap,
	}
}
