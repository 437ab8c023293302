package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmcdole/marquee/internal/domain"
)

// PageRequest identifies one catalog fetch issued by a SearchSession
type PageRequest struct {
	Keyword    string
	Page       int
	Generation uint64 // Search that issued the request
}

// PageResult is the outcome of a PageRequest
type PageResult struct {
	Request PageRequest
	Page    domain.EventPage
	Err     error
}

// SearchState is a read-only snapshot of a session
type SearchState struct {
	Keyword    string
	Page       int // Last page applied, -1 before the first page arrives
	Results    []domain.Event
	HasMore    bool
	InFlight   bool
	Failed     bool
	LastErr    error
	Generation uint64
}

// SearchSession is the search and pagination state machine.
//
// It is not safe for concurrent use: the owner (the TUI update loop)
// mutates it, while Fetch runs anywhere since it touches no state.
type SearchSession struct {
	repo           domain.CatalogRepository
	logger         *slog.Logger
	defaultKeyword string
	dedupe         bool

	keyword    string
	page       int
	results    []domain.Event
	seen       map[string]bool
	hasMore    bool
	inFlight   bool
	failed     bool
	lastErr    error
	generation uint64
	disposed   bool
}

// SearchOptions configures a SearchSession
type SearchOptions struct {
	DefaultKeyword string // Used by Refresh before any keyword was entered
	Dedupe         bool   // Drop events already present in the session
}

// NewSearchSession creates an idle session
func NewSearchSession(repo domain.CatalogRepository, opts SearchOptions, logger *slog.Logger) *SearchSession {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchSession{
		repo:           repo,
		logger:         logger,
		defaultKeyword: strings.TrimSpace(opts.DefaultKeyword),
		dedupe:         opts.Dedupe,
		page:           -1,
		seen:           make(map[string]bool),
	}
}

// Search starts a new search for keyword. ok is false when the keyword is
// blank, a fetch is already in flight, or the session is disposed.
func (s *SearchSession) Search(keyword string) (PageRequest, bool) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || s.inFlight || s.disposed {
		return PageRequest{}, false
	}

	s.generation++
	s.keyword = keyword
	s.page = -1
	s.results = nil
	s.seen = make(map[string]bool)
	s.hasMore = true
	s.failed = false
	s.lastErr = nil
	s.inFlight = true

	s.logger.Debug("search started", "keyword", keyword, "generation", s.generation)
	return PageRequest{Keyword: keyword, Page: 0, Generation: s.generation}, true
}

// LoadMore requests the page after the last applied one. ok is false when
// there is nothing more to load or a fetch is already in flight.
func (s *SearchSession) LoadMore() (PageRequest, bool) {
	if !s.hasMore || s.inFlight || s.disposed || s.keyword == "" {
		return PageRequest{}, false
	}

	s.inFlight = true
	next := s.page + 1
	s.logger.Debug("loading more", "keyword", s.keyword, "page", next)
	return PageRequest{Keyword: s.keyword, Page: next, Generation: s.generation}, true
}

// Refresh re-runs the current search from page 0, falling back to the
// default keyword when nothing has been searched yet.
func (s *SearchSession) Refresh() (PageRequest, bool) {
	keyword := s.keyword
	if keyword == "" {
		keyword = s.defaultKeyword
	}
	return s.Search(keyword)
}

// Fetch performs the catalog call for req
func (s *SearchSession) Fetch(ctx context.Context, req PageRequest) PageResult {
	page, err := s.repo.SearchEvents(ctx, req.Keyword, req.Page)
	return PageResult{Request: req, Page: page, Err: err}
}

// Apply merges a fetch result into the session. It returns false when the
// result was dropped because the session is disposed or the result belongs
// to a superseded search.
func (s *SearchSession) Apply(result PageResult) bool {
	if s.disposed {
		s.logger.Debug("result dropped, session disposed", "keyword", result.Request.Keyword)
		return false
	}
	if result.Request.Generation != s.generation {
		s.logger.Debug("result dropped, stale generation",
			"keyword", result.Request.Keyword, "generation", result.Request.Generation, "current", s.generation)
		return false
	}

	s.inFlight = false

	if result.Err != nil {
		s.logger.Error("search failed", "keyword", result.Request.Keyword, "page", result.Request.Page, "error", result.Err)
		s.failed = true
		s.lastErr = result.Err
		s.hasMore = false
		return true
	}

	s.failed = false
	s.lastErr = nil

	events := result.Page.Events
	if len(events) == 0 {
		s.hasMore = false
		if result.Request.Page == 0 {
			s.results = nil
			s.page = 0
		}
		s.logger.Info("search exhausted", "keyword", s.keyword, "page", result.Request.Page, "total", len(s.results))
		return true
	}

	if result.Request.Page == 0 {
		s.results = make([]domain.Event, 0, len(events))
		s.seen = make(map[string]bool, len(events))
	}
	for _, ev := range events {
		if s.dedupe && s.seen[ev.ID] {
			continue
		}
		s.seen[ev.ID] = true
		s.results = append(s.results, ev)
	}
	s.page = result.Request.Page

	if total := result.Page.TotalPages; total > 0 && s.page+1 >= total {
		s.hasMore = false
	}

	s.logger.Info("page applied", "keyword", s.keyword, "page", s.page, "added", len(events), "total", len(s.results))
	return true
}

// Dispose marks the session dead; later results are ignored
func (s *SearchSession) Dispose() {
	s.disposed = true
	s.inFlight = false
}

// State returns a snapshot of the session
func (s *SearchSession) State() SearchState {
	results := make([]domain.Event, len(s.results))
	copy(results, s.results)
	return SearchState{
		Keyword:    s.keyword,
		Page:       s.page,
		Results:    results,
		HasMore:    s.hasMore,
		InFlight:   s.inFlight,
		Failed:     s.failed,
		LastErr:    s.lastErr,
		Generation: s.generation,
	}
}

// Results returns the accumulated events without copying
func (s *SearchSession) Results() []domain.Event { return s.results }

// Keyword returns the active keyword
func (s *SearchSession) Keyword() string { return s.keyword }

// HasMore reports whether LoadMore may fetch another page
func (s *SearchSession) HasMore() bool { return s.hasMore }

// InFlight reports whether a fetch is outstanding
func (s *SearchSession) InFlight() bool { return s.inFlight }

// Disposed reports whether Dispose was called
func (s *SearchSession) Disposed() bool { return s.disposed }
