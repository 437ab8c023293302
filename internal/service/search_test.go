package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/log"
)

// fakeCatalog serves canned pages keyed by page number
type fakeCatalog struct {
	mu      sync.Mutex
	pages   map[int]domain.EventPage
	errs    map[int]error
	calls   []PageRequest
	details map[string]domain.Event
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		pages:   make(map[int]domain.EventPage),
		errs:    make(map[int]error),
		details: make(map[string]domain.Event),
	}
}

func (f *fakeCatalog) SearchEvents(_ context.Context, keyword string, page int) (domain.EventPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, PageRequest{Keyword: keyword, Page: page})
	if err := f.errs[page]; err != nil {
		return domain.EventPage{}, err
	}
	return f.pages[page], nil
}

func (f *fakeCatalog) GetEventDetails(_ context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.details[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return &ev, nil
}

func makeEvents(prefix string, n int) []domain.Event {
	events := make([]domain.Event, n)
	for i := range events {
		events[i] = domain.Event{
			ID:   fmt.Sprintf("%s%d", prefix, i),
			Name: fmt.Sprintf("Event %s%d", prefix, i),
		}
	}
	return events
}

func newTestSession(repo domain.CatalogRepository, opts SearchOptions) *SearchSession {
	return NewSearchSession(repo, opts, log.NullLogger())
}

// run issues req through Fetch and Apply the way the UI loop does
func run(t *testing.T, s *SearchSession, req PageRequest, ok bool) {
	t.Helper()
	require.True(t, ok, "expected a request")
	require.True(t, s.Apply(s.Fetch(context.Background(), req)))
}

func TestSearchBlankKeywordIsNoOp(t *testing.T) {
	repo := newFakeCatalog()
	s := newTestSession(repo, SearchOptions{})

	_, ok := s.Search("   ")
	assert.False(t, ok)
	assert.False(t, s.InFlight())
	assert.Empty(t, repo.calls)
}

func TestSearchThenLoadMoreAppends(t *testing.T) {
	repo := newFakeCatalog()
	repo.pages[0] = domain.EventPage{Events: makeEvents("a", 20), TotalPages: 5}
	repo.pages[1] = domain.EventPage{Events: makeEvents("b", 20), Number: 1, TotalPages: 5}
	s := newTestSession(repo, SearchOptions{})

	req, ok := s.Search("rock")
	assert.Equal(t, PageRequest{Keyword: "rock", Page: 0, Generation: 1}, req)
	assert.True(t, s.InFlight())
	run(t, s, req, ok)

	state := s.State()
	assert.Len(t, state.Results, 20)
	assert.Equal(t, 0, state.Page)
	assert.True(t, state.HasMore)
	assert.False(t, state.InFlight)

	req, ok = s.LoadMore()
	assert.Equal(t, 1, req.Page)
	run(t, s, req, ok)

	state = s.State()
	require.Len(t, state.Results, 40)
	assert.Equal(t, "a0", state.Results[0].ID)
	assert.Equal(t, "b19", state.Results[39].ID)
	assert.Equal(t, 1, state.Page)
}

func TestEmptyPageStopsPaging(t *testing.T) {
	repo := newFakeCatalog()
	repo.pages[0] = domain.EventPage{Events: makeEvents("a", 20)}
	s := newTestSession(repo, SearchOptions{})

	req, ok := s.Search("rock")
	run(t, s, req, ok)
	req, ok = s.LoadMore()
	run(t, s, req, ok)

	assert.False(t, s.HasMore())
	assert.Len(t, s.Results(), 20)

	_, ok = s.LoadMore()
	assert.False(t, ok)
	assert.Len(t, repo.calls, 2)
}

func TestEmptyFirstPageClearsResults(t *testing.T) {
	repo := newFakeCatalog()
	s := newTestSession(repo, SearchOptions{})

	req, ok := s.Search("nothing")
	run(t, s, req, ok)

	state := s.State()
	assert.Empty(t, state.Results)
	assert.False(t, state.HasMore)
	assert.False(t, state.Failed)
}

func TestTotalPagesBoundsHasMore(t *testing.T) {
	repo := newFakeCatalog()
	repo.pages[0] = domain.EventPage{Events: makeEvents("a", 20), TotalPages: 1}
	s := newTestSession(repo, SearchOptions{})

	req, ok := s.Search("rock")
	run(t, s, req, ok)

	assert.False(t, s.HasMore())
	_, ok = s.LoadMore()
	assert.False(t, ok)
}

func TestLoadMoreWhileInFlightIsNoOp(t *testing.T) {
	repo := newFakeCatalog()
	s := newTestSession(repo, SearchOptions{})

	_, ok := s.Search("rock")
	require.True(t, ok)

	_, ok = s.LoadMore()
	assert.False(t, ok)
	_, ok = s.Search("jazz")
	assert.False(t, ok)
	assert.Equal(t, "rock", s.Keyword())
}

func TestFailureKeepsResults(t *testing.T) {
	repo := newFakeCatalog()
	repo.pages[0] = domain.EventPage{Events: makeEvents("a", 20)}
	repo.errs[1] = domain.ErrCatalogOffline
	s := newTestSession(repo, SearchOptions{})

	req, ok := s.Search("rock")
	run(t, s, req, ok)
	req, ok = s.LoadMore()
	run(t, s, req, ok)

	state := s.State()
	assert.True(t, state.Failed)
	assert.ErrorIs(t, state.LastErr, domain.ErrCatalogOffline)
	assert.False(t, state.HasMore)
	assert.False(t, state.InFlight)
	assert.Len(t, state.Results, 20)
}

func TestFirstPageFailure(t *testing.T) {
	repo := newFakeCatalog()
	repo.errs[0] = errors.New("boom")
	s := newTestSession(repo, SearchOptions{})

	req, ok := s.Search("rock")
	run(t, s, req, ok)

	state := s.State()
	assert.True(t, state.Failed)
	assert.Empty(t, state.Results)

	// A new search clears the error
	repo.errs[0] = nil
	repo.pages[0] = domain.EventPage{Events: makeEvents("a", 3)}
	req, ok = s.Search("rock")
	run(t, s, req, ok)
	assert.False(t, s.State().Failed)
	assert.Len(t, s.Results(), 3)
}

func TestStaleGenerationDropped(t *testing.T) {
	repo := newFakeCatalog()
	repo.pages[0] = domain.EventPage{Events: makeEvents("a", 20)}
	s := newTestSession(repo, SearchOptions{})

	old, ok := s.Search("rock")
	require.True(t, ok)
	oldResult := s.Fetch(context.Background(), old)

	// The first search failed and was superseded by a new one
	require.True(t, s.Apply(PageResult{Request: old, Err: errors.New("timeout")}))
	next, ok := s.Search("jazz")
	require.True(t, ok)

	assert.False(t, s.Apply(oldResult))
	assert.True(t, s.InFlight())
	assert.Empty(t, s.Results())

	run(t, s, next, true)
	assert.Len(t, s.Results(), 20)
	assert.Equal(t, "jazz", s.Keyword())
}

func TestDisposedSessionIgnoresResults(t *testing.T) {
	repo := newFakeCatalog()
	repo.pages[0] = domain.EventPage{Events: makeEvents("a", 20)}
	s := newTestSession(repo, SearchOptions{})

	req, ok := s.Search("rock")
	require.True(t, ok)
	result := s.Fetch(context.Background(), req)

	s.Dispose()
	assert.False(t, s.Apply(result))
	assert.Empty(t, s.Results())
	assert.True(t, s.Disposed())

	_, ok = s.Search("jazz")
	assert.False(t, ok)
}

func TestRefreshUsesDefaultKeyword(t *testing.T) {
	repo := newFakeCatalog()
	repo.pages[0] = domain.EventPage{Events: makeEvents("a", 2)}
	s := newTestSession(repo, SearchOptions{DefaultKeyword: "music"})

	req, ok := s.Refresh()
	run(t, s, req, ok)
	assert.Equal(t, "music", s.Keyword())

	req, ok = s.Search("jazz")
	run(t, s, req, ok)
	req, ok = s.Refresh()
	assert.Equal(t, "jazz", req.Keyword)
	assert.Equal(t, 0, req.Page)
	run(t, s, req, ok)
	assert.Len(t, s.Results(), 2)
}

func TestRefreshWithoutKeywordOrDefault(t *testing.T) {
	s := newTestSession(newFakeCatalog(), SearchOptions{})
	_, ok := s.Refresh()
	assert.False(t, ok)
}

func TestDuplicatesKeptByDefault(t *testing.T) {
	repo := newFakeCatalog()
	repo.pages[0] = domain.EventPage{Events: makeEvents("a", 5)}
	repo.pages[1] = domain.EventPage{Events: makeEvents("a", 5)}
	s := newTestSession(repo, SearchOptions{})

	req, ok := s.Search("rock")
	run(t, s, req, ok)
	req, ok = s.LoadMore()
	run(t, s, req, ok)

	assert.Len(t, s.Results(), 10)
}

func TestDedupeDropsRepeatedIDs(t *testing.T) {
	repo := newFakeCatalog()
	repo.pages[0] = domain.EventPage{Events: makeEvents("a", 5)}
	repo.pages[1] = domain.EventPage{Events: append(makeEvents("a", 2), makeEvents("b", 3)...)}
	s := newTestSession(repo, SearchOptions{Dedupe: true})

	req, ok := s.Search("rock")
	run(t, s, req, ok)
	req, ok = s.LoadMore()
	run(t, s, req, ok)

	assert.Len(t, s.Results(), 8)
}

func TestStateReturnsCopy(t *testing.T) {
	repo := newFakeCatalog()
	repo.pages[0] = domain.EventPage{Events: makeEvents("a", 2)}
	s := newTestSession(repo, SearchOptions{})

	req, ok := s.Search("rock")
	run(t, s, req, ok)

	state := s.State()
	state.Results[0].Name = "changed"
	assert.Equal(t, "Event a0", s.Results()[0].Name)
}
