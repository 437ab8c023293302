package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/marquee/internal/domain"
)

func venueEvent(id, name, venue string) domain.Event {
	return domain.Event{
		ID:     id,
		Name:   name,
		Start:  domain.DateInfo{LocalDate: "2025-05-12"},
		Venues: []domain.Venue{{Name: venue}},
	}
}

func newFilterList(t *testing.T) *EventList {
	t.Helper()
	l := NewEventList("Favorites", "No favorites", true)
	l.SetSize(80, 20)
	l.SetEvents([]domain.Event{
		venueEvent("e1", "Jazz Night", "Blue Note"),
		venueEvent("e2", "Rock Show", "Arena"),
		venueEvent("e3", "Jazz Brunch", "Cafe"),
	}, false)
	return l
}

func typeText(l *EventList, text string) {
	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func selectedIDs(t *testing.T, l *EventList) []string {
	t.Helper()
	var ids []string
	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	for i := 0; i < l.ItemCount(); i++ {
		ev, ok := l.SelectedEvent()
		require.True(t, ok)
		ids = append(ids, ev.ID)
		l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	}
	return ids
}

func TestFilterNarrowsAndMapsSelection(t *testing.T) {
	l := newFilterList(t)

	l.StartFilter()
	require.True(t, l.IsFilterTyping())

	typeText(l, "brunch")
	assert.Equal(t, 1, l.ItemCount())
	ev, ok := l.SelectedEvent()
	require.True(t, ok)
	// Third event in the source slice, first visible row
	assert.Equal(t, "e3", ev.ID)
	assert.Equal(t, 0, l.Cursor())

	// Unfiltered contents are untouched
	assert.Len(t, l.Events(), 3)
}

func TestFilterMatchesVenueAndNavigatesResults(t *testing.T) {
	l := newFilterList(t)

	l.StartFilter()
	typeText(l, "jazz")
	assert.Equal(t, 2, l.ItemCount())

	// enter keeps the filter but hands keys back to navigation
	l.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, l.IsFilterTyping())
	assert.ElementsMatch(t, []string{"e1", "e3"}, selectedIDs(t, l))

	// Venue names are part of the haystack
	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	require.True(t, l.IsFilterTyping())
	for range "jazz" {
		l.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	typeText(l, "arena")
	l.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"e2"}, selectedIDs(t, l))
}

func TestFilterWithoutMatches(t *testing.T) {
	l := newFilterList(t)

	l.StartFilter()
	typeText(l, "qqq")
	assert.Equal(t, 0, l.ItemCount())
	_, ok := l.SelectedEvent()
	assert.False(t, ok)
}

func TestEscClearsFilter(t *testing.T) {
	l := newFilterList(t)

	l.StartFilter()
	typeText(l, "rock")
	require.Equal(t, 1, l.ItemCount())

	l.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, l.IsFilterTyping())
	assert.Equal(t, 3, l.ItemCount())
	ev, ok := l.SelectedEvent()
	require.True(t, ok)
	assert.Equal(t, "e1", ev.ID)
}

func TestBackspaceOnEmptyFilterClearsIt(t *testing.T) {
	l := newFilterList(t)

	l.StartFilter()
	typeText(l, "r")
	l.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	// Query is empty again: every event shows, input still open
	assert.Equal(t, 3, l.ItemCount())
	assert.True(t, l.IsFilterTyping())

	l.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.False(t, l.IsFilterTyping())
	assert.Equal(t, 3, l.ItemCount())
}

func TestFilterFollowsNewEvents(t *testing.T) {
	l := newFilterList(t)

	l.StartFilter()
	typeText(l, "jazz")
	require.Equal(t, 2, l.ItemCount())

	l.SetEvents([]domain.Event{
		venueEvent("e1", "Jazz Night", "Blue Note"),
		venueEvent("e2", "Rock Show", "Arena"),
	}, true)
	assert.Equal(t, 1, l.ItemCount())
	ev, ok := l.SelectedEvent()
	require.True(t, ok)
	assert.Equal(t, "e1", ev.ID)
}

func TestNonFilterableListIgnoresStartFilter(t *testing.T) {
	l := NewEventList("Events", "No events", false)
	l.StartFilter()
	assert.False(t, l.IsFilterTyping())
}
