package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/log"
	"github.com/mmcdole/marquee/internal/store"
)

type recordingObserver struct {
	changes []domain.FavoritesChange
}

func (r *recordingObserver) OnFavoritesChanged(change domain.FavoritesChange) {
	r.changes = append(r.changes, change)
}

func openStore(t *testing.T, dir string) *store.Store {
	t.Helper()
	st, err := store.Open(dir)
	require.NoError(t, err)
	return st
}

func sampleEvent(id, name, date string) domain.Event {
	return domain.Event{
		ID:    id,
		Name:  name,
		URL:   "https://tickets.example/" + id,
		Start: domain.DateInfo{LocalDate: date, LocalTime: "20:00:00"},
		Venues: []domain.Venue{
			{Name: "The Fillmore", City: "San Francisco", StateCode: "CA"},
		},
	}
}

func TestToggleTwice(t *testing.T) {
	svc := NewFavoritesService(openStore(t, ""), log.NullLogger())
	ev := sampleEvent("123", "Show", "2025-05-12")

	on, err := svc.Toggle(ev.ID, ev)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, svc.IsFavorite("123"))

	on, err = svc.Toggle(ev.ID, ev)
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, svc.IsFavorite("123"))
	assert.Empty(t, svc.All())
}

func TestFavoritesSurviveRestart(t *testing.T) {
	dir := t.TempDir()

	st := openStore(t, dir)
	svc := NewFavoritesService(st, log.NullLogger())
	_, err := svc.Toggle("123", sampleEvent("123", "Show", "2025-05-12"))
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st = openStore(t, dir)
	defer st.Close()
	svc = NewFavoritesService(st, log.NullLogger())

	assert.True(t, svc.IsFavorite("123"))
	all := svc.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Show", all[0].Name)
	assert.Equal(t, "The Fillmore", all[0].Venues[0].Name)
}

func TestRemovingLastFavoriteDropsKey(t *testing.T) {
	dir := t.TempDir()

	st := openStore(t, dir)
	svc := NewFavoritesService(st, log.NullLogger())
	ev := sampleEvent("123", "Show", "2025-05-12")

	_, err := svc.Toggle(ev.ID, ev)
	require.NoError(t, err)
	_, ok := st.Get(domain.FavoritesKey)
	require.True(t, ok)

	_, err = svc.Toggle(ev.ID, ev)
	require.NoError(t, err)
	_, ok = st.Get(domain.FavoritesKey)
	assert.False(t, ok)
	assert.Empty(t, svc.All())

	// Still gone after reopening
	require.NoError(t, st.Close())
	st = openStore(t, dir)
	defer st.Close()
	_, ok = st.Get(domain.FavoritesKey)
	assert.False(t, ok)
	assert.Empty(t, NewFavoritesService(st, log.NullLogger()).All())
}

func TestReadsExternallyWrittenMap(t *testing.T) {
	st := openStore(t, "")
	require.NoError(t, st.Set(domain.FavoritesKey, []byte(`{"123": {"id": "123", "name": "Show", "start": {"localDate": "2025-05-12"}}}`)))

	svc := NewFavoritesService(st, log.NullLogger())
	assert.True(t, svc.IsFavorite("123"))
	all := svc.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Show", all[0].Name)
}

func TestCorruptBlobReadsAsEmpty(t *testing.T) {
	st := openStore(t, "")
	require.NoError(t, st.Set(domain.FavoritesKey, []byte("{not json")))

	var logs bytes.Buffer
	svc := NewFavoritesService(st, log.NewLogger(&logs, "DEBUG"))

	assert.Empty(t, svc.All())
	assert.False(t, svc.IsFavorite("123"))
	assert.Contains(t, logs.String(), `"level":"WARN"`)

	// Toggling over a corrupt blob starts from an empty map
	on, err := svc.Toggle("9", sampleEvent("9", "Fresh", "2025-01-01"))
	require.NoError(t, err)
	assert.True(t, on)
	assert.Len(t, svc.All(), 1)
}

func TestToggleStoresSnapshot(t *testing.T) {
	svc := NewFavoritesService(openStore(t, ""), log.NullLogger())
	ev := sampleEvent("1", "Original", "2025-05-12")

	_, err := svc.Toggle(ev.ID, ev)
	require.NoError(t, err)

	ev.Name = "Changed"
	assert.Equal(t, "Original", svc.All()[0].Name)
}

func TestAllOrderedByStart(t *testing.T) {
	svc := NewFavoritesService(openStore(t, ""), log.NullLogger())

	late := sampleEvent("c", "Late", "2025-06-01")
	early := sampleEvent("b", "Early", "2025-05-01")
	earlier := sampleEvent("a", "Earlier same day", "2025-05-01")
	earlier.Start.LocalTime = "18:00:00"
	undated := sampleEvent("d", "TBA", "")

	for _, ev := range []domain.Event{late, undated, early, earlier} {
		require.NoError(t, svc.Add(ev))
	}

	var ids []string
	for _, ev := range svc.All() {
		ids = append(ids, ev.ID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids)
}

func TestAddAndRemove(t *testing.T) {
	svc := NewFavoritesService(openStore(t, ""), log.NullLogger())

	assert.Error(t, svc.Add(domain.Event{Name: "no id"}))

	require.NoError(t, svc.Add(sampleEvent("1", "Show", "2025-05-12")))
	assert.True(t, svc.IsFavorite("1"))

	removed, err := svc.Remove("1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.Remove("1")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	svc := NewFavoritesService(openStore(t, ""), log.NullLogger())
	obs := &recordingObserver{}
	unsubscribe := svc.Subscribe(obs)

	_, err := svc.Toggle("1", sampleEvent("1", "Show", "2025-05-12"))
	require.NoError(t, err)
	require.Len(t, obs.changes, 1)
	assert.Equal(t, domain.FavoritesChange{ID: "1", Favorite: true, Count: 1}, obs.changes[0])

	unsubscribe()
	unsubscribe()

	_, err = svc.Toggle("1", sampleEvent("1", "Show", "2025-05-12"))
	require.NoError(t, err)
	assert.Len(t, obs.changes, 1)
}

func TestMatch(t *testing.T) {
	svc := NewFavoritesService(openStore(t, ""), log.NullLogger())

	jazz := sampleEvent("1", "Jazz at the Park", "2025-05-01")
	rock := sampleEvent("2", "Rock Revival", "2025-05-02")
	rock.Venues = []domain.Venue{{Name: "Red Rocks", City: "Morrison"}}
	for _, ev := range []domain.Event{jazz, rock} {
		require.NoError(t, svc.Add(ev))
	}

	got := svc.Match("jazz")
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	got = svc.Match("morrison")
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	assert.Len(t, svc.Match(""), 2)
	assert.Empty(t, svc.Match("zzzz"))
}
