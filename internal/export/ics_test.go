package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/marquee/internal/domain"
)

func fixedNow() time.Time {
	return time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
}

func TestWriteICSOneEventPerFavorite(t *testing.T) {
	events := []domain.Event{
		{
			ID:    "vvG1",
			Name:  "Jazz Night",
			URL:   "https://tickets.example/vvG1",
			Start: domain.DateInfo{LocalDate: "2025-05-12", LocalTime: "19:30:00"},
			Venues: []domain.Venue{
				{Name: "Blue Note", City: "New York", StateCode: "NY"},
			},
			Classifications: []domain.Classification{{Segment: "Music", Genre: "Jazz"}},
		},
		{
			ID:    "vvG2",
			Name:  "Festival Day",
			URL:   "not a link",
			Start: domain.DateInfo{LocalDate: "2025-06-01"},
		},
		{ID: "vvG3", Name: "Date TBA"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, events, Options{Now: fixedNow}))

	cal, err := ical.ParseCalendar(strings.NewReader(buf.String()))
	require.NoError(t, err)

	vevents := cal.Events()
	require.Len(t, vevents, 3)

	first := vevents[0]
	assert.Equal(t, "vvG1@marquee", first.Id())
	assert.Equal(t, "Jazz Night", first.GetProperty(ical.ComponentPropertySummary).Value)
	assert.Equal(t, "20250512T193000", first.GetProperty(ical.ComponentPropertyDtStart).Value)
	assert.Equal(t, "https://tickets.example/vvG1", first.GetProperty(ical.ComponentPropertyUrl).Value)
	assert.Contains(t, first.GetProperty(ical.ComponentPropertyLocation).Value, "Blue Note")
	assert.Contains(t, first.GetProperty(ical.ComponentPropertyDescription).Value, "Jazz")

	second := vevents[1]
	assert.Equal(t, "vvG2@marquee", second.Id())
	assert.Equal(t, "20250601", second.GetProperty(ical.ComponentPropertyDtStart).Value)
	assert.Nil(t, second.GetProperty(ical.ComponentPropertyUrl))

	third := vevents[2]
	assert.Nil(t, third.GetProperty(ical.ComponentPropertyDtStart))
}

func TestWriteICSEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, nil, Options{Now: fixedNow}))

	out := buf.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "PRODID:-//marquee//Favorites//EN")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}
