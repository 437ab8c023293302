package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/marquee/internal/domain"
)

func TestPrintEvents(t *testing.T) {
	events := []domain.Event{
		{
			ID:    "e1",
			Name:  "Jazz Night",
			Start: domain.DateInfo{LocalDate: "2025-05-12", LocalTime: "19:30:00"},
			Venues: []domain.Venue{{
				Name: "Blue Note",
				City: "New York",
			}},
			PriceRanges: []domain.PriceRange{{Currency: "USD", Min: 25, Max: 60}},
		},
		{ID: "e2", Name: "Mystery Show"},
	}

	var buf bytes.Buffer
	err := printEvents(&buf, events, func(id string) bool { return id == "e1" })
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "NAME")

	assert.True(t, strings.HasPrefix(lines[1], "★"))
	assert.Contains(t, lines[1], "Jazz Night")
	assert.Contains(t, lines[1], "Blue Note, New York")
	assert.Contains(t, lines[1], "e1")

	assert.False(t, strings.HasPrefix(lines[2], "★"))
	assert.Contains(t, lines[2], "Mystery Show")
}
