// Package export writes favorites to calendar files
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/mmcdole/marquee/internal/domain"
)

const (
	productID = "-//marquee//Favorites//EN"
	uidDomain = "marquee"

	// Floating local times: the catalog reports venue-local wall clock
	floatingDateTime = "20060102T150405"
)

// Options controls calendar generation
type Options struct {
	Now func() time.Time // DTSTAMP source, time.Now when nil
}

// WriteICS writes one VEVENT per event to w
func WriteICS(w io.Writer, events []domain.Event, opts Options) error {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	stamp := now().UTC()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, ev := range events {
		addEvent(cal, ev, stamp)
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	return nil
}

// UID returns the calendar identifier for an event
func UID(ev domain.Event) string {
	return ev.ID + "@" + uidDomain
}

func addEvent(cal *ical.Calendar, ev domain.Event, stamp time.Time) {
	vevent := cal.AddEvent(UID(ev))
	vevent.SetDtStampTime(stamp)
	vevent.SetSummary(ev.Name)

	if start, allDay, ok := startTime(ev.Start); ok {
		if allDay {
			vevent.SetAllDayStartAt(start)
		} else {
			vevent.SetProperty(ical.ComponentPropertyDtStart, start.Format(floatingDateTime))
		}
	}

	if loc := location(ev); loc != "" {
		vevent.SetLocation(loc)
	}
	if ev.HasTicketURL() {
		vevent.SetURL(ev.URL)
	}
	if desc := ev.ClassificationText(); desc != "" {
		vevent.SetDescription(desc)
	}
}

// startTime parses the local start. allDay is true when only the date is known.
func startTime(start domain.DateInfo) (t time.Time, allDay bool, ok bool) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(start.LocalDate))
	if err != nil {
		return time.Time{}, false, false
	}

	clock := strings.TrimSpace(start.LocalTime)
	if clock == "" {
		return date, true, true
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if c, err := time.Parse(layout, clock); err == nil {
			return time.Date(date.Year(), date.Month(), date.Day(), c.Hour(), c.Minute(), c.Second(), 0, time.UTC), false, true
		}
	}
	return date, true, true
}

func location(ev domain.Event) string {
	venue, ok := ev.PrimaryVenue()
	if !ok {
		return ""
	}
	parts := make([]string, 0, 2)
	if venue.Name != "" {
		parts = append(parts, venue.Name)
	}
	if locality := venue.Locality(); locality != "" {
		parts = append(parts, locality)
	}
	return strings.Join(parts, ", ")
}
