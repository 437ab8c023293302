package domain

import (
	"strconv"
	"strings"
)

// ClassificationPlaceholder is the catalog's stand-in for an absent classification level
const ClassificationPlaceholder = "Undefined"

// classificationSeparator joins the kept classification parts
const classificationSeparator = " • "

// PreferredImageRatio is the aspect ratio list views ask for first
const PreferredImageRatio = "3_2"

// Event is a single catalog event. Events are values: once fetched they are
// never mutated, only copied (e.g. into the favorites store).
type Event struct {
	ID              string           `json:"id"`          // Catalog identifier (unique)
	Name            string           `json:"name"`        // Display name
	Description     string           `json:"description"` // Short description, often empty
	URL             string           `json:"url"`         // Ticket purchase URL
	Images          []Image          `json:"images,omitempty"`
	Start           DateInfo         `json:"start"`
	Venues          []Venue          `json:"venues,omitempty"`
	Classifications []Classification `json:"classifications,omitempty"`
	PriceRanges     []PriceRange     `json:"priceRanges,omitempty"`
	Info            string           `json:"info,omitempty"` // Free-text info block
}

// Image is an event image reference
type Image struct {
	URL    string `json:"url"`
	Ratio  string `json:"ratio,omitempty"` // e.g. "16_9", "3_2"
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// DateInfo is the local start date and optional time of an event
type DateInfo struct {
	LocalDate string `json:"localDate"`           // "2025-05-12"
	LocalTime string `json:"localTime,omitempty"` // "19:30:00"
}

// GeoPoint holds coordinates exactly as the catalog reports them (strings)
type GeoPoint struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// Venue is where an event takes place
type Venue struct {
	Name        string    `json:"name"`
	City        string    `json:"city,omitempty"`
	StateCode   string    `json:"stateCode,omitempty"`
	CountryCode string    `json:"countryCode,omitempty"`
	Location    *GeoPoint `json:"location,omitempty"`
}

// Classification is one segment/genre/subgenre/type/subtype tuple.
// Any level may be empty or ClassificationPlaceholder.
type Classification struct {
	Segment  string `json:"segment,omitempty"`
	Genre    string `json:"genre,omitempty"`
	SubGenre string `json:"subGenre,omitempty"`
	Type     string `json:"type,omitempty"`
	SubType  string `json:"subType,omitempty"`
}

// PriceRange is a ticket price band
type PriceRange struct {
	Type     string  `json:"type,omitempty"`
	Currency string  `json:"currency,omitempty"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// EventPage is one page of search results
type EventPage struct {
	Events     []Event
	Number     int // Zero-based page index the catalog returned
	TotalPages int // Total pages reported by the catalog, <= 0 when unknown
}

// ImageURL returns the URL of the first image tagged with preferRatio, falling
// back to the first image. ok is false when the event has no usable image.
func (e Event) ImageURL(preferRatio string) (string, bool) {
	if preferRatio != "" {
		for _, img := range e.Images {
			if img.Ratio == preferRatio && img.URL != "" {
				return img.URL, true
			}
		}
	}
	for _, img := range e.Images {
		if img.URL != "" {
			return img.URL, true
		}
	}
	return "", false
}

// PrimaryVenue returns the first venue, if any
func (e Event) PrimaryVenue() (Venue, bool) {
	if len(e.Venues) == 0 {
		return Venue{}, false
	}
	return e.Venues[0], true
}

// PrimaryPrice returns the first price range, if any
func (e Event) PrimaryPrice() (PriceRange, bool) {
	if len(e.PriceRanges) == 0 {
		return PriceRange{}, false
	}
	return e.PriceRanges[0], true
}

// ClassificationText renders the first classification as "Music • Rock",
// skipping empty and placeholder levels.
func (e Event) ClassificationText() string {
	if len(e.Classifications) == 0 {
		return ""
	}
	return e.Classifications[0].Text()
}

// HasTicketURL reports whether the event carries a navigable ticket link
func (e Event) HasTicketURL() bool {
	return IsWebURL(e.URL)
}

// Text joins the kept classification levels with the separator
func (c Classification) Text() string {
	parts := make([]string, 0, 5)
	for _, part := range []string{c.Segment, c.Genre, c.SubGenre, c.Type, c.SubType} {
		part = strings.TrimSpace(part)
		if part == "" || part == ClassificationPlaceholder {
			continue
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, classificationSeparator)
}

// Locality returns "City, ST", falling back to the country code when the
// venue has no state.
func (v Venue) Locality() string {
	region := v.StateCode
	if region == "" {
		region = v.CountryCode
	}
	switch {
	case v.City != "" && region != "":
		return v.City + ", " + region
	case v.City != "":
		return v.City
	default:
		return region
	}
}

// Coordinates parses the venue location. ok is false when the venue has no
// location or either value is not a number.
func (v Venue) Coordinates() (lat, lon float64, ok bool) {
	if v.Location == nil {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(v.Location.Latitude), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(v.Location.Longitude), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// IsWebURL reports whether raw looks like an http(s) link
func IsWebURL(raw string) bool {
	lower := strings.ToLower(strings.TrimSpace(raw))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
