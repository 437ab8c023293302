package ticketmaster

import (
	"strings"

	"github.com/mmcdole/marquee/internal/domain"
)

// MapEvents converts Discovery API events to domain events
func MapEvents(dtos []EventDTO) []domain.Event {
	events := make([]domain.Event, 0, len(dtos))
	for _, dto := range dtos {
		if dto.ID == "" {
			continue
		}
		events = append(events, MapEvent(dto))
	}
	return events
}

// MapEvent converts a single Discovery API event
func MapEvent(dto EventDTO) domain.Event {
	info := dto.Info
	if info == "" {
		info = dto.PleaseNote
	}

	event := domain.Event{
		ID:          dto.ID,
		Name:        strings.TrimSpace(dto.Name),
		Description: dto.Description,
		URL:         dto.URL,
		Info:        info,
		Start: domain.DateInfo{
			LocalDate: dto.Dates.Start.LocalDate,
			LocalTime: dto.Dates.Start.LocalTime,
		},
	}

	for _, img := range dto.Images {
		if img.URL == "" {
			continue
		}
		event.Images = append(event.Images, domain.Image{
			URL:    img.URL,
			Ratio:  img.Ratio,
			Width:  img.Width,
			Height: img.Height,
		})
	}

	if dto.Embedded != nil {
		for _, v := range dto.Embedded.Venues {
			event.Venues = append(event.Venues, mapVenue(v))
		}
	}

	for _, c := range primaryFirst(dto.Classifications) {
		event.Classifications = append(event.Classifications, domain.Classification{
			Segment:  c.Segment.Name,
			Genre:    c.Genre.Name,
			SubGenre: c.SubGenre.Name,
			Type:     c.Type.Name,
			SubType:  c.SubType.Name,
		})
	}

	for _, p := range dto.PriceRanges {
		event.PriceRanges = append(event.PriceRanges, domain.PriceRange{
			Type:     p.Type,
			Currency: p.Currency,
			Min:      p.Min,
			Max:      p.Max,
		})
	}

	return event
}

func mapVenue(v VenueDTO) domain.Venue {
	venue := domain.Venue{
		Name: v.Name,
		City: v.City.Name,
	}
	if v.State != nil {
		venue.StateCode = v.State.StateCode
	}
	if v.Country != nil {
		venue.CountryCode = v.Country.CountryCode
	}
	if v.Location != nil && v.Location.Latitude != "" && v.Location.Longitude != "" {
		venue.Location = &domain.GeoPoint{
			Latitude:  v.Location.Latitude,
			Longitude: v.Location.Longitude,
		}
	}
	return venue
}

// primaryFirst moves the classification flagged primary to the front,
// keeping the rest in catalog order.
func primaryFirst(cs []ClassificationDTO) []ClassificationDTO {
	for i, c := range cs {
		if c.Primary && i > 0 {
			out := make([]ClassificationDTO, 0, len(cs))
			out = append(out, c)
			out = append(out, cs[:i]...)
			out = append(out, cs[i+1:]...)
			return out
		}
	}
	return cs
}
