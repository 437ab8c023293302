package ticketmaster

// EventDTO is an event as returned by the Discovery API
type EventDTO struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Type            string              `json:"type,omitempty"`
	URL             string              `json:"url,omitempty"`
	Description     string              `json:"description,omitempty"`
	Info            string              `json:"info,omitempty"`
	PleaseNote      string              `json:"pleaseNote,omitempty"`
	Images          []ImageDTO          `json:"images,omitempty"`
	Dates           DatesDTO            `json:"dates"`
	Classifications []ClassificationDTO `json:"classifications,omitempty"`
	PriceRanges     []PriceRangeDTO     `json:"priceRanges,omitempty"`
	Embedded        *EventEmbeddedDTO   `json:"_embedded,omitempty"`
}

// ImageDTO is an image reference
type ImageDTO struct {
	URL      string `json:"url"`
	Ratio    string `json:"ratio,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Fallback bool   `json:"fallback,omitempty"` // Generic placeholder artwork
}

// DatesDTO holds the event dates block
type DatesDTO struct {
	Start StartDTO `json:"start"`
}

// StartDTO is the local start date/time
type StartDTO struct {
	LocalDate string `json:"localDate"`
	LocalTime string `json:"localTime,omitempty"`
	DateTBD   bool   `json:"dateTBD,omitempty"`
	TimeTBA   bool   `json:"timeTBA,omitempty"`
}

// NamedDTO is the {id, name} pair used by classification levels, cities, etc.
type NamedDTO struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// ClassificationDTO is one classification tuple
type ClassificationDTO struct {
	Primary  bool     `json:"primary,omitempty"`
	Segment  NamedDTO `json:"segment"`
	Genre    NamedDTO `json:"genre"`
	SubGenre NamedDTO `json:"subGenre"`
	Type     NamedDTO `json:"type"`
	SubType  NamedDTO `json:"subType"`
}

// PriceRangeDTO is a ticket price band
type PriceRangeDTO struct {
	Type     string  `json:"type,omitempty"`
	Currency string  `json:"currency,omitempty"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// EventEmbeddedDTO holds embedded venue documents
type EventEmbeddedDTO struct {
	Venues []VenueDTO `json:"venues,omitempty"`
}

// VenueDTO is a venue document
type VenueDTO struct {
	ID       string       `json:"id,omitempty"`
	Name     string       `json:"name"`
	City     NamedDTO     `json:"city"`
	State    *StateDTO    `json:"state,omitempty"`
	Country  *CountryDTO  `json:"country,omitempty"`
	Location *LocationDTO `json:"location,omitempty"`
}

// StateDTO is the venue state
type StateDTO struct {
	Name      string `json:"name,omitempty"`
	StateCode string `json:"stateCode,omitempty"`
}

// CountryDTO is the venue country
type CountryDTO struct {
	Name        string `json:"name,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
}

// LocationDTO holds coordinates as strings
type LocationDTO struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}
