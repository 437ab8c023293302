package domain

import (
	"context"
)

// PageSize is the fixed number of events per catalog page
const PageSize = 20

// SortOrder is the catalog-side ordering of search results
type SortOrder string

const (
	SortDateAsc  SortOrder = "date,asc"
	SortDateDesc SortOrder = "date,desc"
)

// CatalogRepository provides access to the remote events catalog
type CatalogRepository interface {
	// SearchEvents returns one page of events matching keyword.
	// Page is zero-based; each page holds at most PageSize events.
	SearchEvents(ctx context.Context, keyword string, page int) (EventPage, error)

	// GetEventDetails returns a single event, or ErrEventNotFound
	GetEventDetails(ctx context.Context, id string) (*Event, error)
}

// KeyValueStore is a persistent single-key blob store
type KeyValueStore interface {
	// Get returns the stored value and whether the key exists
	Get(key string) ([]byte, bool)

	// Set overwrites the value stored under key
	Set(key string, value []byte) error

	// Delete removes key; deleting a missing key is not an error
	Delete(key string) error

	Close() error
}
