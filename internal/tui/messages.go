package tui

import (
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/service"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PageLoadedMsg carries a catalog page back to the update loop
type PageLoadedMsg struct {
	Result service.PageResult
}

// DetailLoadedMsg carries the result of a details fetch
type DetailLoadedMsg struct {
	ID    string
	Event *domain.Event
	Err   error
}

// FavoritesLoadedMsg carries the current favorites list
type FavoritesLoadedMsg struct {
	Events []domain.Event
}

// FavoritesChangedMsg signals a favorites mutation from any source
type FavoritesChangedMsg struct {
	Change domain.FavoritesChange
}

// FavoriteToggledMsg reports the result of a toggle requested by the user
type FavoriteToggledMsg struct {
	ID       string
	Name     string
	Favorite bool
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
