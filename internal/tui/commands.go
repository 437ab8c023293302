package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/service"
)

// Command factories for async operations

const catalogTimeout = 45 * time.Second

// FetchPageCmd runs a page request off the update loop
func FetchPageCmd(session *service.SearchSession, req service.PageRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), catalogTimeout)
		defer cancel()

		return PageLoadedMsg{Result: session.Fetch(ctx, req)}
	}
}

// LoadDetailCmd fetches a single event by id
func LoadDetailCmd(catalog domain.CatalogRepository, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), catalogTimeout)
		defer cancel()

		ev, err := catalog.GetEventDetails(ctx, id)
		return DetailLoadedMsg{ID: id, Event: ev, Err: err}
	}
}

// LoadFavoritesCmd reads the favorites list
func LoadFavoritesCmd(svc *service.FavoritesService) tea.Cmd {
	return func() tea.Msg {
		return FavoritesLoadedMsg{Events: svc.All()}
	}
}

// ToggleFavoriteCmd flips the favorite state of ev
func ToggleFavoriteCmd(svc *service.FavoritesService, ev domain.Event) tea.Cmd {
	return func() tea.Msg {
		on, err := svc.Toggle(ev.ID, ev)
		if err != nil {
			return ErrMsg{Err: err, Context: "saving favorite"}
		}
		return FavoriteToggledMsg{ID: ev.ID, Name: ev.Name, Favorite: on}
	}
}

// OpenTicketsCmd opens the ticket page of ev in the browser
func OpenTicketsCmd(opener Opener, ev domain.Event) tea.Cmd {
	return func() tea.Msg {
		if err := opener.OpenTickets(ev); err != nil {
			return ErrMsg{Err: err, Context: "opening tickets"}
		}
		return StatusMsg{Message: "Opened tickets in browser"}
	}
}

// OpenMapCmd opens the venue location in a web map
func OpenMapCmd(opener Opener, venue domain.Venue) tea.Cmd {
	return func() tea.Msg {
		if err := opener.OpenMap(venue); err != nil {
			return ErrMsg{Err: err, Context: "opening map"}
		}
		return StatusMsg{Message: "Opened map in browser"}
	}
}

// WaitForFavoritesCmd blocks until the next favorites change notification
func WaitForFavoritesCmd(ch <-chan domain.FavoritesChange) tea.Cmd {
	return func() tea.Msg {
		change, ok := <-ch
		if !ok {
			return nil
		}
		return FavoritesChangedMsg{Change: change}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
