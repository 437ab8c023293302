package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/service"
	"github.com/mmcdole/marquee/internal/tui/components"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateDetail
	StateHelp
)

// Tab is a top-level list
type Tab int

const (
	TabEvents Tab = iota
	TabFavorites
)

const (
	// Header (tabs) and footer (status) lines
	ChromeHeight = 2

	// Rows from the end of the list that trigger the next page
	loadMoreThreshold = 3

	favoritesBuffer = 16
)

// Opener opens event links outside the terminal
type Opener interface {
	OpenTickets(ev domain.Event) error
	OpenMap(venue domain.Venue) error
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Tab   Tab
	Ready bool

	// Services
	Session   *service.SearchSession
	Catalog   domain.CatalogRepository
	Favorites *service.FavoritesService
	Opener    Opener
	logger    *slog.Logger

	// UI Components
	EventList     *components.EventList
	FavoritesList *components.EventList
	SearchBar     components.SearchBar
	Detail        components.Detail

	// Favorites notifications
	favoriteIDs map[string]bool
	favCh       chan domain.FavoritesChange
	unsubscribe func()

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	StatusIsOK   bool
	SpinnerFrame int
}

// NewModel creates a new application model and subscribes to favorites changes
func NewModel(
	session *service.SearchSession,
	catalog domain.CatalogRepository,
	favorites *service.FavoritesService,
	opener Opener,
	logger *slog.Logger,
) Model {
	if logger == nil {
		logger = slog.Default()
	}

	favCh := make(chan domain.FavoritesChange, favoritesBuffer)
	unsubscribe := favorites.Subscribe(NewChannelObserver(favCh))

	eventList := components.NewEventList("Events", "No events found", false)
	eventList.SetFocused(true)
	favoritesList := components.NewEventList("Favorites", "No favorites yet. Press f on an event to save it.", true)
	favoritesList.SetFocused(true)

	return Model{
		State:         StateBrowsing,
		Tab:           TabEvents,
		Session:       session,
		Catalog:       catalog,
		Favorites:     favorites,
		Opener:        opener,
		logger:        logger,
		EventList:     eventList,
		FavoritesList: favoritesList,
		SearchBar:     components.NewSearchBar(),
		Detail:        components.NewDetail(),
		favoriteIDs:   make(map[string]bool),
		favCh:         favCh,
		unsubscribe:   unsubscribe,
	}
}

// Init starts the default search and the background listeners
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		LoadFavoritesCmd(m.Favorites),
		WaitForFavoritesCmd(m.favCh),
		TickCmd(100 * time.Millisecond),
	}

	if req, ok := m.Session.Refresh(); ok {
		m.EventList.SetLoading(true)
		m.EventList.SetTitle(eventsTitle(req.Keyword, 0))
		cmds = append(cmds, FetchPageCmd(m.Session, req))
	}

	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		m.EventList.SetSpinnerFrame(m.SpinnerFrame)
		m.Detail.SetSpinnerFrame(m.SpinnerFrame)
		return m, TickCmd(100 * time.Millisecond)

	case PageLoadedMsg:
		return m.applyPage(msg.Result)

	case DetailLoadedMsg:
		if m.State != StateDetail || msg.ID != m.Detail.ID() {
			// The user already left this event
			return m, nil
		}
		if msg.Err != nil {
			m.logger.Error("failed to load event details", "id", msg.ID, "error", msg.Err)
			m.Detail.SetError(errorText(msg.Err))
			return m, nil
		}
		if msg.Event != nil {
			m.Detail.SetLoaded(*msg.Event)
		}
		return m, nil

	case FavoritesLoadedMsg:
		m.setFavorites(msg.Events)
		return m, nil

	case FavoritesChangedMsg:
		if msg.Change.Favorite {
			m.favoriteIDs[msg.Change.ID] = true
		} else {
			delete(m.favoriteIDs, msg.Change.ID)
		}
		if m.Detail.ID() == msg.Change.ID {
			m.Detail.SetFavorite(msg.Change.Favorite)
		}
		return m, tea.Batch(LoadFavoritesCmd(m.Favorites), WaitForFavoritesCmd(m.favCh))

	case FavoriteToggledMsg:
		if m.Detail.ID() == msg.ID {
			m.Detail.SetFavorite(msg.Favorite)
		}
		if msg.Favorite {
			cmd := m.setStatus(fmt.Sprintf("Added %q to favorites", msg.Name), false)
			m.StatusIsOK = true
			return m, cmd
		}
		return m, m.setStatus(fmt.Sprintf("Removed %q from favorites", msg.Name), false)

	case ErrMsg:
		m.logger.Error("operation failed", "context", msg.Context, "error", msg.Err)
		text := errorText(msg.Err)
		if msg.Context != "" {
			text = msg.Context + ": " + text
		}
		m.StatusMsg = text
		m.StatusIsErr = true
		m.StatusIsOK = false
		return m, ClearStatusCmd(5 * time.Second)

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		m.StatusIsOK = false
		return m, nil
	}

	return m, nil
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	m.StatusIsOK = false
	return ClearStatusCmd(3 * time.Second)
}

// applyPage merges a page into the session and refreshes the events list
func (m Model) applyPage(result service.PageResult) (tea.Model, tea.Cmd) {
	if !m.Session.Apply(result) {
		return m, nil
	}

	state := m.Session.State()
	appended := result.Request.Page > 0

	m.EventList.SetLoading(false)
	m.EventList.SetLoadingMore(false)
	m.EventList.SetTitle(eventsTitle(state.Keyword, len(state.Results)))

	if state.Failed {
		m.EventList.SetError(errorText(state.LastErr) + " (r to retry)")
		m.EventList.SetEvents(m.Session.Results(), appended)
		return m, nil
	}

	m.EventList.SetError("")
	m.EventList.SetEvents(m.Session.Results(), appended)

	// A short page can leave the cursor inside the threshold already
	return m, m.maybeLoadMore()
}

// maybeLoadMore requests the next page when the cursor nears the end
func (m *Model) maybeLoadMore() tea.Cmd {
	if m.Tab != TabEvents || m.State != StateBrowsing {
		return nil
	}
	if !m.EventList.NearEnd(loadMoreThreshold) {
		return nil
	}
	req, ok := m.Session.LoadMore()
	if !ok {
		return nil
	}
	m.EventList.SetLoadingMore(true)
	return FetchPageCmd(m.Session, req)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.State == StateHelp {
		// Any key dismisses help
		m.State = StateBrowsing
		return m, nil
	}

	if m.SearchBar.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.SearchBar, cmd, submitted = m.SearchBar.Update(msg)
		if submitted {
			return m.submitSearch(m.SearchBar.Value())
		}
		return m, cmd
	}

	if m.State == StateDetail {
		return m.handleDetailKey(msg)
	}

	list := m.activeList()
	if list.IsFilterTyping() {
		return m, list.Update(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m.quit()

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.NextTab):
		return m.switchTab()

	case key.Matches(msg, Keys.Search):
		if m.Tab == TabFavorites {
			m.FavoritesList.StartFilter()
			m.updateLayout()
			return m, nil
		}
		m.SearchBar.Show(m.Session.Keyword())
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		if m.Tab == TabFavorites {
			return m, LoadFavoritesCmd(m.Favorites)
		}
		return m.refresh()

	case key.Matches(msg, Keys.Enter):
		return m.openDetail()
	}

	cmd := list.Update(msg)
	return m, tea.Batch(cmd, m.maybeLoadMore())
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return m.quit()

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Back):
		m.State = StateBrowsing
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		if m.Detail.State() != components.DetailError {
			return m, nil
		}
		m.Detail.Retry()
		return m, LoadDetailCmd(m.Catalog, m.Detail.ID())

	case key.Matches(msg, Keys.ToggleFavorite):
		ev := m.Detail.Event()
		if ev.ID == "" {
			return m, nil
		}
		return m, ToggleFavoriteCmd(m.Favorites, ev)

	case key.Matches(msg, Keys.Tickets):
		ev := m.Detail.Event()
		if !ev.HasTicketURL() {
			m.logger.Warn("ignoring invalid ticket URL", "id", ev.ID, "url", ev.URL)
			return m, m.setStatus("No ticket link for this event", true)
		}
		return m, OpenTicketsCmd(m.Opener, ev)

	case key.Matches(msg, Keys.Map):
		venue, ok := m.Detail.Event().PrimaryVenue()
		if !ok {
			return m, m.setStatus("No venue for this event", true)
		}
		if _, _, ok := venue.Coordinates(); !ok {
			return m, m.setStatus("No location for this venue", true)
		}
		return m, OpenMapCmd(m.Opener, venue)
	}

	var cmd tea.Cmd
	m.Detail, cmd = m.Detail.Update(msg)
	return m, cmd
}

// submitSearch starts a new search from the search bar
func (m Model) submitSearch(keyword string) (tea.Model, tea.Cmd) {
	req, ok := m.Session.Search(keyword)
	if !ok {
		if strings.TrimSpace(keyword) == "" {
			return m, m.setStatus("Type a keyword to search", true)
		}
		if m.Session.InFlight() {
			return m, m.setStatus("A search is already running", true)
		}
		return m, nil
	}

	m.SearchBar.Hide()
	m.startLoading(req.Keyword)
	return m, FetchPageCmd(m.Session, req)
}

// refresh re-runs the current search from the first page
func (m Model) refresh() (tea.Model, tea.Cmd) {
	req, ok := m.Session.Refresh()
	if !ok {
		if m.Session.InFlight() {
			return m, m.setStatus("Already loading", false)
		}
		return m, nil
	}

	m.startLoading(req.Keyword)
	return m, FetchPageCmd(m.Session, req)
}

func (m *Model) startLoading(keyword string) {
	m.EventList.SetEvents(nil, false)
	m.EventList.SetError("")
	m.EventList.SetLoading(true)
	m.EventList.SetTitle(eventsTitle(keyword, 0))
}

func (m Model) openDetail() (tea.Model, tea.Cmd) {
	ev, ok := m.activeList().SelectedEvent()
	if !ok {
		return m, nil
	}

	m.Detail.Load(ev, m.favoriteIDs[ev.ID])
	m.State = StateDetail
	return m, LoadDetailCmd(m.Catalog, ev.ID)
}

func (m Model) switchTab() (tea.Model, tea.Cmd) {
	if m.Tab == TabEvents {
		m.Tab = TabFavorites
		// Favorites are re-read whenever the tab gains focus
		return m, LoadFavoritesCmd(m.Favorites)
	}
	m.Tab = TabEvents
	return m, nil
}

// quit releases the session and the favorites subscription
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.logger.Info("shutting down")
	m.Session.Dispose()
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return m, tea.Quit
}

func (m *Model) activeList() *components.EventList {
	if m.Tab == TabFavorites {
		return m.FavoritesList
	}
	return m.EventList
}

func (m *Model) setFavorites(events []domain.Event) {
	ids := make(map[string]bool, len(events))
	for _, ev := range events {
		ids[ev.ID] = true
	}
	m.favoriteIDs = ids

	m.FavoritesList.SetEvents(events, true)
	m.FavoritesList.SetFavorites(ids)
	m.FavoritesList.SetTitle(fmt.Sprintf("Favorites (%d)", len(events)))
	m.EventList.SetFavorites(ids)
}

// updateLayout sizes every component to the terminal
func (m *Model) updateLayout() {
	if !m.Ready {
		return
	}
	contentHeight := m.Height - ChromeHeight
	if contentHeight < 5 {
		contentHeight = 5
	}
	m.EventList.SetSize(m.Width, contentHeight)
	m.FavoritesList.SetSize(m.Width, contentHeight)
	m.Detail.SetSize(m.Width, contentHeight)
}

func eventsTitle(keyword string, count int) string {
	if keyword == "" {
		return "Events"
	}
	if count == 0 {
		return fmt.Sprintf("Events · %q", keyword)
	}
	return fmt.Sprintf("Events · %q (%d)", keyword, count)
}

// errorText turns catalog errors into user-facing text
func errorText(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrAuthFailed):
		return "The catalog rejected the API key"
	case errors.Is(err, domain.ErrRateLimited):
		return "Catalog rate limit reached, try again shortly"
	case errors.Is(err, domain.ErrCatalogOffline):
		return "Could not reach the events catalog"
	case errors.Is(err, domain.ErrEventNotFound):
		return "Event not found"
	case errors.Is(err, domain.ErrInvalidURL):
		return "Invalid link"
	case errors.Is(err, context.DeadlineExceeded):
		return "The catalog took too long to respond"
	default:
		return err.Error()
	}
}
