package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/format"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// Layout constants for event lists
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// EventList is a scrollable list of events with an optional local filter
type EventList struct {
	events    []domain.Event
	favorites map[string]bool

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title     string
	emptyText string

	// Status states
	loading      bool
	loadingMore  bool
	errText      string
	spinnerFrame int

	// Filter state
	filterable   bool
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into events
}

// NewEventList creates an empty list. filterable enables the "/" filter.
func NewEventList(title, emptyText string, filterable bool) *EventList {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &EventList{
		title:       title,
		emptyText:   emptyText,
		filterable:  filterable,
		filterInput: ti,
		favorites:   make(map[string]bool),
	}
}

// Update handles navigation and filter keys
func (l *EventList) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	// Filter typing mode
	if l.filterActive && l.filterInput.Focused() {
		switch keyMsg.String() {
		case "esc":
			l.clearFilter()
			return nil
		case "enter":
			// Accept filter, blur input to allow navigation
			l.filterInput.Blur()
			return nil
		case "backspace":
			if l.filterInput.Value() == "" {
				l.clearFilter()
				return nil
			}
		}

		var cmd tea.Cmd
		l.filterInput, cmd = l.filterInput.Update(msg)
		l.applyFilter()
		return cmd
	}

	if l.filterActive {
		switch keyMsg.String() {
		case "esc":
			l.clearFilter()
			return nil
		case "/":
			l.filterInput.Focus()
			return nil
		}
	}

	count := l.ItemCount()
	if count == 0 {
		return nil
	}

	switch {
	case key.Matches(keyMsg, ListKeys.Down):
		if l.cursor < count-1 {
			l.cursor++
		}
	case key.Matches(keyMsg, ListKeys.Up):
		if l.cursor > 0 {
			l.cursor--
		}
	case key.Matches(keyMsg, ListKeys.Home):
		l.cursor = 0
		l.offset = 0
	case key.Matches(keyMsg, ListKeys.End):
		l.cursor = count - 1
	case key.Matches(keyMsg, ListKeys.HalfDown):
		l.cursor += l.maxVisible / 2
	case key.Matches(keyMsg, ListKeys.HalfUp):
		l.cursor -= l.maxVisible / 2
	case key.Matches(keyMsg, ListKeys.PageDown):
		l.cursor += l.maxVisible
	case key.Matches(keyMsg, ListKeys.PageUp):
		l.cursor -= l.maxVisible
	}
	l.clampCursor()
	l.ensureVisible()
	return nil
}

// View renders the list inside a border
func (l *EventList) View() string {
	style := styles.InactiveBorder
	if l.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(l.width - frameW).
		Height(l.height - frameH).
		Render(l.renderContent())
}

// SetSize updates the list dimensions
func (l *EventList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.recalcMaxVisible()
	l.ensureVisible()
}

// SetFocused sets focus for border styling
func (l *EventList) SetFocused(focused bool) {
	l.focused = focused
}

// SetEvents replaces the list contents. keepCursor preserves the selection
// (pages appended below it); otherwise the cursor returns to the top.
func (l *EventList) SetEvents(events []domain.Event, keepCursor bool) {
	l.events = events
	if !keepCursor {
		l.cursor = 0
		l.offset = 0
	}
	if l.filterActive {
		l.reapplyFilter()
	}
	l.clampCursor()
	l.ensureVisible()
}

// Events returns the unfiltered contents
func (l *EventList) Events() []domain.Event {
	return l.events
}

// SetFavorites sets the ids rendered with a favorite marker
func (l *EventList) SetFavorites(ids map[string]bool) {
	l.favorites = ids
}

// SetLoading shows the full-list loading state
func (l *EventList) SetLoading(loading bool) {
	l.loading = loading
}

// SetLoadingMore shows the inline "loading more" footer
func (l *EventList) SetLoadingMore(loading bool) {
	l.loadingMore = loading
}

// SetError shows an error line instead of the empty state; "" clears it
func (l *EventList) SetError(text string) {
	l.errText = text
}

// SetTitle sets the header text
func (l *EventList) SetTitle(title string) {
	l.title = title
}

// SetSpinnerFrame updates the spinner animation frame
func (l *EventList) SetSpinnerFrame(frame int) {
	l.spinnerFrame = frame
}

// SelectedEvent returns the event under the cursor
func (l *EventList) SelectedEvent() (domain.Event, bool) {
	if l.ItemCount() == 0 {
		return domain.Event{}, false
	}
	return l.events[l.mapIndex(l.cursor)], true
}

// Cursor returns the cursor position among visible items
func (l *EventList) Cursor() int {
	return l.cursor
}

// ItemCount returns the number of visible (filtered) items
func (l *EventList) ItemCount() int {
	if l.filteredIdx != nil {
		return len(l.filteredIdx)
	}
	return len(l.events)
}

// NearEnd reports whether the cursor is within the last n rows
func (l *EventList) NearEnd(n int) bool {
	count := l.ItemCount()
	return count > 0 && l.cursor >= count-n
}

// StartFilter opens the filter input
func (l *EventList) StartFilter() {
	if !l.filterable {
		return
	}
	l.filterActive = true
	l.filterInput.Focus()
	l.recalcMaxVisible()
}

// IsFilterTyping returns true while the filter input has focus
func (l *EventList) IsFilterTyping() bool {
	return l.filterActive && l.filterInput.Focused()
}

func (l *EventList) recalcMaxVisible() {
	// Interior height minus title line and scroll indicators
	interiorHeight := l.height - BorderHeight
	l.maxVisible = interiorHeight - ScrollIndicatorLines - 1
	if l.filterActive {
		l.maxVisible--
	}
	if l.maxVisible < 1 {
		l.maxVisible = 1
	}
}

func (l *EventList) clampCursor() {
	count := l.ItemCount()
	if l.cursor >= count {
		l.cursor = count - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

func (l *EventList) ensureVisible() {
	// Size not known yet
	if l.maxVisible <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
}

func (l *EventList) clearFilter() {
	l.filterActive = false
	l.filterQuery = ""
	l.filteredIdx = nil
	l.filterInput.SetValue("")
	l.filterInput.Blur()
	l.recalcMaxVisible()
	l.clampCursor()
	l.ensureVisible()
}

func (l *EventList) applyFilter() {
	l.reapplyFilter()
	l.cursor = 0
	l.offset = 0
}

func (l *EventList) reapplyFilter() {
	query := l.filterInput.Value()
	l.filterQuery = query

	if query == "" {
		l.filteredIdx = nil
		return
	}

	targets := make([]string, len(l.events))
	for i, ev := range l.events {
		targets[i] = strings.ToLower(filterText(ev))
	}

	matches := fuzzy.Find(strings.ToLower(query), targets)

	l.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		l.filteredIdx[i] = match.Index
	}
}

// filterText is what the local filter matches against
func filterText(ev domain.Event) string {
	if venue, ok := ev.PrimaryVenue(); ok && venue.Name != "" {
		return ev.Name + " " + venue.Name
	}
	return ev.Name
}

func (l *EventList) mapIndex(i int) int {
	if l.filteredIdx != nil && i < len(l.filteredIdx) {
		return l.filteredIdx[i]
	}
	return i
}

// Rendering

func (l *EventList) renderContent() string {
	itemWidth := l.width - BorderWidth
	if itemWidth < 10 {
		itemWidth = 10
	}

	titleLine := styles.AccentStyle.Render(styles.Truncate(l.title, itemWidth))

	if l.loading {
		loadingLine := styles.DimStyle.Render(styles.Spinner(l.spinnerFrame) + " Loading...")
		return titleLine + "\n \n" + loadingLine + "\n "
	}

	count := l.ItemCount()
	if count == 0 {
		msg := styles.DimStyle.Render(l.emptyText)
		if l.errText != "" {
			msg = styles.ErrorStyle.Render(l.errText)
		} else if l.filterActive && l.filterQuery != "" {
			msg = styles.DimStyle.Render("No matches")
		}
		content := titleLine + "\n \n" + msg + "\n "
		if l.filterActive {
			content += "\n" + l.renderFilterBar()
		}
		return content
	}

	end := l.offset + l.maxVisible
	if end > count {
		end = count
	}

	lines := make([]string, 0, end-l.offset)
	for i := l.offset; i < end; i++ {
		lines = append(lines, l.renderEvent(l.events[l.mapIndex(i)], i == l.cursor, itemWidth))
	}

	// Always reserve the indicator lines so the layout does not shift
	header := " "
	if l.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}

	footer := " "
	switch {
	case l.loadingMore:
		footer = styles.DimStyle.Render(styles.Spinner(l.spinnerFrame) + " Loading more...")
	case l.errText != "":
		footer = styles.ErrorStyle.Render(styles.Truncate(l.errText, itemWidth))
	case end < count:
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if l.filterActive {
		content += "\n" + l.renderFilterBar()
	}
	return content
}

func (l *EventList) renderEvent(ev domain.Event, selected bool, width int) string {
	marker := "  "
	markerFg := styles.DimGray
	if l.favorites[ev.ID] {
		marker = styles.FavoriteChar + " "
		markerFg = styles.Pink
	}

	date := format.Date(ev.Start.LocalDate)
	dateWidth := lipgloss.Width(date)

	nameWidth := width - 4 - dateWidth - 2
	if nameWidth < 8 {
		nameWidth = 8
		date = ""
	}
	name := styles.Truncate(ev.Name, nameWidth)

	// Right-align the date
	gap := width - 2 - lipgloss.Width(marker) - lipgloss.Width(name) - lipgloss.Width(date)
	if gap < 1 {
		gap = 1
	}

	dateFg := styles.DimGray
	parts := []styles.RowPart{
		{Text: marker, Foreground: &markerFg},
		{Text: name, Foreground: nil},
		{Text: strings.Repeat(" ", gap), Foreground: nil},
		{Text: date, Foreground: &dateFg},
	}
	return styles.RenderListRow(parts, selected, width)
}

func (l *EventList) renderFilterBar() string {
	input := l.filterInput.View()
	countStr := ""
	if l.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", l.ItemCount(), len(l.events)))
	}
	return input + countStr
}
