package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/marquee/internal/tui/styles"
)

const searchBarWidth = 44

// SearchBar is the keyword input shown over the events list
type SearchBar struct {
	visible bool
	input   textinput.Model
}

// NewSearchBar creates a hidden search bar
func NewSearchBar() SearchBar {
	ti := textinput.New()
	ti.Placeholder = "Artist, team, venue..."
	ti.CharLimit = 100
	ti.Width = searchBarWidth - 4
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return SearchBar{input: ti}
}

// Show displays the bar prefilled with the current keyword
func (b *SearchBar) Show(keyword string) {
	b.visible = true
	b.input.SetValue(keyword)
	b.input.CursorEnd()
	b.input.Focus()
}

// Hide dismisses the bar
func (b *SearchBar) Hide() {
	b.visible = false
	b.input.Blur()
}

// IsVisible returns whether the bar is shown
func (b SearchBar) IsVisible() bool {
	return b.visible
}

// Value returns the typed keyword
func (b SearchBar) Value() string {
	return b.input.Value()
}

// Update handles input events, returns (bar, cmd, submitted)
func (b SearchBar) Update(msg tea.Msg) (SearchBar, tea.Cmd, bool) {
	if !b.visible {
		return b, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return b, nil, true
		case "esc":
			b.Hide()
			return b, nil, false
		}
	}

	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	return b, cmd, false
}

// View renders the search modal
func (b SearchBar) View() string {
	if !b.visible {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.White).
		Bold(true).
		Width(searchBarWidth).
		Background(styles.SlateDark)

	inputStyle := lipgloss.NewStyle().
		Width(searchBarWidth).
		Background(styles.SlateDark)

	hintStyle := lipgloss.NewStyle().
		Foreground(styles.DimGray).
		Width(searchBarWidth).
		Background(styles.SlateDark)

	spacer := lipgloss.NewStyle().
		Width(searchBarWidth).
		Background(styles.SlateDark).
		Render("")

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Search events"),
		spacer,
		inputStyle.Render(b.input.View()),
		spacer,
		hintStyle.Render("enter search • esc cancel"),
	)

	return styles.ModalStyle.Render(content)
}
