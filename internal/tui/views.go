package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/marquee/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	contentHeight := m.Height - ChromeHeight

	var content string
	switch {
	case m.SearchBar.IsVisible():
		content = lipgloss.Place(m.Width, contentHeight,
			lipgloss.Center, lipgloss.Center,
			m.SearchBar.View())
	case m.State == StateDetail:
		content = m.Detail.View()
	case m.Tab == TabFavorites:
		content = m.FavoritesList.View()
	default:
		content = m.EventList.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		content,
		m.renderFooter(),
	)
}

// renderTabs renders the tab strip
func (m Model) renderTabs() string {
	events := styles.InactiveTabStyle.Render("Events")
	favorites := styles.InactiveTabStyle.Render("Favorites")
	if m.Tab == TabEvents {
		events = styles.ActiveTabStyle.Render("Events")
	} else {
		favorites = styles.ActiveTabStyle.Render("Favorites")
	}

	brand := styles.AccentStyle.Bold(true).Render("marquee")
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, events, " ", favorites)

	gap := m.Width - lipgloss.Width(tabs) - lipgloss.Width(brand) - 1
	if gap < 1 {
		gap = 1
	}
	return tabs + strings.Repeat(" ", gap) + brand
}

// renderFooter renders the status line
func (m Model) renderFooter() string {
	// Left side: spinner while fetching, else the status message
	var left string
	switch {
	case m.StatusMsg != "":
		switch {
		case m.StatusIsErr:
			left = styles.ErrorStyle.Render(m.StatusMsg)
		case m.StatusIsOK:
			left = styles.SuccessStyle.Render(m.StatusMsg)
		default:
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	case m.Session.InFlight():
		left = styles.AccentStyle.Render(styles.Spinner(m.SpinnerFrame)) + " " +
			styles.DimStyle.Render("Searching "+m.Session.Keyword()+"...")
	}

	// Center: context-specific hints
	var center string
	switch {
	case m.SearchBar.IsVisible():
	case m.State == StateDetail:
		center = hint("f", "favorite") + "  " + hint("t", "tickets") + "  " + hint("m", "map") + "  " + hint("esc", "back")
	case m.Tab == TabFavorites:
		center = hint("/", "filter") + "  " + hint("enter", "details")
	default:
		center = hint("/", "search") + "  " + hint("r", "refresh") + "  " + hint("enter", "details")
	}

	right := hint("?", "help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		// Not enough space - just left + right
		gap := m.Width - leftWidth - rightWidth
		if gap < 0 {
			gap = 0
		}
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

func hint(key, desc string) string {
	return styles.HelpKeyStyle.Render(key) + styles.HelpDescStyle.Render(" "+desc)
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
NAVIGATION                      EVENT DETAILS
  j/k        Up/down              f      Toggle favorite
  g/G        First/last item      t      Buy tickets
  PgUp/PgDn  Scroll page          m      Open venue map
  Ctrl+u/d   Scroll half page     r      Retry loading
  Enter      Event details        Esc    Back to list
  Tab        Events/Favorites

EVENTS                          FAVORITES
  /          Search keyword       /      Filter saved events
  r          Refresh              r      Reload

  q          Quit                 ?      This help

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}
