package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/format"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// DetailState is the fetch state of the detail view
type DetailState int

const (
	DetailIdle DetailState = iota
	DetailLoading
	DetailError
	DetailLoaded
)

// Detail shows one event fetched by id
type Detail struct {
	state    DetailState
	id       string
	summary  domain.Event // List snapshot, shown while loading
	event    domain.Event
	errText  string
	favorite bool

	vp           viewport.Model
	width        int
	height       int
	spinnerFrame int
}

// NewDetail creates an idle detail view
func NewDetail() Detail {
	return Detail{vp: viewport.New(0, 0)}
}

// Load resets the view for summary.ID and enters the loading state
func (d *Detail) Load(summary domain.Event, favorite bool) {
	d.state = DetailLoading
	d.id = summary.ID
	d.summary = summary
	d.event = domain.Event{}
	d.errText = ""
	d.favorite = favorite
	d.vp.GotoTop()
	d.refresh()
}

// Retry re-enters the loading state for the current id
func (d *Detail) Retry() {
	d.state = DetailLoading
	d.errText = ""
	d.refresh()
}

// SetLoaded shows the fetched event
func (d *Detail) SetLoaded(ev domain.Event) {
	d.state = DetailLoaded
	d.event = ev
	d.errText = ""
	d.refresh()
}

// SetError shows the error state
func (d *Detail) SetError(text string) {
	d.state = DetailError
	d.errText = text
	d.refresh()
}

// SetFavorite updates the favorite marker
func (d *Detail) SetFavorite(favorite bool) {
	d.favorite = favorite
	d.refresh()
}

// SetSpinnerFrame updates the spinner animation frame
func (d *Detail) SetSpinnerFrame(frame int) {
	d.spinnerFrame = frame
	if d.state == DetailLoading {
		d.refresh()
	}
}

// ID returns the event id being shown
func (d Detail) ID() string { return d.id }

// State returns the fetch state
func (d Detail) State() DetailState { return d.state }

// IsFavorite returns the favorite marker
func (d Detail) IsFavorite() bool { return d.favorite }

// Event returns the fetched event, or the list snapshot before it arrives
func (d Detail) Event() domain.Event {
	if d.state == DetailLoaded {
		return d.event
	}
	return d.summary
}

// SetSize updates the component dimensions
func (d *Detail) SetSize(width, height int) {
	d.width = width
	d.height = height

	frameW, frameH := styles.ActiveBorder.GetFrameSize()
	d.vp.Width = max(width-frameW-2, 10)
	d.vp.Height = max(height-frameH-2, 1) // title + blank line
	d.refresh()
}

// Update scrolls the body
func (d Detail) Update(msg tea.Msg) (Detail, tea.Cmd) {
	var cmd tea.Cmd
	d.vp, cmd = d.vp.Update(msg)
	return d, cmd
}

// View renders the detail panel
func (d Detail) View() string {
	style := styles.ActiveBorder
	frameW, frameH := style.GetFrameSize()

	title := styles.AccentStyle.Render(styles.Truncate("Event", max(d.width-frameW, 1)))
	content := title + "\n\n" + d.vp.View()

	return style.
		Width(max(d.width-frameW, 1)).
		Height(max(d.height-frameH, 1)).
		Padding(0, 1).
		Render(content)
}

func (d *Detail) refresh() {
	d.vp.SetContent(d.render(max(d.vp.Width, 10)))
}

func (d Detail) render(width int) string {
	ev := d.Event()

	var b strings.Builder

	marker := styles.DimStyle.Render(styles.NotFavoriteChar)
	if d.favorite {
		marker = styles.FavoriteStyle.Render(styles.FavoriteChar)
	}
	name := ev.Name
	if name == "" {
		name = ev.ID
	}
	b.WriteString(marker + " " + styles.TitleStyle.Render(lipgloss.NewStyle().Width(width-2).Render(name)))
	b.WriteString("\n\n")

	switch d.state {
	case DetailLoading:
		b.WriteString(styles.DimStyle.Render(styles.Spinner(d.spinnerFrame) + " Loading details..."))
		return b.String()
	case DetailError:
		b.WriteString(styles.ErrorStyle.Render(d.errText))
		b.WriteString("\n\n")
		b.WriteString(styles.DimStyle.Render("Press r to retry"))
		return b.String()
	}

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(styles.LabelStyle.Render(label))
		b.WriteString(lipgloss.NewStyle().Width(max(width-10, 10)).Render(value))
		b.WriteString("\n")
	}

	field("When", format.When(ev.Start))
	if venue, ok := ev.PrimaryVenue(); ok {
		field("Venue", venue.Name)
		field("Where", venue.Locality())
		if lat, lon, ok := venue.Coordinates(); ok {
			field("Map", fmt.Sprintf("%.4f, %.4f", lat, lon))
		}
	}
	field("Genre", ev.ClassificationText())
	if price, ok := ev.PrimaryPrice(); ok {
		field("Price", format.Price(price))
	}
	if ev.HasTicketURL() {
		field("Tickets", ev.URL)
	}
	if url, ok := ev.ImageURL(domain.PreferredImageRatio); ok {
		field("Image", url)
	}

	wrap := lipgloss.NewStyle().Width(width)
	if ev.Description != "" {
		b.WriteString("\n")
		b.WriteString(wrap.Render(ev.Description))
		b.WriteString("\n")
	}
	if ev.Info != "" {
		b.WriteString("\n")
		b.WriteString(styles.SubtitleStyle.Render(wrap.Render(ev.Info)))
		b.WriteString("\n")
	}

	return b.String()
}
