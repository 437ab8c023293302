package launcher

import (
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/mmcdole/marquee/internal/domain"
)

const osmBaseURL = "https://www.openstreetmap.org/"

// osmZoom is the map zoom used for venue links
const osmZoom = 16

// startFunc starts a command without waiting for it; swapped in tests
type startFunc func(name string, args ...string) error

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Launcher opens links in an external browser
type Launcher struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments for the browser
	goos    string
	start   startFunc
	logger  *slog.Logger
}

// New creates a Launcher. An empty command selects the system default handler.
func New(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: command,
		args:    args,
		goos:    runtime.GOOS,
		start:   startCommand,
		logger:  logger,
	}
}

// Open opens rawURL in the configured browser or the system default.
// Only http(s) links are accepted.
func (l *Launcher) Open(rawURL string) error {
	if !domain.IsWebURL(rawURL) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidURL, rawURL)
	}

	if l.command != "" {
		return l.launchConfigured(rawURL)
	}
	return l.launchDefault(rawURL)
}

// OpenTickets opens the ticket purchase page of ev. Events without a usable
// link are logged and ignored.
func (l *Launcher) OpenTickets(ev domain.Event) error {
	if !ev.HasTicketURL() {
		l.logger.Warn("ignoring invalid ticket URL", "id", ev.ID, "url", ev.URL)
		return fmt.Errorf("%w: %q", domain.ErrInvalidURL, ev.URL)
	}
	return l.Open(ev.URL)
}

// OpenMap opens a map centered on the venue coordinates
func (l *Launcher) OpenMap(v domain.Venue) error {
	link, ok := MapURL(v)
	if !ok {
		l.logger.Warn("venue has no usable coordinates", "venue", v.Name)
		return fmt.Errorf("%w: venue %q has no coordinates", domain.ErrInvalidURL, v.Name)
	}
	return l.Open(link)
}

// MapURL builds an OpenStreetMap link with a marker at the venue
func MapURL(v domain.Venue) (string, bool) {
	lat, lon, ok := v.Coordinates()
	if !ok {
		return "", false
	}

	latStr := strconv.FormatFloat(lat, 'f', -1, 64)
	lonStr := strconv.FormatFloat(lon, 'f', -1, 64)

	query := url.Values{}
	query.Set("mlat", latStr)
	query.Set("mlon", lonStr)

	return fmt.Sprintf("%s?%s#map=%d/%s/%s", osmBaseURL, query.Encode(), osmZoom, latStr, lonStr), true
}

// launchConfigured opens the link with the configured browser
func (l *Launcher) launchConfigured(link string) error {
	args := append([]string{}, l.args...)

	// On macOS, GUI browsers are usually app bundles rather than PATH commands
	if l.goos == "darwin" {
		if _, err := exec.LookPath(l.command); err != nil {
			cmdArgs := []string{"-a", l.command}
			if len(args) > 0 {
				cmdArgs = append(cmdArgs, "--args")
				cmdArgs = append(cmdArgs, args...)
			}
			cmdArgs = append(cmdArgs, link)
			l.logger.Info("using macOS 'open -a' to launch browser", "app", l.command, "args", cmdArgs)
			return l.start("open", cmdArgs...)
		}
	}

	args = append(args, link)
	l.logger.Info("launching browser", "command", l.command, "url", link)
	return l.start(l.command, args...)
}

// launchDefault opens the link using the system default handler
func (l *Launcher) launchDefault(link string) error {
	l.logger.Info("launching with system default", "os", l.goos, "url", link)

	switch l.goos {
	case "darwin":
		return l.start("open", link)
	case "windows":
		return l.start("cmd", "/c", "start", "", link)
	default:
		// Linux and other Unix-like systems
		return l.start("xdg-open", link)
	}
}
