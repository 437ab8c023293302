package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mmcdole/marquee/internal/catalog/ticketmaster"
	"github.com/mmcdole/marquee/internal/config"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/launcher"
	"github.com/mmcdole/marquee/internal/log"
	"github.com/mmcdole/marquee/internal/service"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/mmcdole/marquee/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "marquee",
	Short: "Browse live events from the terminal",
	Long: `marquee searches the Ticketmaster Discovery catalog for live events,
shows their details and keeps a local list of favorites.

Run without arguments to start the interactive browser.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBrowser,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "marquee %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the wired dependencies shared by every command
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *store.Store
	catalog   *ticketmaster.Client
	favorites *service.FavoritesService
	closers   []func() error
}

// newApp loads configuration and opens storage. The catalog client is only
// built when an API key is configured.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a := &app{cfg: cfg}

	logger, closer, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	} else {
		a.closers = append(a.closers, closer.Close)
	}
	slog.SetDefault(logger)
	a.logger = logger

	st, err := store.Open(cfg.Storage.DataDir)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	a.store = st
	a.closers = append(a.closers, st.Close)

	a.favorites = service.NewFavoritesService(st, logger)

	if cfg.IsConfigured() {
		a.catalog = ticketmaster.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, ticketmaster.Options{
			Sort:        domain.SortOrder(cfg.Catalog.Sort),
			City:        cfg.Catalog.City,
			CountryCode: cfg.Catalog.Country,
			Timeout:     time.Duration(cfg.Catalog.TimeoutSec) * time.Second,
			RetryMax:    cfg.Catalog.RetryMax,
		}, logger)
	}

	return a, nil
}

// requireCatalog fails commands that need the API key
func (a *app) requireCatalog() error {
	if a.catalog == nil {
		return fmt.Errorf("no API key configured: run marquee to set one up or export %s", config.APIKeyEnv)
	}
	return nil
}

func (a *app) newSession() *service.SearchSession {
	return service.NewSearchSession(a.catalog, service.SearchOptions{
		DefaultKeyword: a.cfg.Search.DefaultKeyword,
		Dedupe:         a.cfg.Search.Dedupe,
	}, a.logger)
}

// close releases resources in reverse order of acquisition
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.logger != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}

func runBrowser(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.logger.Info("starting marquee", "version", Version)

	// Check if configured
	if !a.cfg.IsConfigured() {
		return runSetupFlow(a.cfg)
	}

	opener := launcher.New(a.cfg.Browser.Command, a.cfg.Browser.Args, a.logger)
	model := tui.NewModel(a.newSession(), a.catalog, a.favorites, opener, a.logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	a.logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}
