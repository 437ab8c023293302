package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/export"
)

var (
	favoritesMatch string
	exportOut      string
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage saved events",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print saved events in start order",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesList,
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <id>...",
	Short: "Remove events from favorites",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFavoritesRemove,
}

var favoritesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write saved events as an iCalendar file",
	Long: `Export writes every saved event as a VEVENT so the list can be imported
into a calendar application. Output goes to stdout unless --out is set.`,
	Args: cobra.NoArgs,
	RunE: runFavoritesExport,
}

func init() {
	rootCmd.AddCommand(favoritesCmd)
	favoritesCmd.AddCommand(favoritesListCmd, favoritesRemoveCmd, favoritesExportCmd)

	favoritesListCmd.Flags().StringVarP(&favoritesMatch, "match", "m", "", "Only show events whose name, venue or city match")
	favoritesExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	events := a.favorites.All()
	if favoritesMatch != "" {
		events = a.favorites.Match(favoritesMatch)
	}

	if len(events) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No favorites")
		return nil
	}

	return printEvents(cmd.OutOrStdout(), events, nil)
}

func runFavoritesRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	for _, id := range args {
		removed, err := a.favorites.Remove(id)
		if err != nil {
			return fmt.Errorf("remove %s: %w", id, err)
		}
		if !removed {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s is not a favorite\n", id)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
	}
	return nil
}

func runFavoritesExport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	events := a.favorites.All()
	if exportOut == "" {
		return writeCalendar(cmd.OutOrStdout(), events)
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", exportOut, err)
	}
	if err := writeCalendar(f, events); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d events to %s\n", len(events), exportOut)
	return nil
}

func writeCalendar(w io.Writer, events []domain.Event) error {
	return export.WriteICS(w, events, export.Options{})
}
