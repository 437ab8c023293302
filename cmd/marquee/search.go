package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/format"
)

var (
	searchPages int
	searchWait  time.Duration
)

var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search the catalog and print matching events",
	Long: `Search runs the same paginated search as the browser and prints one
event per line. Use --pages to follow more than the first page.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVarP(&searchPages, "pages", "p", 1, "Number of pages to fetch")
	searchCmd.Flags().DurationVar(&searchWait, "timeout", time.Minute, "Overall time limit")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.requireCatalog(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), searchWait)
	defer cancel()

	session := a.newSession()
	defer session.Dispose()

	keyword := strings.Join(args, " ")
	req, ok := session.Search(keyword)
	for fetched := 0; ok && fetched < searchPages; fetched++ {
		session.Apply(session.Fetch(ctx, req))
		if state := session.State(); state.Failed {
			return fmt.Errorf("search %q: %w", keyword, state.LastErr)
		}
		req, ok = session.LoadMore()
	}

	events := session.Results()
	if len(events) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No events found for %q\n", keyword)
		return nil
	}

	favorites := a.favorites
	return printEvents(cmd.OutOrStdout(), events, func(id string) bool {
		return favorites.IsFavorite(id)
	})
}

// printEvents writes events as an aligned table
func printEvents(out io.Writer, events []domain.Event, isFavorite func(string) bool) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, " \tDATE\tNAME\tVENUE\tPRICE\tID")

	for _, ev := range events {
		mark := " "
		if isFavorite != nil && isFavorite(ev.ID) {
			mark = "★"
		}

		venue := ""
		if v, ok := ev.PrimaryVenue(); ok {
			venue = v.Name
			if loc := v.Locality(); loc != "" {
				venue += ", " + loc
			}
		}

		price := ""
		if p, ok := ev.PrimaryPrice(); ok {
			price = format.Price(p)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			mark, format.When(ev.Start), ev.Name, venue, price, ev.ID)
	}

	return w.Flush()
}
