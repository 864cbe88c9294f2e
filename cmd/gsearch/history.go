package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/cumulus13/gsearch/internal/config"
	"github.com/cumulus13/gsearch/internal/debuglog"
	"github.com/cumulus13/gsearch/internal/recall"
	"github.com/cumulus13/gsearch/internal/storage"
	"github.com/cumulus13/gsearch/internal/tui"
	"github.com/cumulus13/gsearch/internal/validation"
)

var (
	flagHistoryLimit int
	flagFindLimit    int
	flagClearYes     bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and search past searches",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recorded searches, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, store, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		searches, err := store.GetAllSearches()
		if err != nil {
			return fmt.Errorf("reading history: %w", err)
		}
		if len(searches) == 0 {
			fmt.Println("No searches recorded yet.")
			return nil
		}
		if flagHistoryLimit > 0 && len(searches) > flagHistoryLimit {
			searches = searches[:flagHistoryLimit]
		}

		fmt.Println(renderSearchTable(searches))
		return nil
	},
}

var historyFindCmd = &cobra.Command{
	Use:   "find <terms>...",
	Short: "Search across recorded queries and results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		finder, closeFinder := openFinder(store, cfg.History.Index)
		defer closeFinder()

		if ds, ok := finder.(recall.DebugStatser); ok {
			if n, err := ds.DocCount(); err == nil {
				debuglog.Debugf("history index holds %d documents", n)
			}
		}

		hits, err := finder.Find(strings.Join(args, " "), flagFindLimit)
		if err != nil {
			return fmt.Errorf("searching history: %w", err)
		}
		if len(hits) == 0 {
			fmt.Println("No matches in history.")
			return nil
		}

		fmt.Print(renderHits(hits))
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded searches",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !flagClearYes {
			fmt.Println("This deletes every recorded search. Rerun with --yes to confirm.")
			return nil
		}

		cfg, store, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		finder, closeFinder := openFinder(store, cfg.History.Index)
		defer closeFinder()

		if err := store.Clear(); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		if cl, ok := finder.(recall.ClearListener); ok {
			cl.OnHistoryCleared()
		}

		fmt.Println("History cleared.")
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "show at most this many searches, 0 for all")
	historyFindCmd.Flags().IntVar(&flagFindLimit, "limit", 10, "show at most this many matches")
	historyClearCmd.Flags().BoolVar(&flagClearYes, "yes", false, "skip the confirmation")

	historyCmd.AddCommand(historyListCmd, historyFindCmd, historyClearCmd)
}

// openHistory loads the config and opens the history store the subcommands
// work against.
func openHistory(cmd *cobra.Command) (*config.Config, *storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	dbPath, err := validation.DBPath(cfg.History.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving history path: %w", err)
	}
	store, err := storage.NewStore(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening history: %w", err)
	}
	return cfg, store, nil
}

// openFinder prefers the bleve index and falls back to scanning the store
// when the index cannot be opened.
func openFinder(store *storage.Store, indexPath string) (recall.Finder, func() error) {
	ix, err := recall.OpenIndex(store, indexPath)
	if err != nil {
		debuglog.Warnf("index unavailable, scanning the store instead: %v", err)
		return recall.NewEngine(store), func() error { return nil }
	}
	return ix, ix.Close
}

func renderSearchTable(searches []*storage.Search) string {
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(tui.MutedColor)).
		Headers("Query", "Results", "Pages", "Updated")

	for _, s := range searches {
		query := s.Query
		if r := []rune(query); len(r) > 48 {
			query = string(r[:47]) + "…"
		}
		tbl.Row(
			query,
			strconv.Itoa(s.TotalResults),
			strconv.Itoa(len(s.PagesFetched)),
			s.UpdatedAt.Format("2006-01-02 15:04"),
		)
	}

	return tbl.Render()
}

func renderHits(hits []*recall.Hit) string {
	var b strings.Builder
	for i, h := range hits {
		switch {
		case h.IsResult && h.Result != nil:
			b.WriteString(fmt.Sprintf("%2d. %s\n", i+1, tui.HeaderStyle.Render(h.Result.Title)))
			b.WriteString(fmt.Sprintf("    %s\n", h.Result.Link))
			b.WriteString(fmt.Sprintf("    from %q, page %d\n", h.Result.Query, h.Result.Page))
		case h.Search != nil:
			b.WriteString(fmt.Sprintf("%2d. %s\n", i+1, tui.HeaderStyle.Render(h.Search.Query)))
			b.WriteString(fmt.Sprintf("    %s, last run %s\n",
				tui.MsgResultsCount(h.Search.TotalResults),
				h.Search.UpdatedAt.Format("2006-01-02")))
		}
	}
	return b.String()
}
