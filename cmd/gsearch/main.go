package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/cumulus13/gsearch/internal/browser"
	"github.com/cumulus13/gsearch/internal/config"
	"github.com/cumulus13/gsearch/internal/debuglog"
	"github.com/cumulus13/gsearch/internal/google"
	"github.com/cumulus13/gsearch/internal/recall"
	"github.com/cumulus13/gsearch/internal/session"
	"github.com/cumulus13/gsearch/internal/sink"
	"github.com/cumulus13/gsearch/internal/storage"
	"github.com/cumulus13/gsearch/internal/tui"
	"github.com/cumulus13/gsearch/internal/validation"
)

// Version is the version of the application, set at build time.
var Version = "dev"

var (
	flagConfig    string
	flagAPIKey    string
	flagCSEID     string
	flagMax       int
	flagSaveDir   string
	flagBrowser   string
	flagNoHistory bool
	flagLogLevel  string
	flagLogFile   string
	flagQuiet     bool
)

var rootCmd = &cobra.Command{
	Use:   "gsearch [query...]",
	Short: "Google search from the terminal",
	Long: `gsearch runs a Google Custom Search and opens an interactive prompt
for walking the result pages. At the prompt, n and p move between pages,
g jumps to one, a result number opens its link in the browser, and any
other text starts a new search. q quits.`,
	Example: `  gsearch golang generics
  gsearch --max 20 --save ./results rust async traits
  gsearch history find bleve`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSearch,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("gsearch %s\n", Version)
		fmt.Println("Google Custom Search client")
		fmt.Println("github.com/cumulus13/gsearch")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a default configuration file",
	RunE: func(_ *cobra.Command, _ []string) error {
		path := config.DefaultConfigPath()
		if err := config.GenerateDefaultConfig(path); err != nil {
			return fmt.Errorf("generating config: %w", err)
		}
		fmt.Printf("Generated default configuration at: %s\n", path)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "path to the configuration file")
	pf.StringVar(&flagLogLevel, "log-level", "", "debug log level (debug, info, warn, error, off)")
	pf.StringVar(&flagLogFile, "log-file", "", "debug log destination")

	f := rootCmd.Flags()
	f.StringVar(&flagAPIKey, "apikey", "", "Google API key, overrides config and environment")
	f.StringVar(&flagCSEID, "cseid", "", "custom search engine ID, overrides config and environment")
	f.IntVar(&flagMax, "max", 10, "results per page, the API serves at most 10")
	f.StringVar(&flagSaveDir, "save", "", "write each fetched page to this directory")
	f.Lookup("save").NoOptDefVal = "."
	f.StringVar(&flagBrowser, "browser", "", "browser command for opening results")
	f.BoolVar(&flagNoHistory, "no-history", false, "do not record this search in history")
	f.BoolVar(&flagQuiet, "quiet", false, "skip the startup banner")

	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(versionCmd, configCmd, historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, tui.ErrorMessageStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	query := strings.Join(args, " ")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer debuglog.Close()

	if !flagQuiet {
		tui.ShowBanner(Version)
	}

	if cfg.API.Key == "" || cfg.API.CSEID == "" {
		fmt.Println(tui.ErrorMessageStyle.Render("Missing Google API credentials."))
		fmt.Println(tui.GetCompactBanner(
			"Set GOOGLE_API_KEY and GOOGLE_CSE_ID, pass --apikey and --cseid,\n" +
				"or run 'gsearch config generate' and fill in the api section."))
		return nil
	}

	client := google.NewClient(cfg.API.Key, cfg.API.CSEID,
		google.WithBaseURL(cfg.API.BaseURL),
		google.WithUserAgent(cfg.API.UserAgent),
		google.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
	)

	opts := []session.Option{session.WithPerPage(perPageFor(cfg))}

	if cfg.Output.SaveDir != "" {
		dir, err := validation.SaveDirPath(cfg.Output.SaveDir)
		if err == nil {
			var sv *sink.Sink
			if sv, err = sink.New(dir); err == nil {
				opts = append(opts, session.WithSaver(sv))
			}
		}
		if err != nil {
			// Saving is best effort, the search still runs
			debuglog.Warnf("save directory unusable: %v", err)
			fmt.Println(tui.HelpStyle.Render("Results will not be saved: " + err.Error()))
		}
	}

	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}()

	if cfg.History.Enabled {
		recorder, closer, err := openRecorder(cfg)
		if err != nil {
			debuglog.Warnf("history unavailable: %v", err)
		} else {
			closers = append(closers, closer...)
			opts = append(opts, session.WithRecorder(recorder))
		}
	}

	launcher := browser.NewLauncher(cfg.Browser.Path)
	debuglog.Infof("using browser %q", launcher.Browser())

	factory := func(q string) *session.Session {
		return session.New(q, client, opts...)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := tui.NewApp(query, factory, launcher, cfg)
	if _, err := tea.NewProgram(app, tea.WithContext(ctx)).Run(); err != nil {
		// A killed context is an external interrupt, not a failure.
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return fmt.Errorf("running interface: %w", err)
	}
	return nil
}

// loadConfig reads the config file, folds command line flags over it and
// starts the debug log.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)

	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.File); err != nil {
		fmt.Fprintln(os.Stderr, "debug log disabled:", err)
	}
	return cfg, nil
}

// applyFlags lays explicitly set flags over the loaded config. Flags beat
// the file, the file beats the environment.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("apikey") {
		cfg.API.Key = flagAPIKey
	}
	if f.Changed("cseid") {
		cfg.API.CSEID = flagCSEID
	}
	if f.Changed("max") {
		cfg.Search.MaxResults = clampMaxResults(flagMax)
	}
	if f.Changed("save") {
		cfg.Output.SaveDir = flagSaveDir
	}
	if f.Changed("browser") {
		cfg.Browser.Path = flagBrowser
	}
	if f.Changed("no-history") && flagNoHistory {
		cfg.History.Enabled = false
	}
	if f.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if f.Changed("log-file") {
		cfg.Log.File = flagLogFile
	}
}

// clampMaxResults keeps --max inside [1, 100], warning when it was cut.
func clampMaxResults(n int) int {
	switch {
	case n < 1:
		fmt.Fprintln(os.Stderr, tui.HelpStyle.Render("--max must be at least 1, using 1"))
		return 1
	case n > 100:
		fmt.Fprintln(os.Stderr, tui.HelpStyle.Render("--max capped at 100"))
		return 100
	}
	return n
}

// perPageFor derives the page size the session requests. The API never
// serves more than ten per request, so larger budgets arrive via paging.
func perPageFor(cfg *config.Config) int {
	perPage := cfg.Search.PerPage
	if perPage < 1 || perPage > google.MaxPerPage {
		perPage = google.MaxPerPage
	}
	if cfg.Search.MaxResults > 0 && cfg.Search.MaxResults < perPage {
		perPage = cfg.Search.MaxResults
	}
	return perPage
}

// openRecorder opens the history store and, when possible, the search index
// on top of it so recorded pages become findable immediately.
func openRecorder(cfg *config.Config) (session.Recorder, []func() error, error) {
	dbPath, err := validation.DBPath(cfg.History.Path)
	if err != nil {
		return nil, nil, err
	}
	store, err := storage.NewStore(dbPath)
	if err != nil {
		return nil, nil, err
	}
	closers := []func() error{store.Close}

	ixPath, err := validation.IndexPath(cfg.History.Index)
	if err == nil {
		var ix *recall.Index
		ix, err = recall.OpenIndex(store, ixPath)
		if err == nil {
			closers = append(closers, ix.Close)
			return ix, closers, nil
		}
	}
	debuglog.Warnf("search index unavailable, recording without it: %v", err)
	return store, closers, nil
}
