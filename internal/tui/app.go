package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cumulus13/gsearch/internal/config"
	"github.com/cumulus13/gsearch/internal/session"
)

// SessionFactory builds a session for a query typed at the prompt. Every new
// query gets a fresh session with an empty page cache.
type SessionFactory func(query string) *session.Session

// LinkOpener hands a URL to the system browser. *browser.Launcher satisfies it.
type LinkOpener interface {
	Open(url string) error
}

const resultsPlaceholder = "command or new search"

// App is the bubbletea model for the interactive page navigator. It runs
// inline rather than in the alternate screen, so fetched pages stay in the
// terminal scrollback after quitting.
type App struct {
	cfg        *config.Config
	newSession SessionFactory
	opener     LinkOpener
	keyHandler *KeyHandler

	sess    *session.Session
	current *session.PageView
	page    int // page on screen, 0 before the first successful fetch

	view        View
	input       textinput.Model
	spin        spinner.Model
	st          styles
	status      string
	statusKind  StatusKind
	width       int
	pendingPage int
	loading     bool
	quitting    bool
}

func NewApp(query string, factory SessionFactory, opener LinkOpener, cfg *config.Config) *App {
	st := newStyles(cfg.Output.Colors)

	ti := textinput.New()
	ti.Prompt = CompactLogo + " "
	ti.Placeholder = resultsPlaceholder
	ti.CharLimit = 256
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = st.info

	a := &App{
		cfg:        cfg,
		newSession: factory,
		opener:     opener,
		sess:       factory(query),
		view:       ViewResults,
		input:      ti,
		spin:       sp,
		st:         st,
		width:      100,
	}
	a.keyHandler = NewKeyHandler(a)
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.spin.Tick, a.loadPage(1))
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			a.width = msg.Width
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case pageLoadedMsg:
		return a.handlePageLoaded(msg.view)

	case pageFailedMsg:
		a.loading = false
		a.setStatus(StatusError, MsgFetchFailed(msg.err))
		return a, nil

	case linkOpenedMsg:
		a.setStatus(StatusSuccess, MsgOpened(msg.url))
		return a, nil

	case openFailedMsg:
		a.setStatus(StatusError, msg.err.Error())
		return a, nil
	}

	return a, nil
}

// handlePageLoaded folds one fetched page into the model. An empty page ends
// the walk, a stale one keeps the loop alive with a warning.
func (a *App) handlePageLoaded(v *session.PageView) (tea.Model, tea.Cmd) {
	a.loading = false

	if v.Empty {
		if a.current == nil {
			a.setStatus(StatusWarn, MsgNoResults)
		} else {
			a.setStatus(StatusInfo, MsgEndOfResults)
		}
		a.quitting = true
		return a, tea.Quit
	}

	a.current = v
	a.page = v.Page

	switch {
	case v.Stale:
		a.setStatus(StatusWarn, MsgStale(v.Page))
	case v.SaveErr != nil:
		a.setStatus(StatusWarn, MsgSaveFailed(v.SaveErr))
	case v.SavedTo != "":
		a.setStatus(StatusSuccess, MsgSavedTo(v.SavedTo))
	case v.Cached:
		a.setStatus(StatusInfo, MsgCachedPage(v.Page))
	default:
		a.setStatus(StatusInfo, MsgResultsSummary(a.sess.TotalResults(), a.sess.TotalPages()))
	}

	return a, nil
}

func (a *App) setStatus(kind StatusKind, text string) {
	a.statusKind = kind
	a.status = text
}

func (a *App) enterGoto() {
	a.view = ViewGoto
	a.input.Placeholder = MsgGotoHint
	a.input.SetValue("")
}

func (a *App) leaveGoto() {
	a.view = ViewResults
	a.input.Placeholder = resultsPlaceholder
	a.input.SetValue("")
}

func (a *App) View() string {
	var b strings.Builder

	subtitle := ""
	if a.page > 0 {
		subtitle = fmt.Sprintf("page %d/%d • %s",
			a.page, a.sess.TotalPages(), MsgResultsCount(a.sess.TotalResults()))
	}
	b.WriteString(a.st.renderHeader(a.sess.Query, subtitle, a.width))
	b.WriteString("\n")

	switch {
	case a.loading:
		b.WriteString("\n" + a.spin.View() + " " + a.st.muted.Render(MsgFetching(a.pendingPage)) + "\n")
	case a.current != nil:
		b.WriteString("\n")
		b.WriteString(a.st.renderResults(a.current.Items))
		b.WriteString("\n")
	}

	if a.status != "" {
		b.WriteString(a.st.statusStyle(a.statusKind).Render(a.status))
		b.WriteString("\n")
	}

	if a.quitting {
		return b.String()
	}

	b.WriteString(a.input.View())
	b.WriteString("\n")
	b.WriteString(a.st.renderHelp(a.keyHandler.HelpForCurrentView()))
	b.WriteString("\n")

	return b.String()
}
