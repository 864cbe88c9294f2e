package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// commandKind says what a submitted prompt line asks for.
type commandKind int

const (
	cmdUnknown commandKind = iota
	cmdNext
	cmdPrev
	cmdGoto       // jump straight to command.page
	cmdGotoPrompt // bare "g", ask for the page first
	cmdOpen       // open result command.index in the browser
	cmdSearch     // start a fresh session for command.query
	cmdQuit
)

type command struct {
	kind  commandKind
	page  int    // cmdGoto target, 0 when the token was not numeric
	index int    // cmdOpen selection, 1-based
	query string // cmdSearch text
}

// parseCommand maps one submitted line onto the navigation grammar. Reserved
// tokens are matched case-insensitively, which means single letters like "n"
// cannot be searched for from inside the loop.
func parseCommand(line string) command {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return command{kind: cmdUnknown}
	}

	switch strings.ToLower(trimmed) {
	case "n":
		return command{kind: cmdNext}
	case "p":
		return command{kind: cmdPrev}
	case "g":
		return command{kind: cmdGotoPrompt}
	case "q", "quit", "e", "exit":
		return command{kind: cmdQuit}
	}

	fields := strings.Fields(trimmed)
	if strings.EqualFold(fields[0], "g") {
		page := 0
		if len(fields) == 2 {
			if n, err := strconv.Atoi(fields[1]); err == nil {
				page = n
			}
		}
		return command{kind: cmdGoto, page: page}
	}

	if isDigits(trimmed) {
		n, _ := strconv.Atoi(trimmed)
		return command{kind: cmdOpen, index: n}
	}

	return command{kind: cmdSearch, query: sanitizeQuery(trimmed)}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// sanitizeQuery collapses whitespace runs and caps the query length before
// it is handed to the API.
func sanitizeQuery(s string) string {
	s = flattenSpace(s)
	if r := []rune(s); len(r) > 256 {
		s = string(r[:256])
	}
	return s
}

// KeyHandler routes key events for the App.
type KeyHandler struct {
	app *App
}

func NewKeyHandler(app *App) *KeyHandler {
	return &KeyHandler{app: app}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	if msg.Type == tea.KeyCtrlC {
		a.quitting = true
		return a, tea.Quit
	}

	// The prompt is inert while a fetch is in flight
	if a.loading {
		return a, nil
	}

	if a.view == ViewGoto {
		return kh.handleGotoKeys(msg)
	}
	return kh.handleResultKeys(msg)
}

func (kh *KeyHandler) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch msg.Type {
	case tea.KeyEsc:
		a.quitting = true
		return a, tea.Quit
	case tea.KeyEnter:
		line := a.input.Value()
		a.input.SetValue("")
		return kh.execute(parseCommand(line))
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (kh *KeyHandler) handleGotoKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch msg.Type {
	case tea.KeyEsc:
		a.leaveGoto()
		return a, nil
	case tea.KeyEnter:
		raw := strings.TrimSpace(a.input.Value())
		a.leaveGoto()
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 || page > a.sess.TotalPages() {
			a.setStatus(StatusWarn, MsgPageOutOfRange(a.sess.TotalPages()))
			return a, nil
		}
		return a, a.loadPage(page)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (kh *KeyHandler) execute(c command) (tea.Model, tea.Cmd) {
	a := kh.app

	switch c.kind {
	case cmdQuit:
		a.quitting = true
		return a, tea.Quit

	case cmdSearch:
		return a, a.startSearch(c.query)

	case cmdNext:
		if a.page >= a.sess.TotalPages() {
			a.setStatus(StatusInfo, MsgLastPage)
			return a, nil
		}
		return a, a.loadPage(a.page + 1)

	case cmdPrev:
		if a.page <= 1 {
			a.setStatus(StatusInfo, MsgFirstPage)
			return a, nil
		}
		return a, a.loadPage(a.page - 1)

	case cmdGoto:
		if c.page < 1 || c.page > a.sess.TotalPages() {
			a.setStatus(StatusWarn, MsgPageOutOfRange(a.sess.TotalPages()))
			return a, nil
		}
		return a, a.loadPage(c.page)

	case cmdGotoPrompt:
		a.enterGoto()
		return a, nil

	case cmdOpen:
		if a.current == nil || c.index < 1 || c.index > len(a.current.Items) {
			count := 0
			if a.current != nil {
				count = len(a.current.Items)
			}
			a.setStatus(StatusWarn, MsgSelectionOutOfRange(count))
			return a, nil
		}
		link := a.current.Items[c.index-1].Link
		a.setStatus(StatusInfo, MsgOpening(link))
		return a, a.openLink(link)
	}

	a.setStatus(StatusWarn, MsgUnknownCommand)
	return a, nil
}

// HelpForCurrentView returns the hint line under the prompt.
func (kh *KeyHandler) HelpForCurrentView() string {
	switch kh.app.view {
	case ViewGoto:
		return fmt.Sprintf("enter a page between 1 and %d • esc cancels", kh.app.sess.TotalPages())
	default:
		return "n next • p prev • g page • number opens • q quits • anything else searches"
	}
}
