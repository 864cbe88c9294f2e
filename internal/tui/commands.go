package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cumulus13/gsearch/internal/session"
)

// Messages delivered back into Update by the commands below.
type pageLoadedMsg struct {
	view *session.PageView
}

type pageFailedMsg struct {
	page int
	err  error
}

type linkOpenedMsg struct {
	url string
}

type openFailedMsg struct {
	err error
}

// loadPage fetches one page of the active session off the Update loop. The
// loading flag flips here, synchronously, so the prompt is inert before the
// request even starts.
func (a *App) loadPage(page int) tea.Cmd {
	a.loading = true
	a.pendingPage = page
	sess := a.sess
	return func() tea.Msg {
		view, err := sess.GetPage(context.Background(), page)
		if err != nil {
			return pageFailedMsg{page: page, err: err}
		}
		return pageLoadedMsg{view: view}
	}
}

// startSearch swaps in a fresh session for the query and fetches its first
// page. The old session's cache and totals go with it.
func (a *App) startSearch(query string) tea.Cmd {
	a.sess = a.newSession(query)
	a.current = nil
	a.page = 0
	return a.loadPage(1)
}

// openLink hands a result URL to the browser launcher. The spawn is detached,
// so this returns as soon as the process started.
func (a *App) openLink(url string) tea.Cmd {
	opener := a.opener
	return func() tea.Msg {
		if err := opener.Open(url); err != nil {
			return openFailedMsg{err: wrapErr("launching browser", err)}
		}
		return linkOpenedMsg{url: url}
	}
}
