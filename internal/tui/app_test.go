package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cumulus13/gsearch/internal/config"
	"github.com/cumulus13/gsearch/internal/google"
	"github.com/cumulus13/gsearch/internal/session"
)

// stubFetcher serves canned pages keyed by the request's start index.
type stubFetcher struct {
	pages   map[int]*google.Page
	errs    map[int]error
	starts  []int
	queries []string
}

func (f *stubFetcher) FetchPage(_ context.Context, query string, start, _ int) (*google.Page, error) {
	f.starts = append(f.starts, start)
	f.queries = append(f.queries, query)
	if err, ok := f.errs[start]; ok {
		return nil, err
	}
	if p, ok := f.pages[start]; ok {
		return p, nil
	}
	return &google.Page{}, nil
}

// stubOpener records every URL handed to it.
type stubOpener struct {
	urls []string
	err  error
}

func (o *stubOpener) Open(url string) error {
	if o.err != nil {
		return o.err
	}
	o.urls = append(o.urls, url)
	return nil
}

func resultPage(totalResults int, links ...string) *google.Page {
	p := &google.Page{TotalResults: totalResults}
	for i, link := range links {
		p.Items = append(p.Items, google.Result{
			Title:       fmt.Sprintf("Result %d", i+1),
			Link:        link,
			Snippet:     fmt.Sprintf("Snippet %d", i+1),
			DisplayLink: "example.com",
		})
	}
	return p
}

func newTestApp(t *testing.T, query string, fetcher session.Fetcher, opener LinkOpener) *App {
	t.Helper()
	factory := func(q string) *session.Session {
		return session.New(q, fetcher)
	}
	if opener == nil {
		opener = &stubOpener{}
	}
	return NewApp(query, factory, opener, config.TestConfig())
}

// drive runs a command chain to completion, feeding this package's own
// messages back into Update until something external (or nothing) comes out.
func drive(t *testing.T, a *App, cmd tea.Cmd) *App {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		switch msg.(type) {
		case pageLoadedMsg, pageFailedMsg, linkOpenedMsg, openFailedMsg:
		default:
			return a
		}
		model, next := a.Update(msg)
		app, ok := model.(*App)
		require.True(t, ok)
		a = app
		cmd = next
	}
	return a
}

// submit types a line at the prompt and presses enter.
func submit(t *testing.T, a *App, line string) *App {
	t.Helper()
	a.input.SetValue(line)
	model, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app, ok := model.(*App)
	require.True(t, ok)
	return drive(t, app, cmd)
}

func loadFirstPage(t *testing.T, a *App) *App {
	t.Helper()
	return drive(t, a, a.loadPage(1))
}

func TestInitialPageLoad(t *testing.T) {
	fetcher := &stubFetcher{pages: map[int]*google.Page{
		1: resultPage(23, "https://a.test/1", "https://a.test/2"),
	}}
	app := newTestApp(t, "golang", fetcher, nil)
	app = loadFirstPage(t, app)

	assert.False(t, app.loading)
	assert.Equal(t, 1, app.page)
	require.NotNil(t, app.current)
	assert.Len(t, app.current.Items, 2)
	assert.Equal(t, 23, app.sess.TotalResults())
	assert.Equal(t, 3, app.sess.TotalPages())
	assert.Contains(t, app.status, "23 results")
}

func TestNextAndPrevNavigation(t *testing.T) {
	fetcher := &stubFetcher{pages: map[int]*google.Page{
		1:  resultPage(15, "https://a.test/1"),
		11: resultPage(15, "https://a.test/11"),
	}}
	app := newTestApp(t, "golang", fetcher, nil)
	app = loadFirstPage(t, app)

	app = submit(t, app, "n")
	assert.Equal(t, 2, app.page)
	assert.Equal(t, []int{1, 11}, fetcher.starts)

	// p serves page 1 from the session cache, no new request
	app = submit(t, app, "p")
	assert.Equal(t, 1, app.page)
	require.NotNil(t, app.current)
	assert.True(t, app.current.Cached)
	assert.Equal(t, []int{1, 11}, fetcher.starts)
	assert.Contains(t, app.status, "cache")
}

func TestNextOnLastPageIsNoop(t *testing.T) {
	fetcher := &stubFetcher{pages: map[int]*google.Page{
		1: resultPage(7, "https://a.test/1"),
	}}
	app := newTestApp(t, "golang", fetcher, nil)
	app = loadFirstPage(t, app)
	require.Equal(t, 1, app.sess.TotalPages())

	app = submit(t, app, "n")
	assert.Equal(t, 1, app.page)
	assert.Equal(t, MsgLastPage, app.status)
	assert.Equal(t, []int{1}, fetcher.starts)
}

func TestPrevOnFirstPageIsNoop(t *testing.T) {
	fetcher := &stubFetcher{pages: map[int]*google.Page{
		1: resultPage(42, "https://a.test/1"),
	}}
	app := newTestApp(t, "golang", fetcher, nil)
	app = loadFirstPage(t, app)

	app = submit(t, app, "p")
	assert.Equal(t, 1, app.page)
	assert.Equal(t, MsgFirstPage, app.status)
	assert.Equal(t, []int{1}, fetcher.starts)
}

func TestGotoWithPageNumber(t *testing.T) {
	fetcher := &stubFetcher{pages: map[int]*google.Page{
		1:  resultPage(25, "https://a.test/1"),
		11: resultPage(25, "https://a.test/11"),
	}}
	app := newTestApp(t, "golang", fetcher, nil)
	app = loadFirstPage(t, app)

	app = submit(t, app, "g 2")
	assert.Equal(t, 2, app.page)

	app = submit(t, app, "g 9")
	assert.Equal(t, 2, app.page)
	assert.Contains(t, app.status, "between 1 and 3")

	app = submit(t, app, "g abc")
	assert.Equal(t, 2, app.page)
	assert.Contains(t, app.status, "between 1 and 3")
}

func TestGotoPromptFlow(t *testing.T) {
	fetcher := &stubFetcher{pages: map[int]*google.Page{
		1:  resultPage(25, "https://a.test/1"),
		11: resultPage(25, "https://a.test/11"),
	}}
	app := newTestApp(t, "golang", fetcher, nil)
	app = loadFirstPage(t, app)

	app = submit(t, app, "g")
	assert.Equal(t, ViewGoto, app.view)
	assert.Equal(t, MsgGotoHint, app.input.Placeholder)

	app = submit(t, app, "2")
	assert.Equal(t, ViewResults, app.view)
	assert.Equal(t, 2, app.page)
	assert.Equal(t, resultsPlaceholder, app.input.Placeholder)
}

func TestGotoPromptEscCancels(t *testing.T) {
	fetcher := &stubFetcher{pages: map[int]*google.Page{
		1: resultPage(25, "https://a.test/1"),
	}}
	app := newTestApp(t, "golang", fetcher, nil)
	app = loadFirstPage(t, app)

	app = submit(t, app, "g")
	require.Equal(t, ViewGoto, app.view)

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = model.(*App)
	assert.Equal(t, ViewResults, app.view)
	assert.Equal(t, 1, app.page)
	assert.False(t, app.quitting)
}

func TestGotoPromptRejectsBadInput(t *testing.T) {
	fetcher := &stubFetcher{pages: map[int]*google.Page{
		1: resultPage(25, "https://a.test/1"),
	}}
	app := newTestApp(t, "golang", fetcher, nil)
	app = loadFirstPage(t, app)

	app = submit(t, app, "g")
	app = submit(t, app, "99")
	assert.Equal(t, ViewResults, app.view)
	assert.Equal(t, 1, app.page)
	assert.Contains(t, app.status, "between 1 and 3")
}

func TestDigitOpensResult(t *testing.T) {
	fetcher := &stubFetcher{pages: map[int]*google.Page{
		1: resultPage(2, "https://a.test/1", "https://a.test/2"),
	}}
	opener := &stubOpener{}
	app := newTestApp(t, "golang", fetcher, opener)
	app = loadFirstPage(t, app)

	app = submit(t, app, "2")
	assert.Equal(t, []string{"https://a.test/2"}, opener.urls)
	assert.Contains(t, app.status, "Opened")
	assert.False(t, app.quitting)
}

func TestDigitOutOfRange(t *testing.T) {
	fetcher := &stubFetcher{pages: map[int]*google.Page{
		1: resultPage(2, "https://a.test/1", "https://a.test/2"),
	}}
	opener := &stubOpener{}
	app := newTestApp(t, "golang", fetcher, opener)
	app = loadFirstPage(t, app)

	for _, input := range []string{"0", "7"} {
		app = submit(t, app, input)
		assert.Contains(t, app.status, "between 1 and 2")
	}
	assert.Empty(t, opener.urls)
}

func TestBrowserFailureIsNotFatal(t *testing.T) {
	fetcher := &stubFetcher{pages: map[int]*google.Page{
		1: resultPage(2, "https://a.test/1"),
	}}
	opener := &stubOpener{err: errors.New("no browser found")}
	app := newTestApp(t, "golang", fetcher, opener)
	app = loadFirstPage(t, app)

	app = submit(t, app, "1")
	assert.Equal(t, StatusError, app.statusKind)
	assert.Contains(t, app.status, "launching browser")
	assert.False(t, app.quitting)

	// The loop is still alive
	app = submit(t, app, "q")
	assert.True(t, app.quitting)
}

func TestNewQueryStartsFreshSession(t *testing.T) {
	fetcher := &stubFetcher{pages: map[int]*google.Page{
		1:  resultPage(25, "https://a.test/1"),
		11: resultPage(25, "https://a.test/11"),
	}}
	app := newTestApp(t, "golang", fetcher, nil)
	app = loadFirstPage(t, app)
	app = submit(t, app, "n")
	require.Equal(t, 2, app.sess.CachedPages())

	app = submit(t, app, "rust   async")
	assert.Equal(t, "rust async", app.sess.Query)
	assert.Equal(t, 1, app.page)
	assert.Equal(t, 1, app.sess.CachedPages())
	assert.Equal(t, "rust async", fetcher.queries[len(fetcher.queries)-1])
}

func TestQuitCommands(t *testing.T) {
	for _, input := range []string{"q", "quit", "e", "EXIT"} {
		t.Run(input, func(t *testing.T) {
			fetcher := &stubFetcher{pages: map[int]*google.Page{
				1: resultPage(5, "https://a.test/1"),
			}}
			app := newTestApp(t, "golang", fetcher, nil)
			app = loadFirstPage(t, app)

			app = submit(t, app, input)
			assert.True(t, app.quitting)
		})
	}
}

func TestEmptyInputIsUnknownCommand(t *testing.T) {
	fetcher := &stubFetcher{pages: map[int]*google.Page{
		1: resultPage(5, "https://a.test/1"),
	}}
	app := newTestApp(t, "golang", fetcher, nil)
	app = loadFirstPage(t, app)

	app = submit(t, app, "")
	assert.Equal(t, MsgUnknownCommand, app.status)
	assert.False(t, app.quitting)
}

func TestNoResultsQuits(t *testing.T) {
	fetcher := &stubFetcher{}
	app := newTestApp(t, "xyzzy plugh", fetcher, nil)
	app = loadFirstPage(t, app)

	assert.True(t, app.quitting)
	assert.Equal(t, MsgNoResults, app.status)
}

func TestEndOfResultsQuits(t *testing.T) {
	// The API claims ten pages but page 2 comes back genuinely empty
	fetcher := &stubFetcher{pages: map[int]*google.Page{
		1: resultPage(95, "https://a.test/1"),
	}}
	app := newTestApp(t, "golang", fetcher, nil)
	app = loadFirstPage(t, app)
	require.Equal(t, 10, app.sess.TotalPages())

	app = submit(t, app, "n")
	assert.True(t, app.quitting)
	assert.Equal(t, MsgEndOfResults, app.status)
}

func TestFetchFailureKeepsPromptAlive(t *testing.T) {
	fetcher := &stubFetcher{errs: map[int]error{1: errors.New("boom")}}
	app := newTestApp(t, "golang", fetcher, nil)
	app = loadFirstPage(t, app)

	assert.False(t, app.quitting)
	assert.Nil(t, app.current)
	assert.Equal(t, StatusError, app.statusKind)
	assert.Contains(t, app.status, "Search failed")

	app = submit(t, app, "q")
	assert.True(t, app.quitting)
}

func TestStaleFallbackOnLaterPage(t *testing.T) {
	fetcher := &stubFetcher{
		pages: map[int]*google.Page{1: resultPage(95, "https://a.test/1")},
		errs:  map[int]error{11: errors.New("quota exceeded")},
	}
	app := newTestApp(t, "golang", fetcher, nil)
	app = loadFirstPage(t, app)

	app = submit(t, app, "n")
	assert.False(t, app.quitting)
	require.NotNil(t, app.current)
	assert.True(t, app.current.Stale)
	assert.Equal(t, 2, app.page)
	assert.Equal(t, "https://a.test/1", app.current.Items[0].Link)
	assert.Contains(t, app.status, "last good")
}

func TestWindowResize(t *testing.T) {
	fetcher := &stubFetcher{pages: map[int]*google.Page{
		1: resultPage(5, "https://a.test/1"),
	}}
	app := newTestApp(t, "golang", fetcher, nil)

	model, _ := app.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	app = model.(*App)
	assert.Equal(t, 60, app.width)

	model, _ = app.Update(tea.WindowSizeMsg{Width: 0, Height: 20})
	app = model.(*App)
	assert.Equal(t, 60, app.width)
}

func TestViewRendering(t *testing.T) {
	fetcher := &stubFetcher{pages: map[int]*google.Page{
		1: resultPage(23, "https://a.test/1", "https://a.test/2"),
	}}
	app := newTestApp(t, "golang", fetcher, nil)

	t.Run("loading", func(t *testing.T) {
		app.loading = true
		app.pendingPage = 1
		out := app.View()
		assert.Contains(t, out, "Fetching page 1")
	})

	t.Run("results", func(t *testing.T) {
		app.loading = false
		app = loadFirstPage(t, app)
		out := app.View()
		assert.Contains(t, out, "golang")
		assert.Contains(t, out, "page 1/3")
		assert.Contains(t, out, "01", "indexes are zero padded")
		assert.Contains(t, out, "Result 1")
		assert.Contains(t, out, "example.com")
		assert.Contains(t, out, "╭", "results render as a bordered table")
		assert.Contains(t, out, CompactLogo)
	})

	t.Run("goto help", func(t *testing.T) {
		app = submit(t, app, "g")
		out := app.View()
		assert.Contains(t, out, "between 1 and 3")
		app = submit(t, app, "1")
	})

	t.Run("quitting hides the prompt", func(t *testing.T) {
		app = submit(t, app, "q")
		out := app.View()
		assert.NotContains(t, out, CompactLogo)
	})
}
