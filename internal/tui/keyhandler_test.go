package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/cumulus13/gsearch/internal/google"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  command
	}{
		{"next", "n", command{kind: cmdNext}},
		{"next uppercase", "N", command{kind: cmdNext}},
		{"next padded", "  n  ", command{kind: cmdNext}},
		{"prev", "p", command{kind: cmdPrev}},
		{"goto prompt", "g", command{kind: cmdGotoPrompt}},
		{"goto with page", "g 3", command{kind: cmdGoto, page: 3}},
		{"goto uppercase", "G 7", command{kind: cmdGoto, page: 7}},
		{"goto non numeric", "g three", command{kind: cmdGoto}},
		{"goto extra fields", "g 3 4", command{kind: cmdGoto}},
		{"quit short", "q", command{kind: cmdQuit}},
		{"quit long", "quit", command{kind: cmdQuit}},
		{"quit mixed case", "Quit", command{kind: cmdQuit}},
		{"exit short", "e", command{kind: cmdQuit}},
		{"exit long", "EXIT", command{kind: cmdQuit}},
		{"selection", "3", command{kind: cmdOpen, index: 3}},
		{"selection two digits", "10", command{kind: cmdOpen, index: 10}},
		{"selection zero", "0", command{kind: cmdOpen, index: 0}},
		{"query", "golang tutorial", command{kind: cmdSearch, query: "golang tutorial"}},
		{"query collapses spaces", "golang   tutorial", command{kind: cmdSearch, query: "golang tutorial"}},
		{"query negative number", "-1", command{kind: cmdSearch, query: "-1"}},
		{"query starting with digits", "3d printing", command{kind: cmdSearch, query: "3d printing"}},
		{"empty", "", command{kind: cmdUnknown}},
		{"blank", "   ", command{kind: cmdUnknown}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCommand(tt.input))
		})
	}
}

func TestIsDigits(t *testing.T) {
	assert.True(t, isDigits("0"))
	assert.True(t, isDigits("42"))
	assert.False(t, isDigits(""))
	assert.False(t, isDigits("-1"))
	assert.False(t, isDigits("4 2"))
	assert.False(t, isDigits("4a"))
}

func TestSanitizeQuery(t *testing.T) {
	assert.Equal(t, "go tutorial", sanitizeQuery("  go \t tutorial  "))

	long := strings.Repeat("a", 300)
	assert.Len(t, []rune(sanitizeQuery(long)), 256)
}

func TestKeyHandlerInitialized(t *testing.T) {
	fetcher := &stubFetcher{}
	app := newTestApp(t, "golang", fetcher, nil)

	assert.NotNil(t, app.keyHandler)
	assert.Same(t, app, app.keyHandler.app)
}

func TestCtrlCQuitsEvenWhileLoading(t *testing.T) {
	fetcher := &stubFetcher{}
	app := newTestApp(t, "golang", fetcher, nil)
	app.loading = true

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	app = model.(*App)

	assert.True(t, app.quitting)
	assert.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestPromptInertWhileLoading(t *testing.T) {
	fetcher := &stubFetcher{pages: map[int]*google.Page{
		1: resultPage(5, "https://a.test/1"),
	}}
	app := newTestApp(t, "golang", fetcher, nil)
	app.loading = true

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	app = model.(*App)

	assert.Nil(t, cmd)
	assert.Empty(t, app.input.Value())
}

func TestEscQuitsFromResults(t *testing.T) {
	fetcher := &stubFetcher{pages: map[int]*google.Page{
		1: resultPage(5, "https://a.test/1"),
	}}
	app := newTestApp(t, "golang", fetcher, nil)
	app = loadFirstPage(t, app)

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = model.(*App)

	assert.True(t, app.quitting)
	assert.NotNil(t, cmd)
}

func TestTypingReachesTheInput(t *testing.T) {
	fetcher := &stubFetcher{pages: map[int]*google.Page{
		1: resultPage(5, "https://a.test/1"),
	}}
	app := newTestApp(t, "golang", fetcher, nil)
	app = loadFirstPage(t, app)

	for _, r := range "g 2" {
		model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		app = model.(*App)
	}
	assert.Equal(t, "g 2", app.input.Value())
}

func TestHelpForCurrentView(t *testing.T) {
	fetcher := &stubFetcher{pages: map[int]*google.Page{
		1: resultPage(25, "https://a.test/1"),
	}}
	app := newTestApp(t, "golang", fetcher, nil)
	app = loadFirstPage(t, app)

	assert.Contains(t, app.keyHandler.HelpForCurrentView(), "n next")

	app = submit(t, app, "g")
	assert.Contains(t, app.keyHandler.HelpForCurrentView(), "between 1 and 3")
}
