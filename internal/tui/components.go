package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cumulus13/gsearch/internal/config"
	"github.com/cumulus13/gsearch/internal/google"
)

// styles is the working style set for the interactive views, derived from
// the configured colors with the brand palette as fallback.
type styles struct {
	header    lipgloss.Style
	title     lipgloss.Style
	index     lipgloss.Style
	link      lipgloss.Style
	muted     lipgloss.Style
	help      lipgloss.Style
	separator lipgloss.Style

	info    lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	errText lipgloss.Style
}

func colorOr(hex string, fallback lipgloss.Color) lipgloss.Color {
	if hex == "" {
		return fallback
	}
	return lipgloss.Color(hex)
}

func newStyles(c config.UIColors) styles {
	primary := colorOr(c.Primary, PrimaryColor)
	secondary := colorOr(c.Secondary, SecondaryColor)
	accent := colorOr(c.Accent, AccentColor)
	text := colorOr(c.Text, TextColor)
	muted := colorOr(c.Muted, MutedColor)
	errc := colorOr(c.Error, ErrorColor)
	success := colorOr(c.Success, SuccessColor)

	return styles{
		header:    lipgloss.NewStyle().Foreground(text).Bold(true),
		title:     lipgloss.NewStyle().Foreground(primary).Bold(true),
		index:     lipgloss.NewStyle().Foreground(accent),
		link:      lipgloss.NewStyle().Foreground(secondary),
		muted:     lipgloss.NewStyle().Foreground(muted),
		help:      lipgloss.NewStyle().Foreground(muted).Italic(true),
		separator: lipgloss.NewStyle().Foreground(muted),
		info:      lipgloss.NewStyle().Foreground(muted),
		success:   lipgloss.NewStyle().Foreground(success),
		warn:      lipgloss.NewStyle().Foreground(accent),
		errText:   lipgloss.NewStyle().Foreground(errc).Bold(true),
	}
}

// statusStyle picks the style matching a message severity.
func (st styles) statusStyle(kind StatusKind) lipgloss.Style {
	switch kind {
	case StatusSuccess:
		return st.success
	case StatusWarn:
		return st.warn
	case StatusError:
		return st.errText
	}
	return st.info
}

// renderHeader draws the query line with an optional muted subtitle under it.
func (st styles) renderHeader(query, subtitle string, width int) string {
	rows := []string{st.header.Render(truncateEnd(query, width-2))}
	if subtitle != "" {
		rows = append(rows, st.muted.Render(truncateEnd(subtitle, width-2)))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderResults draws the page as a numbered table. The number column is
// what the prompt accepts to open a link.
func (st styles) renderResults(items []google.Result) string {
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(st.separator).
		Headers("#", "Title", "Link")

	for i, r := range items {
		cell := st.title.Render(truncateEnd(flattenSpace(r.Title), 52))
		meta := flattenSpace(r.Snippet)
		if r.DisplayLink != "" {
			if meta == "" {
				meta = r.DisplayLink
			} else {
				meta = r.DisplayLink + " • " + meta
			}
		}
		if meta != "" {
			cell += "\n" + st.muted.Render(truncateEnd(meta, 52))
		}

		tbl.Row(
			st.index.Render(fmt.Sprintf("%02d", i+1)),
			cell,
			st.link.Render(truncateMiddle(r.Link, 36)),
		)
	}

	return tbl.Render()
}

func (st styles) renderHelp(text string) string {
	return st.help.Render(text)
}
