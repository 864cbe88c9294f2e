package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const AppName = "gsearch"

// ASCII art logo lines, canonical definition.
var LogoLines = []string{
	" ▄████  ▄███▄ ▄████▄ ▄███▄  ▄████▄  ▄███▄ ██  ██",
	"██  ▀█ ██     ██     ██  ██ ██  ▀██ ██    ██  ██",
	"██ ▄▄▄  ▀███▄ ████▀  ██▀▀██ ██▄▄█▀  ██    ██████",
	"██  ██     ██ ██     ██  ██ ██ ▀█▄  ██    ██  ██",
	" ▀███▀ ▄███▀  ▀████  ██  ██ ██  ██  ▀███▀ ██  ██",
}

const CompactLogo = `gsearch ›`

// Banner gradient colors, one per logo line.
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#4285F4"),
	lipgloss.Color("#EA4335"),
	lipgloss.Color("#FBBC05"),
	lipgloss.Color("#4285F4"),
	lipgloss.Color("#34A853"),
}

// Brand colors follow the Google logo palette. The interactive views read
// their colors from the config and fall back to these.
var (
	PrimaryColor   = lipgloss.Color("#4285F4") // Blue
	SecondaryColor = lipgloss.Color("#34A853") // Green
	AccentColor    = lipgloss.Color("#FBBC05") // Yellow
	TextColor      = lipgloss.Color("#EAEAEA") // Soft white
	MutedColor     = lipgloss.Color("#94A3B8") // Muted gray-blue
	ErrorColor     = lipgloss.Color("#EA4335") // Red
	SuccessColor   = lipgloss.Color("#4ADE80") // Light green
)

// Styles shared with the command layer.
var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)
)

// GetCompactBanner renders the logo with a single help line under it.
func GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, LogoStyle.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		HelpStyle.Render(message),
	)
}

// ShowBanner prints the bordered startup banner with the version tagline.
func ShowBanner(version string) {
	lines := make([]string, len(LogoLines)+1)
	copy(lines, LogoLines)
	lines[len(LogoLines)] = ""

	versionTag := version
	if versionTag != "" && versionTag != "dev" {
		if versionTag[0] != 'v' && versionTag[0] != 'V' {
			versionTag = "v" + versionTag
		}
		lines = append(lines, fmt.Sprintf("    Google Search CLI %s", versionTag))
	} else {
		lines = append(lines, "    Google Search CLI")
	}

	// One gradient color per line, logo lines bold
	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}

		colorIdx := i % len(BannerColors)
		style := lipgloss.NewStyle().
			Foreground(BannerColors[colorIdx]).
			Bold(i < len(LogoLines))

		coloredLines = append(coloredLines, style.Render(line))
	}

	borderChars := lipgloss.Border{
		Top:         "═",
		Bottom:      "═",
		Left:        "║",
		Right:       "║",
		TopLeft:     "╔",
		TopRight:    "╗",
		BottomLeft:  "╚",
		BottomRight: "╝",
	}

	borderStyle := lipgloss.NewStyle().
		Border(borderChars).
		BorderForeground(PrimaryColor).
		Padding(1, 3).
		MarginTop(1)

	banner := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)
	output := borderStyle.Render(banner)

	fmt.Println(lipgloss.NewStyle().
		Width(70).
		Align(lipgloss.Center).
		Render(output))

	separator := lipgloss.NewStyle().
		Foreground(AccentColor).
		Render("◆ ◇ ◆ ◇ ◆")

	fmt.Println(lipgloss.NewStyle().
		Width(70).
		Align(lipgloss.Center).
		MarginBottom(1).
		Render(separator))
}
