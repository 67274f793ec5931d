// Package theme holds the palette and shared styles of the study TUI.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette: calm classroom tones on a dark background.
var (
	Primary   = lipgloss.Color("#6366F1")
	Secondary = lipgloss.Color("#14B8A6")
	Accent    = lipgloss.Color("#F59E0B")
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#0F172A")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
	Highlight = lipgloss.Color("#FACC15")
)

func fg(c color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

var (
	Title    = fg(Primary).Bold(true).Align(lipgloss.Center)
	Subtitle = fg(TextDim).Align(lipgloss.Center)
	Heading  = fg(Secondary).Bold(true)
	Body     = fg(Text)
	Hint     = fg(TextDim).Italic(true)

	Selected  = fg(Primary).Bold(true)
	Correct   = fg(Success).Bold(true)
	Incorrect = fg(Error).Bold(true)
)

func boxed(c color.Color) lipgloss.Style {
	return fg(c).Border(lipgloss.RoundedBorder()).BorderForeground(Border).Padding(0, 1)
}

var (
	ErrorBanner  = boxed(Error).BorderForeground(Error)
	NoticeBanner = boxed(Success).BorderForeground(Success)
	StatusBadge  = lipgloss.NewStyle().Foreground(BgDark).Background(Accent).Bold(true).Padding(0, 1)
)

var (
	// Review action buttons.
	ButtonActive   = lipgloss.NewStyle().Background(Primary).Foreground(Text).Bold(true).Padding(0, 2)
	ButtonInactive = lipgloss.NewStyle().Background(BgCard).Border(lipgloss.RoundedBorder()).BorderForeground(Border).Padding(0, 2)

	// Study view section tabs.
	TabActive   = lipgloss.NewStyle().Foreground(BgDark).Background(Secondary).Bold(true).Padding(0, 2)
	TabInactive = fg(TextDim).Padding(0, 2)
)
