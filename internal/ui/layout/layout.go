// Package layout renders the chrome around every screen: header bar, key
// hint footer and banners.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studypack/internal/ui/theme"
)

// Smallest terminal the study views fit in.
const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("Terminal too small\n\nNeed %d x %d, have %d x %d", MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Body.Render(msg))
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderHeader draws the brand on the left, title centered and status on the
// right, e.g. the signed-in organization.
func RenderHeader(title, status string, width int) string {
	inner := max(width-4, 0)
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Studypack")
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(status)

	mid := max(inner-lipgloss.Width(brand)-lipgloss.Width(right), 0)
	return bar(width).Render(brand + lipgloss.PlaceHorizontal(mid, lipgloss.Center, theme.Body.Render(title)) + right)
}

func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
	}
	return bar(width).Render(strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer, stretching content to fill
// the height left over.
func RenderFrame(header, content, footer string, width, height int) string {
	rest := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rest).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// RenderBanner renders an error or notice across width. Empty text renders
// nothing.
func RenderBanner(text string, isError bool, width int) string {
	if text == "" {
		return ""
	}
	if isError {
		return theme.ErrorBanner.Width(width).Render(text)
	}
	return theme.NoticeBanner.Width(width).Render(text)
}

// Wrap soft-wraps text to width.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
