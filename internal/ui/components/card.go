package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studypack/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for cards so that
// stacked sections line up.
func ContentWidth(frameWidth int) int {
	// Leave room for border (2) + inner padding (4)
	w := frameWidth - 6
	if w > 96 {
		w = 96
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Frame centers content within the given dimensions.
func Frame(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(1, 2).
		Render(content)
}

// FlashCard renders one face of a flashcard, highlighted when showing the
// back.
func FlashCard(text string, back bool, cw int) string {
	border := theme.Primary
	if back {
		border = theme.Highlight
	}
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(border).
		Width(cw - 2).
		Height(7).
		Align(lipgloss.Center, lipgloss.Center).
		Padding(1, 2).
		Render(text)
}
