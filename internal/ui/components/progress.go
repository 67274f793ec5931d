package components

import (
	"charm.land/bubbles/v2/progress"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studypack/internal/ui/theme"
)

// ProgressBar is a static bar with a percentage, redrawn from Percent on
// every View.
type ProgressBar struct {
	Label   string
	Percent float64
	Width   int
}

// NewStepProgress is the bar for done of total steps, e.g. generation stages
// or answered quiz questions.
func NewStepProgress(label string, done, total, width int) ProgressBar {
	p := ProgressBar{Label: label, Width: width}
	if total > 0 {
		p.Percent = float64(done) / float64(total)
	}
	return p
}

func (p ProgressBar) View() string {
	label := ""
	if p.Label != "" {
		label = theme.Body.Render(p.Label) + "  "
	}
	bar := progress.New(
		progress.WithColors(theme.Secondary),
		progress.WithWidth(max(p.Width-lipgloss.Width(label), 10)),
	)
	bar.EmptyColor = theme.Border
	bar.PercentageStyle = lipgloss.NewStyle().Foreground(theme.TextDim)
	return label + bar.ViewAs(p.Percent)
}
