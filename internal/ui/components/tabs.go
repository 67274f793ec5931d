package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studypack/internal/ui/theme"
)

// Tabs is a horizontal tab strip switched with tab / shift+tab.
type Tabs struct {
	Labels []string
	Active int
}

// NewTabs creates a tab strip with the first tab active.
func NewTabs(labels ...string) Tabs {
	return Tabs{Labels: labels}
}

// Next activates the following tab, wrapping around.
func (t *Tabs) Next() {
	if len(t.Labels) == 0 {
		return
	}
	t.Active = (t.Active + 1) % len(t.Labels)
}

// Prev activates the preceding tab, wrapping around.
func (t *Tabs) Prev() {
	if len(t.Labels) == 0 {
		return
	}
	t.Active = (t.Active - 1 + len(t.Labels)) % len(t.Labels)
}

// View renders the strip with an underline across width.
func (t Tabs) View(width int) string {
	parts := make([]string, len(t.Labels))
	for i, l := range t.Labels {
		if i == t.Active {
			parts[i] = theme.TabActive.Render(l)
		} else {
			parts[i] = theme.TabInactive.Render(l)
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	rule := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width, 0)))
	return row + "\n" + rule
}
