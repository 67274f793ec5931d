package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studypack/internal/ui/theme"
)

// Button is a labelled action with its shortcut, e.g. "ctrl+a Approve".
// A disabled button shows BusyLabel when set.
type Button struct {
	Key       string
	Label     string
	BusyLabel string
	Enabled   bool
}

// NewButton creates an enabled button.
func NewButton(key, label, busyLabel string) Button {
	return Button{Key: key, Label: label, BusyLabel: busyLabel, Enabled: true}
}

// View renders the button. busy marks the action that is in flight.
func (b Button) View(busy bool) string {
	label := b.Label
	if busy && b.BusyLabel != "" {
		label = b.BusyLabel
	}
	if !b.Enabled {
		return theme.ButtonInactive.Foreground(theme.TextDim).Render(label)
	}
	key := lipgloss.NewStyle().Foreground(theme.Highlight).Render(b.Key)
	return theme.ButtonActive.Render(key + " " + label)
}

// ButtonRow renders buttons side by side. busy is the index of the button
// whose action is running, or -1.
func ButtonRow(buttons []Button, busy int) string {
	views := make([]string, 0, len(buttons)*2)
	for i, b := range buttons {
		if i > 0 {
			views = append(views, "  ")
		}
		views = append(views, b.View(i == busy))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, views...)
}
