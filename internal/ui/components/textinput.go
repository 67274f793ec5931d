package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studypack/internal/ui/theme"
)

// Prompt is a single-line labelled input, e.g. the regeneration notes
// asked for before a draft is rebuilt.
type Prompt struct {
	Label string
	Model textinput.Model
}

// NewPrompt creates a focused prompt. charLimit <= 0 means unlimited.
func NewPrompt(label, placeholder string, charLimit int) Prompt {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return Prompt{Label: label, Model: ti}
}

// Init returns the focus command.
func (p Prompt) Init() tea.Cmd {
	return p.Model.Focus()
}

// Update handles messages.
func (p Prompt) Update(msg tea.Msg) (Prompt, tea.Cmd) {
	var cmd tea.Cmd
	p.Model, cmd = p.Model.Update(msg)
	return p, cmd
}

// SetWidth sets the visible input width.
func (p *Prompt) SetWidth(w int) {
	p.Model.SetWidth(max(w-lipgloss.Width(p.Label)-2, 10))
}

// View renders the label and input.
func (p Prompt) View() string {
	label := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(p.Label)
	return label + "  " + p.Model.View()
}

// Value returns the trimmed input value.
func (p Prompt) Value() string {
	return strings.TrimSpace(p.Model.Value())
}
