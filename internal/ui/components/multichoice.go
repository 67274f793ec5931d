package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studypack/internal/ui/theme"
)

var optionLabels = []string{"A", "B", "C", "D"}

// MultiChoice renders one quiz question. Cursor moves with the arrow keys;
// Chosen is the answer the student committed with enter or a letter key.
// Once Revealed, the correct option is shown in green and a wrong choice
// in red.
type MultiChoice struct {
	Question     string
	Options      []string
	CorrectIndex int
	Cursor       int
	Chosen       int
	Revealed     bool
}

// NewMultiChoice creates a multiple-choice view. chosen is -1 when the
// question has not been answered yet.
func NewMultiChoice(question string, options []string, correctIndex, chosen int) MultiChoice {
	cursor := chosen
	if cursor < 0 {
		cursor = 0
	}
	return MultiChoice{
		Question:     question,
		Options:      options,
		CorrectIndex: correctIndex,
		Cursor:       cursor,
		Chosen:       chosen,
	}
}

// Update handles navigation and selection. It reports whether a choice was
// committed by this message.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, bool) {
	if m.Revealed {
		return m, false
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, false
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "enter", "space":
		m.Chosen = m.Cursor
		return m, true
	case "a", "b", "c", "d", "1", "2", "3", "4":
		idx := strings.Index("abcd", key)
		if idx < 0 {
			idx = strings.Index("1234", key)
		}
		if idx < len(m.Options) {
			m.Cursor, m.Chosen = idx, idx
			return m, true
		}
	}
	return m, false
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		label := "?"
		if i < len(optionLabels) {
			label = optionLabels[i]
		}
		prefix := "  "
		if i == m.Cursor && !m.Revealed {
			prefix = "▸ "
		}
		mark := " "
		if i == m.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, mark, label, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.Revealed && i == m.CorrectIndex:
			style = theme.Correct
		case m.Revealed && i == m.Chosen:
			style = theme.Incorrect
		case m.Revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Chosen:
			style = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
		case i == m.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// IsCorrect reports whether the committed choice is the correct option.
func (m MultiChoice) IsCorrect() bool {
	return m.Chosen >= 0 && m.Chosen == m.CorrectIndex
}
