package components

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studypack/internal/ui/theme"
)

// MenuItem is one selectable row. Disabled rows are shown dimmed and skipped
// by the cursor.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list with a cursor, e.g. the material library.
type Menu struct {
	Items    []MenuItem
	Selected int
}

var menuKeys = struct {
	Up, Down, First, Last, Choose key.Binding
}{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	First:  key.NewBinding(key.WithKeys("home", "g")),
	Last:   key.NewBinding(key.WithKeys("end", "G")),
	Choose: key.NewBinding(key.WithKeys("enter")),
}

// NewMenu puts the cursor on the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.Selected = max(m.seek(0, 1), 0)
	return m
}

// seek returns the first enabled index from i stepping by dir, or -1.
func (m Menu) seek(i, dir int) int {
	for ; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			return i
		}
	}
	return -1
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	next := -1
	switch {
	case key.Matches(k, menuKeys.Up):
		next = m.seek(m.Selected-1, -1)
	case key.Matches(k, menuKeys.Down):
		next = m.seek(m.Selected+1, 1)
	case key.Matches(k, menuKeys.First):
		next = m.seek(0, 1)
	case key.Matches(k, menuKeys.Last):
		next = m.seek(len(m.Items)-1, -1)
	case key.Matches(k, menuKeys.Choose):
		if i := m.Selected; i >= 0 && i < len(m.Items) && !m.Items[i].Disabled && m.Items[i].Action != nil {
			return m, m.Items[i].Action()
		}
	}
	if next >= 0 {
		m.Selected = next
	}
	return m, nil
}

// View renders at most height rows scrolled to keep the cursor visible.
// height <= 0 renders every item.
func (m Menu) View(width, height int) string {
	from, to := 0, len(m.Items)
	if height > 0 && to > height {
		from = min(max(m.Selected-height/2, 0), to-height)
		to = from + height
	}

	normal := lipgloss.NewStyle().Foreground(theme.Text)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	lines := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		it := m.Items[i]
		switch {
		case it.Disabled:
			lines = append(lines, dim.Width(width).Render("    "+it.Label))
		case i == m.Selected:
			lines = append(lines, theme.Selected.Width(width).Render("  ▸ "+it.Label))
		default:
			lines = append(lines, normal.Width(width).Render("    "+it.Label))
		}
	}
	return strings.Join(lines, "\n")
}
