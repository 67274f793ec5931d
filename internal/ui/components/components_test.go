package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func press(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestMultiChoiceLetterCommits(t *testing.T) {
	mc := NewMultiChoice("Q?", []string{"w", "x", "y", "z"}, 2, -1)

	mc, committed := mc.Update(press('c'))
	if !committed {
		t.Fatal("expected letter key to commit a choice")
	}
	if mc.Chosen != 2 || mc.Cursor != 2 {
		t.Errorf("chosen/cursor = %d/%d, want 2/2", mc.Chosen, mc.Cursor)
	}
	if !mc.IsCorrect() {
		t.Error("expected choice to be correct")
	}
}

func TestMultiChoiceArrowsThenEnter(t *testing.T) {
	mc := NewMultiChoice("Q?", []string{"w", "x", "y", "z"}, 0, -1)

	mc, committed := mc.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if committed {
		t.Fatal("arrow keys must not commit")
	}
	mc, committed = mc.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !committed || mc.Chosen != 1 {
		t.Errorf("committed=%v chosen=%d, want true/1", committed, mc.Chosen)
	}
	if mc.IsCorrect() {
		t.Error("expected choice to be wrong")
	}
}

func TestMultiChoiceRevealedIgnoresInput(t *testing.T) {
	mc := NewMultiChoice("Q?", []string{"w", "x", "y", "z"}, 0, 3)
	mc.Revealed = true

	mc, committed := mc.Update(press('a'))
	if committed || mc.Chosen != 3 {
		t.Errorf("revealed question changed: committed=%v chosen=%d", committed, mc.Chosen)
	}
}

func TestMultiChoiceKeepsPriorAnswer(t *testing.T) {
	mc := NewMultiChoice("Q?", []string{"w", "x", "y", "z"}, 0, 2)
	if mc.Cursor != 2 {
		t.Errorf("cursor = %d, want the previously chosen option", mc.Cursor)
	}
	if !strings.Contains(mc.View(), "C)  y") {
		t.Errorf("view missing labelled option:\n%s", mc.View())
	}
}

func TestTabsWrap(t *testing.T) {
	tabs := NewTabs("Summary", "Quiz", "Flashcards")
	tabs.Prev()
	if tabs.Active != 2 {
		t.Errorf("Prev from first = %d, want 2", tabs.Active)
	}
	tabs.Next()
	if tabs.Active != 0 {
		t.Errorf("Next from last = %d, want 0", tabs.Active)
	}
}

func TestMenuWindowKeepsSelectionVisible(t *testing.T) {
	items := make([]MenuItem, 10)
	for i := range items {
		items[i] = MenuItem{Label: string(rune('a' + i))}
	}
	m := NewMenu(items)
	for range 8 {
		m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}

	view := m.View(0, 3)
	if got := strings.Count(view, "\n") + 1; got != 3 {
		t.Errorf("rendered %d rows, want 3", got)
	}
	if !strings.Contains(view, "▸ i") {
		t.Errorf("selected item not visible:\n%s", view)
	}
}

func TestMenuSkipsDisabledItems(t *testing.T) {
	chosen := ""
	pick := func(s string) func() tea.Cmd {
		return func() tea.Cmd { chosen = s; return nil }
	}
	m := NewMenu([]MenuItem{
		{Label: "failed", Disabled: true},
		{Label: "first", Action: pick("first")},
		{Label: "failed too", Disabled: true},
		{Label: "last", Action: pick("last")},
	})
	if m.Selected != 1 {
		t.Fatalf("initial selection = %d, want 1", m.Selected)
	}

	m, _ = m.Update(press('j'))
	if m.Selected != 3 {
		t.Errorf("after down = %d, want 3", m.Selected)
	}
	m, _ = m.Update(press('j'))
	if m.Selected != 3 {
		t.Errorf("down at the end moved to %d", m.Selected)
	}
	m, _ = m.Update(press('g'))
	if m.Selected != 1 {
		t.Errorf("after home = %d, want 1", m.Selected)
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if chosen != "first" {
		t.Errorf("chose %q, want first", chosen)
	}
}

func TestStepProgress(t *testing.T) {
	p := NewStepProgress("Quiz", 1, 3, 40)
	if p.Percent < 0.33 || p.Percent > 0.34 {
		t.Errorf("percent = %v, want 1/3", p.Percent)
	}
	if !strings.Contains(p.View(), "33%") {
		t.Errorf("view missing percentage: %q", p.View())
	}
}
