// Package app is the root bubbletea model: it owns the screen stack and
// draws the shared header and footer around the active screen.
package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studypack/internal/router"
	"github.com/abhisek/studypack/internal/screen"
	"github.com/abhisek/studypack/internal/ui/layout"
)

var defaultHints = []layout.KeyHint{
	{Key: "Esc", Description: "Back"},
	{Key: "Ctrl+C", Description: "Quit"},
}

type model struct {
	router        *router.Router
	status        string // header fallback, e.g. the signed-in organization
	width, height int
}

func (m model) Init() tea.Cmd {
	return m.router.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if cmd, handled := m.navigate(msg.String()); handled {
			return m, cmd
		}
	}
	return m, m.router.Update(msg)
}

// navigate handles the global keys. Esc goes back a screen, or quits from
// the first one, unless the active screen is taking text input.
func (m model) navigate(k string) (tea.Cmd, bool) {
	switch k {
	case "ctrl+c":
		return tea.Quit, true
	case "esc":
		if c, ok := m.router.Active().(screen.InputCapturer); ok && c.CapturingInput() {
			return nil, false
		}
		if m.router.Depth() > 1 {
			return func() tea.Msg { return router.PopScreenMsg{} }, true
		}
		return tea.Quit, true
	}
	return nil, false
}

func (m model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render composes header, active screen and footer for the current size.
func (m model) render() string {
	switch {
	case m.width == 0 || m.height == 0:
		return ""
	case layout.IsTooSmall(m.width, m.height):
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, status, hints := "", m.status, defaultHints
	if active != nil {
		title = active.Title()
	}
	if sp, ok := active.(screen.StatusProvider); ok && sp.HeaderStatus() != "" {
		status = sp.HeaderStatus()
	}
	if kp, ok := active.(screen.KeyHintProvider); ok && len(kp.KeyHints()) > 0 {
		hints = kp.KeyHints()
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(hints, m.width)
	body := m.router.View(m.width, max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0))
	return layout.RenderFrame(header, body, footer, m.width, m.height)
}

// Run shows initial full screen and blocks until the user quits. status is
// shown in the header when the active screen has none of its own.
func Run(initial screen.Screen, status string) error {
	if _, err := tea.NewProgram(model{router: router.New(initial), status: status}).Run(); err != nil {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	return nil
}
