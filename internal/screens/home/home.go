// Package home is the material library: every imported material with
// shortcuts into its review draft or published study pack.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studypack/internal/router"
	"github.com/abhisek/studypack/internal/screen"
	"github.com/abhisek/studypack/internal/store"
	"github.com/abhisek/studypack/internal/ui/components"
	"github.com/abhisek/studypack/internal/ui/layout"
	"github.com/abhisek/studypack/internal/ui/theme"
)

const listLimit = 200

// Lister lists imported materials, newest first.
type Lister interface {
	List(ctx context.Context, limit int) ([]store.MaterialRecord, error)
}

// Options wires the screens a material opens into.
type Options struct {
	Materials Lister
	Study     func(materialID string) screen.Screen
	Review    func(materialID, videoURL string) screen.Screen
}

type loadedMsg struct {
	Materials []store.MaterialRecord
	Err       error
}

// HomeScreen lists materials.
type HomeScreen struct {
	ctx       context.Context
	opts      Options
	loading   bool
	err       error
	materials []store.MaterialRecord
	menu      components.Menu
}

var (
	_ screen.Screen          = (*HomeScreen)(nil)
	_ screen.KeyHintProvider = (*HomeScreen)(nil)
	_ screen.StatusProvider  = (*HomeScreen)(nil)
	_ screen.Resumer         = (*HomeScreen)(nil)
)

// New creates the library screen.
func New(ctx context.Context, opts Options) *HomeScreen {
	return &HomeScreen{ctx: ctx, opts: opts, loading: true}
}

func (h *HomeScreen) Init() tea.Cmd {
	lister, ctx := h.opts.Materials, h.ctx
	return func() tea.Msg {
		ms, err := lister.List(ctx, listLimit)
		return loadedMsg{Materials: ms, Err: err}
	}
}

// Resume reloads in the background so statuses changed by a review show up
// when the user comes back.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.Init()
}

func (h *HomeScreen) Title() string {
	return "Library"
}

func (h *HomeScreen) HeaderStatus() string {
	if h.loading || h.err != nil {
		return ""
	}
	ready := 0
	for _, m := range h.materials {
		if m.Status == "ready" {
			ready++
		}
	}
	return fmt.Sprintf("%d materials · %d ready", len(h.materials), ready)
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if len(h.materials) == 0 {
		return []layout.KeyHint{{Key: "Esc", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Select"},
		{Key: "Enter", Description: "Study"},
		{Key: "R", Description: "Review"},
		{Key: "Ctrl+L", Description: "Reload"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		prev, _ := h.selected()
		h.loading = false
		h.err = msg.Err
		h.materials = msg.Materials
		h.menu = h.buildMenu()
		for i, m := range h.materials {
			if m.ID == prev.ID && m.Status != "failed" {
				h.menu.Selected = i
			}
		}
		return h, nil

	case tea.KeyMsg:
		if h.loading {
			return h, nil
		}
		switch msg.String() {
		case "ctrl+l":
			h.loading = true
			return h, h.Init()
		case "r":
			if m, ok := h.selected(); ok && h.opts.Review != nil {
				next := h.opts.Review(m.ID, m.SourceURL)
				return h, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			}
			return h, nil
		}
		var cmd tea.Cmd
		h.menu, cmd = h.menu.Update(msg)
		return h, cmd
	}
	return h, nil
}

func (h *HomeScreen) buildMenu() components.Menu {
	items := make([]components.MenuItem, len(h.materials))
	for i, m := range h.materials {
		items[i] = components.MenuItem{
			Label:    materialLabel(m),
			Disabled: m.Status == "failed",
			Action: func() tea.Cmd {
				if h.opts.Study == nil {
					return nil
				}
				next := h.opts.Study(m.ID)
				return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			},
		}
	}
	return components.NewMenu(items)
}

func (h *HomeScreen) selected() (store.MaterialRecord, bool) {
	i := h.menu.Selected
	if i < 0 || i >= len(h.materials) || h.materials[i].Status == "failed" {
		return store.MaterialRecord{}, false
	}
	return h.materials[i], true
}

func materialLabel(m store.MaterialRecord) string {
	title := m.Title
	if len([]rune(title)) > 48 {
		title = string([]rune(title)[:45]) + "..."
	}
	return fmt.Sprintf("%-48s  %-8s  %-7s  %s", title, m.Type, m.Status, m.CreatedAt.Local().Format("Jan 02"))
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var body string
	switch {
	case h.loading:
		body = theme.Hint.Render("Loading materials...")
	case h.err != nil:
		body = layout.RenderBanner("Failed to load materials: "+h.err.Error(), true, cw-6)
	case len(h.materials) == 0:
		body = theme.Subtitle.Render("No materials yet.\n\nImport one with `studypack import --file notes.txt`.")
	default:
		var b strings.Builder
		b.WriteString(theme.Heading.Render("Materials"))
		b.WriteString("\n\n")
		// card border, padding and heading
		b.WriteString(h.menu.View(cw-6, max(height-10, 3)))
		body = b.String()
	}

	title := theme.Title.Width(cw).Render("S T U D Y P A C K")
	return components.Frame(lipgloss.JoinVertical(lipgloss.Center, title, "", components.Card(body, cw)), width, height)
}
