// Package review is the instructor screen over the draft review workflow.
package review

import (
	"context"
	"time"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studypack/internal/review"
	"github.com/abhisek/studypack/internal/screen"
	"github.com/abhisek/studypack/internal/ui/components"
	"github.com/abhisek/studypack/internal/ui/layout"
)

type mode int

const (
	modeLoading mode = iota
	modeEdit
	modeNotes
	modeBusy
)

type field int

const (
	fieldSummary field = iota
	fieldKeyPoints
)

// snapshot is what the screen renders. It is copied out of the workflow
// only while no action runs, so View never races a background action.
type snapshot struct {
	status   string
	packID   string
	videoURL string
	err      string
	notice   string
}

// Screen edits, approves and regenerates the latest draft of a material.
type Screen struct {
	wf      *review.Workflow
	ctx     context.Context
	timeout time.Duration

	mode    mode
	busy    review.Busy
	focus   field
	summary textarea.Model
	points  textarea.Model
	notes   components.Prompt
	buttons []components.Button
	view    snapshot
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.StatusProvider  = (*Screen)(nil)
	_ screen.InputCapturer   = (*Screen)(nil)
)

// New creates the review screen. Each backend action runs under ctx with
// the given timeout; timeout <= 0 means none.
func New(ctx context.Context, wf *review.Workflow, timeout time.Duration) *Screen {
	summary := textarea.New()
	summary.Placeholder = "Summary shown to students..."
	summary.ShowLineNumbers = false

	points := textarea.New()
	points.Placeholder = "One key point per line"
	points.ShowLineNumbers = false

	return &Screen{
		wf:      wf,
		ctx:     ctx,
		timeout: timeout,
		summary: summary,
		points:  points,
		buttons: []components.Button{
			components.NewButton("ctrl+a", "Approve & publish", "Publishing..."),
			components.NewButton("ctrl+r", "Regenerate", "Regenerating..."),
		},
	}
}

func (s *Screen) Init() tea.Cmd {
	return s.fetch()
}

func (s *Screen) Title() string {
	return "Review Draft"
}

// HeaderStatus shows the draft status, e.g. PENDING_REVIEW.
func (s *Screen) HeaderStatus() string {
	return s.view.status
}

// CapturingInput keeps esc inside the notes prompt.
func (s *Screen) CapturingInput() bool {
	return s.mode == modeNotes
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeNotes:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Regenerate"},
			{Key: "Esc", Description: "Cancel"},
		}
	case modeEdit:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Switch field"},
			{Key: "Ctrl+A", Description: "Approve"},
			{Key: "Ctrl+R", Description: "Regenerate"},
			{Key: "Ctrl+L", Description: "Reload"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.resize(msg.Width, msg.Height)
		return s, nil

	case fetchedMsg:
		s.sync(true)
		s.mode = modeEdit
		return s, s.focusField(s.focus)

	case actionDoneMsg:
		s.busy = review.BusyNone
		s.sync(msg.Err == nil)
		s.mode = modeEdit
		return s, s.focusField(s.focus)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, s.forward(msg)
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.mode {
	case modeLoading, modeBusy:
		return s, nil

	case modeNotes:
		switch msg.String() {
		case "esc":
			s.mode = modeEdit
			return s, s.focusField(s.focus)
		case "enter":
			return s, s.start(review.BusyRegenerate, s.notes.Value())
		}
		var cmd tea.Cmd
		s.notes, cmd = s.notes.Update(msg)
		return s, cmd
	}

	switch msg.String() {
	case "tab", "shift+tab":
		if s.focus == fieldSummary {
			return s, s.focusField(fieldKeyPoints)
		}
		return s, s.focusField(fieldSummary)
	case "ctrl+a":
		return s, s.start(review.BusyApprove, "")
	case "ctrl+r":
		s.mode = modeNotes
		s.summary.Blur()
		s.points.Blur()
		s.notes = components.NewPrompt("Notes for the AI:", review.DefaultNotes, 500)
		s.notes.SetWidth(s.summary.Width())
		return s, s.notes.Init()
	case "ctrl+l":
		s.mode = modeLoading
		return s, s.fetch()
	}
	return s, s.forward(msg)
}

// forward passes input to the focused editor.
func (s *Screen) forward(msg tea.Msg) tea.Cmd {
	if s.mode != modeEdit {
		return nil
	}
	var cmd tea.Cmd
	if s.focus == fieldSummary {
		s.summary, cmd = s.summary.Update(msg)
	} else {
		s.points, cmd = s.points.Update(msg)
	}
	return cmd
}

// start hands the edits to the workflow and runs action in the
// background. The workflow must not be touched until actionDoneMsg.
func (s *Screen) start(action review.Busy, notes string) tea.Cmd {
	s.wf.EditSummary(s.summary.Value())
	s.wf.EditKeyPoints(s.points.Value())
	if err := s.wf.Begin(action); err != nil {
		return nil
	}
	s.busy = action
	s.mode = modeBusy
	s.view.err, s.view.notice = "", ""
	if action == review.BusyRegenerate {
		s.view.status = review.StatusRegenerating
	}

	wf, ctx, timeout := s.wf, s.ctx, s.timeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(ctx, timeout)
		defer cancel()
		var err error
		if action == review.BusyApprove {
			err = wf.Approve(ctx)
		} else {
			err = wf.Regenerate(ctx, notes)
		}
		return actionDoneMsg{Action: action, Err: err}
	}
}

func (s *Screen) fetch() tea.Cmd {
	wf, ctx, timeout := s.wf, s.ctx, s.timeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(ctx, timeout)
		defer cancel()
		wf.Fetch(ctx)
		return fetchedMsg{}
	}
}

// sync copies workflow state into the screen. Editors are refreshed only
// when the workflow replaced the draft, so failed actions keep local edits.
func (s *Screen) sync(editors bool) {
	s.view = snapshot{
		status:   s.wf.Status(),
		videoURL: s.wf.VideoURL(),
		err:      s.wf.Err,
		notice:   s.wf.Notice,
	}
	if s.wf.Draft != nil {
		s.view.packID = s.wf.Draft.StudyPackID
	}
	if editors {
		s.summary.SetValue(s.wf.Summary)
		s.points.SetValue(s.wf.KeyPointsText)
	}
}

func (s *Screen) focusField(f field) tea.Cmd {
	s.focus = f
	if f == fieldSummary {
		s.points.Blur()
		return s.summary.Focus()
	}
	s.summary.Blur()
	return s.points.Focus()
}

func (s *Screen) resize(width, height int) {
	cw := components.ContentWidth(width)
	s.summary.SetWidth(cw - 4)
	s.points.SetWidth(cw - 4)
	if s.mode == modeNotes {
		s.notes.SetWidth(cw - 4)
	}

	// header, footer, banners and labels take roughly 16 rows
	avail := max(height-16, 6)
	s.summary.SetHeight(avail * 3 / 5)
	s.points.SetHeight(avail - avail*3/5)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
