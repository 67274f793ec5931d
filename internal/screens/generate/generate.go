// Package generate is the progress screen shown while an import assembles
// a study pack.
package generate

import (
	"context"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studypack/internal/importer"
	"github.com/abhisek/studypack/internal/router"
	"github.com/abhisek/studypack/internal/screen"
	"github.com/abhisek/studypack/internal/studypack"
	"github.com/abhisek/studypack/internal/ui/layout"
	"github.com/abhisek/studypack/internal/ui/theme"
)

// Job assembles and stores a pack, reporting each stage through progress.
type Job func(ctx context.Context, progress studypack.ProgressFunc) (*importer.Result, error)

// NextFunc builds the screen that takes over after a successful import.
type NextFunc func(r *importer.Result) screen.Screen

// stages in the order the assembler runs them.
var stages = []struct {
	stage studypack.Stage
	label string
}{
	{studypack.StageSummary, "Summary"},
	{studypack.StageQuiz, "Quiz"},
	{studypack.StageFlashcards, "Flashcards"},
}

// Screen runs a Job and shows per-stage progress, then the result.
type Screen struct {
	ctx   context.Context
	title string
	job   Job
	next  NextFunc

	events  chan progressMsg
	spinner spinner.Model

	current studypack.Progress
	done    bool
	outcome *importer.Result
	err     error
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.StatusProvider  = (*Screen)(nil)
)

// New creates the screen for a material titled title. next may be nil.
func New(ctx context.Context, title string, job Job, next NextFunc) *Screen {
	return &Screen{
		ctx:     ctx,
		title:   title,
		job:     job,
		next:    next,
		events:  make(chan progressMsg, len(stages)*2),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent))),
	}
}

func (s *Screen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.run(), s.wait())
}

// run executes the job. Progress goes through the buffered events channel
// so the job never blocks on the UI.
func (s *Screen) run() tea.Cmd {
	job, ctx, events := s.job, s.ctx, s.events
	return func() tea.Msg {
		defer close(events)
		o, err := job(ctx, func(p studypack.Progress) {
			select {
			case events <- progressMsg(p):
			default:
			}
		})
		return doneMsg{Outcome: o, Err: err}
	}
}

func (s *Screen) wait() tea.Cmd {
	events := s.events
	return func() tea.Msg {
		p, ok := <-events
		if !ok {
			return nil
		}
		return p
	}
}

func (s *Screen) Title() string {
	return "Import"
}

func (s *Screen) HeaderStatus() string {
	switch {
	case s.err != nil:
		return "Failed"
	case s.done:
		return "Ready"
	case s.current.Step > 0:
		return s.current.Label
	}
	return "Starting"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.done && s.err == nil && s.next != nil && s.outcome.Uploaded {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Review draft"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	if s.done {
		return []layout.KeyHint{{Key: "Esc", Description: "Quit"}}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		if s.done {
			return s, nil
		}
		s.current = studypack.Progress(msg)
		return s, s.wait()

	case doneMsg:
		s.done = true
		s.outcome, s.err = msg.Outcome, msg.Err
		if s.err == nil && s.outcome == nil {
			s.outcome = &importer.Result{}
		}
		return s, nil

	case spinner.TickMsg:
		if s.done {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		if msg.String() == "enter" && s.done && s.err == nil && s.next != nil && s.outcome.Uploaded {
			next := s.next(s.outcome)
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
	}
	return s, nil
}
