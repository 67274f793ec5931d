// Package study is the student screen for a published study pack.
package study

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studypack/internal/backend"
	"github.com/abhisek/studypack/internal/screen"
	"github.com/abhisek/studypack/internal/study"
	"github.com/abhisek/studypack/internal/ui/components"
	"github.com/abhisek/studypack/internal/ui/layout"
)

const (
	tabSummary = iota
	tabQuiz
	tabFlashcards
)

// Backend loads published packs and records quiz attempts.
type Backend interface {
	GetStudyPack(ctx context.Context, materialID string) (*backend.PublishedPack, error)
	study.Submitter
}

// Opener opens a URL for the student, e.g. in a browser.
type Opener func(url string) error

// Screen shows a published pack: summary and key points, the quiz and the
// flashcard deck.
type Screen struct {
	backend    Backend
	materialID string
	open       Opener
	ctx        context.Context
	timeout    time.Duration

	loading bool
	loadErr error
	pack    *backend.PublishedPack

	tabs       components.Tabs
	keyPoints  components.Menu
	quiz       *study.QuizRun
	choice     components.MultiChoice
	submitting bool
	deck       *study.Deck

	status    string
	statusErr bool
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.StatusProvider  = (*Screen)(nil)
)

// New creates the study screen for materialID. open may be nil, in which
// case jump links are only shown.
func New(ctx context.Context, b Backend, materialID string, open Opener, timeout time.Duration) *Screen {
	return &Screen{
		backend:    b,
		materialID: materialID,
		open:       open,
		ctx:        ctx,
		timeout:    timeout,
		loading:    true,
		tabs:       components.NewTabs("Summary", "Quiz", "Flashcards"),
	}
}

func (s *Screen) Init() tea.Cmd {
	b, ctx, id, timeout := s.backend, s.ctx, s.materialID, s.timeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(ctx, timeout)
		defer cancel()
		pack, err := b.GetStudyPack(ctx, id)
		return packLoadedMsg{Pack: pack, Err: err}
	}
}

func (s *Screen) Title() string {
	return "Study Pack"
}

// HeaderStatus shows the material title.
func (s *Screen) HeaderStatus() string {
	if s.pack == nil {
		return ""
	}
	return s.pack.Title
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.pack == nil {
		return nil
	}
	hints := []layout.KeyHint{{Key: "Tab", Description: "Switch"}}
	switch s.tabs.Active {
	case tabSummary:
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Key points"},
			layout.KeyHint{Key: "Enter", Description: "Jump to video"})
	case tabQuiz:
		if s.submitting {
			break
		}
		if s.quiz.Finished() {
			hints = append(hints, layout.KeyHint{Key: "←→", Description: "Review answers"})
		} else {
			hints = append(hints,
				layout.KeyHint{Key: "A-D", Description: "Answer"},
				layout.KeyHint{Key: "←→", Description: "Prev/Next"},
				layout.KeyHint{Key: "S", Description: "Submit"})
		}
	case tabFlashcards:
		hints = append(hints,
			layout.KeyHint{Key: "Space", Description: "Flip"},
			layout.KeyHint{Key: "←→", Description: "Prev/Next"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Quit"})
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case packLoadedMsg:
		s.handleLoaded(msg)
		return s, nil

	case submittedMsg:
		s.submitting = false
		if msg.Err != nil {
			s.setStatus(msg.Err.Error(), true)
		} else {
			s.setStatus("Score saved.", false)
		}
		s.syncChoice()
		return s, nil

	case jumpMsg:
		if msg.Err != nil {
			s.setStatus("Open "+msg.URL+" ("+msg.Err.Error()+")", true)
		} else {
			s.setStatus("Opening "+msg.URL, false)
		}
		return s, nil

	case tea.KeyMsg:
		if s.pack == nil || s.submitting {
			return s, nil
		}
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleLoaded(msg packLoadedMsg) {
	s.loading = false
	if msg.Err != nil {
		s.loadErr = msg.Err
		return
	}
	s.pack = msg.Pack

	points := study.KeyPoints(s.pack.KeyPoints)
	items := make([]components.MenuItem, len(points))
	for i, p := range points {
		items[i] = components.MenuItem{Label: p, Action: func() tea.Cmd { return s.jump(p) }}
	}
	s.keyPoints = components.NewMenu(items)

	s.quiz = study.NewQuizRun(s.pack.Quiz, s.materialID)
	s.deck = study.NewDeck(s.pack.Flashcards)
	s.syncChoice()
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab":
		s.tabs.Next()
		s.status = ""
		return s, nil
	case "shift+tab":
		s.tabs.Prev()
		s.status = ""
		return s, nil
	}

	switch s.tabs.Active {
	case tabSummary:
		var cmd tea.Cmd
		s.keyPoints, cmd = s.keyPoints.Update(msg)
		return s, cmd
	case tabQuiz:
		return s, s.handleQuizKey(msg)
	case tabFlashcards:
		s.handleDeckKey(msg)
	}
	return s, nil
}

func (s *Screen) handleQuizKey(msg tea.KeyMsg) tea.Cmd {
	if s.quiz.Len() == 0 {
		return nil
	}
	switch msg.String() {
	case "right", "l", "n":
		if s.quiz.Finished() {
			_ = s.quiz.Next()
		} else if err := s.quiz.Next(); err != nil {
			s.setStatus(err.Error(), true)
			return nil
		}
		s.status = ""
		s.syncChoice()
		return nil
	case "left", "h", "p":
		s.quiz.Prev()
		s.status = ""
		s.syncChoice()
		return nil
	case "s", "ctrl+s":
		return s.submit()
	}

	var committed bool
	s.choice, committed = s.choice.Update(msg)
	if committed {
		if err := s.quiz.Select(s.choice.Chosen); err != nil {
			s.setStatus(err.Error(), true)
		} else {
			s.status = ""
		}
	}
	return nil
}

// submit finishes the quiz in the background. Until submittedMsg arrives
// the run is only read, never mutated, by the screen.
func (s *Screen) submit() tea.Cmd {
	if s.quiz.Finished() {
		return nil
	}
	if !s.quiz.CanFinish() {
		s.setStatus(study.ErrNotFinished.Error(), true)
		return nil
	}
	s.submitting = true
	s.setStatus("Saving your score...", false)

	run, b, ctx, timeout := s.quiz, s.backend, s.ctx, s.timeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(ctx, timeout)
		defer cancel()
		return submittedMsg{Err: run.Finish(ctx, b)}
	}
}

func (s *Screen) handleDeckKey(msg tea.KeyMsg) {
	if s.deck.Len() == 0 {
		return
	}
	switch msg.String() {
	case "space", "enter", "f":
		s.deck.Flip()
	case "right", "l", "n":
		s.deck.Next()
	case "left", "h", "p":
		s.deck.Prev()
	}
}

// jump resolves the key point's timestamp against the pack video.
func (s *Screen) jump(point string) tea.Cmd {
	target, ok := study.JumpTarget(point, s.pack.VideoURL)
	if !ok {
		s.setStatus("This key point has no video timestamp.", true)
		return nil
	}
	open := s.open
	return func() tea.Msg {
		if open == nil {
			return jumpMsg{URL: target}
		}
		return jumpMsg{URL: target, Err: open(target)}
	}
}

// syncChoice rebuilds the question view for the current quiz position.
func (s *Screen) syncChoice() {
	if s.quiz == nil || s.quiz.Len() == 0 {
		return
	}
	q := s.quiz.Current()
	chosen := -1
	if v, ok := s.quiz.Selected(); ok {
		chosen = v
	}
	s.choice = components.NewMultiChoice(q.Question, q.Options, q.CorrectAnswer, chosen)
	s.choice.Revealed = s.quiz.Finished()
}

func (s *Screen) setStatus(msg string, isErr bool) {
	s.status, s.statusErr = msg, isErr
}

// notFound reports whether the load failed because nothing is published.
func (s *Screen) notFound() bool {
	return errors.Is(s.loadErr, backend.ErrNotFound)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
