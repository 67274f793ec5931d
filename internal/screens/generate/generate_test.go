package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studypack/internal/importer"
	"github.com/abhisek/studypack/internal/router"
	"github.com/abhisek/studypack/internal/screen"
	"github.com/abhisek/studypack/internal/studypack"
)

type stubScreen struct{ title string }

func (s stubScreen) Init() tea.Cmd                           { return nil }
func (s stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s stubScreen) View(int, int) string                    { return s.title }
func (s stubScreen) Title() string                           { return s.title }

func packOutcome(uploaded bool, uploadErr error) *importer.Result {
	return &importer.Result{
		Material: studypack.Material{ID: "m1", Title: "Photosynthesis"},
		Pack: &studypack.StudyPack{
			ID:         "pack-1",
			KeyPoints:  []string{"a", "b"},
			Quiz:       studypack.FallbackQuiz(),
			Flashcards: studypack.FallbackFlashcards(),
		},
		Uploaded:  uploaded,
		UploadErr: uploadErr,
	}
}

// drive runs cmd and every command it leads to, skipping spinner ticks.
func drive(s *Screen, cmd tea.Cmd) []tea.Msg {
	var seen []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, spinner.TickMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			seen = append(seen, msg)
			_, next := s.Update(msg)
			queue = append(queue, next)
		}
	}
	return seen
}

func TestRunsJobToCompletion(t *testing.T) {
	var reported []studypack.Stage
	job := func(_ context.Context, progress studypack.ProgressFunc) (*importer.Result, error) {
		for i, st := range stages {
			progress(studypack.Progress{Step: i + 1, Total: len(stages), Stage: st.stage})
			reported = append(reported, st.stage)
		}
		return packOutcome(true, nil), nil
	}
	s := New(context.Background(), "Photosynthesis", job, nil)
	drive(s, s.Init())

	if len(reported) != 3 {
		t.Fatalf("stages reported = %v", reported)
	}
	if !s.done || s.err != nil {
		t.Fatalf("done=%v err=%v", s.done, s.err)
	}
	if s.HeaderStatus() != "Ready" {
		t.Errorf("status = %q", s.HeaderStatus())
	}
	view := s.View(100, 40)
	for _, want := range []string{"Study pack ready", "1 quiz questions", "Uploaded for instructor review."} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestShowsCurrentStage(t *testing.T) {
	s := New(context.Background(), "", nil, nil)
	s.Update(progressMsg{Step: 2, Total: 3, Stage: studypack.StageQuiz, Label: "Step 2/3: Generating quiz..."})

	if s.HeaderStatus() != "Step 2/3: Generating quiz..." {
		t.Errorf("status = %q", s.HeaderStatus())
	}
	if !strings.Contains(s.View(100, 40), "33%") {
		t.Errorf("expected one stage done:\n%s", s.View(100, 40))
	}
}

func TestLateProgressIgnored(t *testing.T) {
	s := New(context.Background(), "", nil, nil)
	s.Update(doneMsg{Outcome: packOutcome(false, nil)})
	_, cmd := s.Update(progressMsg{Step: 3, Total: 3})
	if cmd != nil || s.current.Step != 0 {
		t.Error("progress after completion must be ignored")
	}
}

func TestFailureShowsBanner(t *testing.T) {
	job := func(context.Context, studypack.ProgressFunc) (*importer.Result, error) {
		return nil, studypack.ErrAssembly
	}
	s := New(context.Background(), "", job, nil)
	drive(s, s.Init())

	if !errors.Is(s.err, studypack.ErrAssembly) {
		t.Fatalf("err = %v", s.err)
	}
	if s.HeaderStatus() != "Failed" {
		t.Errorf("status = %q", s.HeaderStatus())
	}
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("enter must do nothing after a failure")
	}
}

func TestUploadFailureKeepsLocalPack(t *testing.T) {
	s := New(context.Background(), "", nil, func(*importer.Result) screen.Screen { return stubScreen{} })
	s.Update(doneMsg{Outcome: packOutcome(false, errors.New("401 unauthorized"))})

	if !strings.Contains(s.View(100, 40), "Upload failed") {
		t.Errorf("view:\n%s", s.View(100, 40))
	}
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("review hand-over requires an uploaded draft")
	}
}

func TestEnterHandsOverToReview(t *testing.T) {
	var got *importer.Result
	next := func(o *importer.Result) screen.Screen {
		got = o
		return stubScreen{title: "Review"}
	}
	s := New(context.Background(), "", nil, next)
	s.Update(doneMsg{Outcome: packOutcome(true, nil)})

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a hand-over command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("msg = %T, want ReplaceScreenMsg", cmd())
	}
	if msg.Screen.Title() != "Review" || got == nil || got.Material.ID != "m1" {
		t.Errorf("hand-over: screen=%q outcome=%+v", msg.Screen.Title(), got)
	}
}
