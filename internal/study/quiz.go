package study

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/studypack/internal/backend"
	"github.com/abhisek/studypack/internal/studypack"
)

var (
	// ErrUnanswered means the current question has no selection yet.
	ErrUnanswered = errors.New("select an answer first")

	// ErrAlreadySubmitted means the attempt was already recorded.
	ErrAlreadySubmitted = errors.New("quiz already submitted")

	// ErrNotFinished means the run is not on the last question or it is
	// unanswered.
	ErrNotFinished = errors.New("answer every question before submitting")
)

// Submitter records a finished quiz attempt.
type Submitter interface {
	SubmitQuizAttempt(ctx context.Context, attempt backend.QuizAttempt) (*backend.QuizAttemptResult, error)
}

// QuizRun walks a student through a quiz one question at a time.
type QuizRun struct {
	quiz       studypack.Quiz
	materialID string
	idx        int
	answers    map[string]int
	finished   bool
	result     *backend.QuizAttemptResult
}

// NewQuizRun starts a run over quiz.
func NewQuizRun(quiz studypack.Quiz, materialID string) *QuizRun {
	return &QuizRun{quiz: quiz, materialID: materialID, answers: make(map[string]int)}
}

// Len returns the number of questions.
func (r *QuizRun) Len() int { return len(r.quiz.Questions) }

// Index returns the current question position.
func (r *QuizRun) Index() int { return r.idx }

// Current returns the current question. It panics on an empty quiz.
func (r *QuizRun) Current() studypack.QuizQuestion { return r.quiz.Questions[r.idx] }

// Selected returns the chosen option for the current question.
func (r *QuizRun) Selected() (int, bool) {
	if r.Len() == 0 {
		return 0, false
	}
	v, ok := r.answers[r.Current().ID]
	return v, ok
}

// Finished reports whether the attempt was submitted.
func (r *QuizRun) Finished() bool { return r.finished }

// Result returns the server's grading once finished.
func (r *QuizRun) Result() *backend.QuizAttemptResult { return r.result }

// Select records option as the answer to the current question.
func (r *QuizRun) Select(option int) error {
	if r.finished {
		return ErrAlreadySubmitted
	}
	q := r.Current()
	if option < 0 || option >= len(q.Options) {
		return fmt.Errorf("option %d out of range", option)
	}
	r.answers[q.ID] = option
	return nil
}

// Next advances to the next question. The current one must be answered.
func (r *QuizRun) Next() error {
	if _, ok := r.Selected(); !ok {
		return ErrUnanswered
	}
	if r.idx < r.Len()-1 {
		r.idx++
	}
	return nil
}

// Prev goes back one question, if possible.
func (r *QuizRun) Prev() {
	if r.idx > 0 {
		r.idx--
	}
}

// IsLast reports whether the current question is the final one.
func (r *QuizRun) IsLast() bool { return r.idx == r.Len()-1 }

// CanFinish reports whether the run may be submitted.
func (r *QuizRun) CanFinish() bool {
	if r.finished || r.Len() == 0 || !r.IsLast() {
		return false
	}
	_, ok := r.Selected()
	return ok
}

// Finish submits the attempt exactly once. On failure the run stays open
// so the student can retry.
func (r *QuizRun) Finish(ctx context.Context, s Submitter) error {
	if r.finished {
		return ErrAlreadySubmitted
	}
	if !r.CanFinish() {
		return ErrNotFinished
	}

	answers := make(map[string]int, len(r.answers))
	for k, v := range r.answers {
		answers[k] = v
	}
	res, err := s.SubmitQuizAttempt(ctx, backend.QuizAttempt{
		QuizID:     r.quiz.ID,
		MaterialID: r.materialID,
		Answers:    answers,
	})
	if err != nil {
		return fmt.Errorf("failed to save score: %w", err)
	}
	r.finished = true
	r.result = res
	return nil
}

// Score counts correct answers locally.
func (r *QuizRun) Score() (correct, total int) {
	for _, q := range r.quiz.Questions {
		if a, ok := r.answers[q.ID]; ok && a == q.CorrectAnswer {
			correct++
		}
	}
	return correct, r.Len()
}

// Grade scores answers against quiz. Unknown question IDs are ignored.
func Grade(quiz studypack.Quiz, answers map[string]int) (correct, total int) {
	run := &QuizRun{quiz: quiz, answers: answers}
	return run.Score()
}
