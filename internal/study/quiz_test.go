package study

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studypack/internal/backend"
	"github.com/abhisek/studypack/internal/studypack"
)

type recordingSubmitter struct {
	attempts []backend.QuizAttempt
	err      error
}

func (s *recordingSubmitter) SubmitQuizAttempt(_ context.Context, a backend.QuizAttempt) (*backend.QuizAttemptResult, error) {
	s.attempts = append(s.attempts, a)
	if s.err != nil {
		return nil, s.err
	}
	return &backend.QuizAttemptResult{ID: 1, Score: 1, Total: 2}, nil
}

func twoQuestionQuiz() studypack.Quiz {
	opts := []string{"a", "b", "c", "d"}
	return studypack.Quiz{
		ID: "quiz-1",
		Questions: []studypack.QuizQuestion{
			{ID: "q1", Question: "first", Options: opts, CorrectAnswer: 1},
			{ID: "q2", Question: "second", Options: opts, CorrectAnswer: 3},
		},
	}
}

func TestQuizRun_Linear(t *testing.T) {
	r := NewQuizRun(twoQuestionQuiz(), "m1")

	assert.ErrorIs(t, r.Next(), ErrUnanswered)
	assert.Equal(t, 0, r.Index())

	r.Prev()
	assert.Equal(t, 0, r.Index())

	require.NoError(t, r.Select(1))
	assert.False(t, r.CanFinish())
	require.NoError(t, r.Next())
	assert.Equal(t, 1, r.Index())
	assert.True(t, r.IsLast())
	assert.False(t, r.CanFinish())

	r.Prev()
	sel, ok := r.Selected()
	assert.True(t, ok)
	assert.Equal(t, 1, sel)
	require.NoError(t, r.Next())

	require.NoError(t, r.Select(2))
	assert.True(t, r.CanFinish())

	correct, total := r.Score()
	assert.Equal(t, 1, correct)
	assert.Equal(t, 2, total)
}

func TestQuizRun_SelectOutOfRange(t *testing.T) {
	r := NewQuizRun(twoQuestionQuiz(), "m1")
	assert.Error(t, r.Select(4))
	assert.Error(t, r.Select(-1))
	_, ok := r.Selected()
	assert.False(t, ok)
}

func TestQuizRun_FinishSubmitsOnce(t *testing.T) {
	r := NewQuizRun(twoQuestionQuiz(), "m1")
	sub := &recordingSubmitter{}

	assert.ErrorIs(t, r.Finish(context.Background(), sub), ErrNotFinished)

	require.NoError(t, r.Select(1))
	require.NoError(t, r.Next())
	require.NoError(t, r.Select(3))

	require.NoError(t, r.Finish(context.Background(), sub))
	assert.True(t, r.Finished())
	assert.Equal(t, int64(1), r.Result().ID)

	assert.ErrorIs(t, r.Finish(context.Background(), sub), ErrAlreadySubmitted)
	assert.ErrorIs(t, r.Select(0), ErrAlreadySubmitted)
	assert.False(t, r.CanFinish())

	require.Len(t, sub.attempts, 1)
	assert.Equal(t, backend.QuizAttempt{
		QuizID:     "quiz-1",
		MaterialID: "m1",
		Answers:    map[string]int{"q1": 1, "q2": 3},
	}, sub.attempts[0])
}

func TestQuizRun_FinishFailureAllowsRetry(t *testing.T) {
	r := NewQuizRun(twoQuestionQuiz(), "m1")
	sub := &recordingSubmitter{err: errors.New("offline")}

	require.NoError(t, r.Select(0))
	require.NoError(t, r.Next())
	require.NoError(t, r.Select(0))

	err := r.Finish(context.Background(), sub)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save score")
	assert.False(t, r.Finished())

	sub.err = nil
	require.NoError(t, r.Finish(context.Background(), sub))
	assert.Len(t, sub.attempts, 2)
}

func TestQuizRun_Empty(t *testing.T) {
	r := NewQuizRun(studypack.Quiz{ID: "empty"}, "m1")
	assert.False(t, r.CanFinish())
	assert.ErrorIs(t, r.Next(), ErrUnanswered)
	assert.ErrorIs(t, r.Finish(context.Background(), &recordingSubmitter{}), ErrNotFinished)
}

func TestGrade(t *testing.T) {
	correct, total := Grade(twoQuestionQuiz(), map[string]int{"q1": 1, "q2": 3, "ghost": 0})
	assert.Equal(t, 2, correct)
	assert.Equal(t, 2, total)
}
