package studypack

import "fmt"

// Stage names a single generation step.
type Stage string

const (
	StageSummary    Stage = "summary"
	StageQuiz       Stage = "quiz"
	StageFlashcards Stage = "flashcards"
)

// GenerationError records why a stage could not produce its artifact.
type GenerationError struct {
	Stage Stage
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Result is the outcome of one generation stage: a value or an error,
// never both.
type Result[T any] struct {
	Value T
	Err   *GenerationError
}

// Ok wraps a successfully generated value.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail wraps a stage failure.
func Fail[T any](stage Stage, err error) Result[T] {
	return Result[T]{Err: &GenerationError{Stage: stage, Err: err}}
}

// ApplyFallback returns the generated value, or the fallback when the
// stage failed. It performs no I/O.
func ApplyFallback[T any](r Result[T], fallback func() T) T {
	if r.Err != nil {
		return fallback()
	}
	return r.Value
}

const fallbackSummaryText = "Summary of the material: This content covers important concepts that are essential for understanding the topic. The material provides foundational knowledge and practical insights."

// FallbackSummary is substituted when summary generation fails.
func FallbackSummary() string {
	return fallbackSummaryText
}

// FallbackQuiz is the single-question quiz substituted when quiz
// generation fails.
func FallbackQuiz() Quiz {
	return Quiz{
		ID: NewID(),
		Questions: []QuizQuestion{{
			ID:       NewID(),
			Question: "What is the main topic covered in this material?",
			Options: []string{
				"Core concepts and fundamentals",
				"Unrelated topics",
				"Advanced theory only",
				"None of the above",
			},
			CorrectAnswer: 0,
			Explanation:   "The material focuses on core concepts and fundamental principles.",
		}},
	}
}

// FallbackFlashcards is the single-card deck substituted when flashcard
// generation fails.
func FallbackFlashcards() []Flashcard {
	return []Flashcard{{
		ID:    NewID(),
		Front: "What are the key concepts in this material?",
		Back:  "This material covers fundamental concepts that are essential for understanding the topic.",
	}}
}
