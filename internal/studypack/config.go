package studypack

import "time"

// Config controls generation and assembly.
type Config struct {
	// QuizQuestions and Flashcards are the counts requested from the model.
	// Whatever count comes back is accepted.
	QuizQuestions int `koanf:"quiz_questions"`
	Flashcards    int `koanf:"flashcards"`

	// KeyPoints caps the number of derived key points.
	KeyPoints int `koanf:"key_points"`

	MaxTokens   int     `koanf:"max_tokens"`
	Temperature float64 `koanf:"temperature"`

	// Structured asks the provider for schema-constrained JSON instead of
	// free text for the quiz and flashcard stages.
	Structured bool `koanf:"structured"`

	// Pacing is the pause between consecutive stages.
	Pacing time.Duration `koanf:"pacing"`
}

// DefaultConfig returns the standard generation settings.
func DefaultConfig() Config {
	return Config{
		QuizQuestions: 8,
		Flashcards:    12,
		KeyPoints:     4,
		MaxTokens:     8192,
		Temperature:   0.4,
		Pacing:        1 * time.Second,
	}
}
