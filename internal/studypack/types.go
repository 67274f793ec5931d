package studypack

import (
	"time"

	"github.com/google/uuid"
)

// MaterialType identifies the kind of source a material was imported from.
type MaterialType string

const (
	MaterialVideo    MaterialType = "video"
	MaterialDocument MaterialType = "document"
)

// Status is the processing lifecycle shared by materials and study packs.
type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Material is a unit of imported source content.
type Material struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Type      MaterialType `json:"type"`
	SourceURL string       `json:"sourceUrl,omitempty"`
	Content   string       `json:"content"`
	Status    Status       `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	ModuleID  string       `json:"moduleId,omitempty"`
	CourseID  string       `json:"courseId,omitempty"`
}

// StudyPack is the generated summary, quiz and flashcard bundle for one
// material. Regeneration produces a new pack; packs are never mutated.
type StudyPack struct {
	ID         string      `json:"id"`
	MaterialID string      `json:"materialId"`
	Summary    string      `json:"summary"`
	KeyPoints  []string    `json:"keyPoints"`
	Quiz       Quiz        `json:"quiz"`
	Flashcards []Flashcard `json:"flashcards"`
	CreatedAt  time.Time   `json:"createdAt"`
	Status     Status      `json:"status"`
}

// Quiz is an ordered set of multiple-choice questions.
type Quiz struct {
	ID        string         `json:"id"`
	Questions []QuizQuestion `json:"questions"`
}

// QuizQuestion has exactly four options; CorrectAnswer indexes into them.
type QuizQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Flashcard is a two-sided study card.
type Flashcard struct {
	ID    string `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// NewID returns a random (v4) UUID string for packs and their sub-entities.
func NewID() string {
	return uuid.NewString()
}
