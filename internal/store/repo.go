package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match, LLM events only
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM calls grouped by purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	Failures     int
	AvgLatencyMs int64
}

// QuizAttemptData is a submitted quiz attempt. Answers maps question ID
// to the chosen option index.
type QuizAttemptData struct {
	QuizID     string
	MaterialID string
	UserID     string
	Answers    map[string]int
	Score      int
	Total      int
}

// QuizAttempt is a stored quiz attempt.
type QuizAttempt struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	QuizAttemptData
}

// EventRepo provides append access to LLM request events. It is the
// narrow view consumed by the LLM logging middleware.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

// MaterialRecord is the persisted form of an uploaded material.
type MaterialRecord struct {
	ID        string
	Title     string
	Type      string
	SourceURL string
	Content   string
	Status    string
	ModuleID  string
	CourseID  string
	CreatedAt time.Time
}

// PackRecord is the persisted form of a study pack together with its
// review metadata. Quiz and Flashcards are opaque JSON owned by the caller.
type PackRecord struct {
	ID           string
	MaterialID   string
	Summary      string
	KeyPoints    []string
	Quiz         json.RawMessage
	Flashcards   json.RawMessage
	Status       string
	ReviewStatus string
	Notes        string
	ApprovedBy   string
	PublishedAt  *time.Time
	CreatedAt    time.Time
}

// ReviewUpdate is the set of fields an approval writes.
type ReviewUpdate struct {
	Summary      string
	KeyPoints    []string
	ReviewStatus string
	ApprovedBy   string
	PublishedAt  time.Time
}
