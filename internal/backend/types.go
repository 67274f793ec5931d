package backend

import "github.com/abhisek/studypack/internal/studypack"

// ReviewDraft is the reviewable view of the latest pack for a material.
type ReviewDraft struct {
	MaterialID  string   `json:"materialId"`
	StudyPackID string   `json:"studyPackId"`
	Status      string   `json:"status"`
	VideoURL    string   `json:"videoUrl,omitempty"`
	Summary     string   `json:"summary"`
	KeyPoints   []string `json:"keyPoints"`
}

// ReviewDraftResponse wraps a draft.
type ReviewDraftResponse struct {
	Message string       `json:"message,omitempty"`
	Draft   *ReviewDraft `json:"draft"`
}

// ApproveRequest publishes an edited draft. StudyPackID is the draft the
// reviewer saw; the server rejects it with 409 when a newer draft exists.
type ApproveRequest struct {
	Summary       string   `json:"summary"`
	KeyPoints     []string `json:"keyPoints"`
	KeyPointsText string   `json:"keyPointsText"`
	StudyPackID   string   `json:"studyPackId,omitempty"`
}

// RegenerateRequest asks for a fresh draft.
type RegenerateRequest struct {
	Notes string `json:"notes"`
}

// UploadRequest submits a locally assembled pack as a new review draft.
type UploadRequest struct {
	Material studypack.Material  `json:"material"`
	Pack     studypack.StudyPack `json:"studyPack"`
}

// PublishedPack is a study pack as served to students.
type PublishedPack struct {
	studypack.StudyPack
	Title       string `json:"title,omitempty"`
	VideoURL    string `json:"videoUrl,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

// TranscriptRequest asks the backend to fetch a video transcript.
type TranscriptRequest struct {
	VideoURL string `json:"videoUrl"`
}

// TranscriptResponse carries a fetched transcript.
type TranscriptResponse struct {
	Title      string `json:"title,omitempty"`
	Transcript string `json:"transcript"`
}

// QuizAttempt is a student's answers keyed by question ID.
type QuizAttempt struct {
	QuizID     string         `json:"quizId"`
	MaterialID string         `json:"materialId,omitempty"`
	Answers    map[string]int `json:"answers"`
}

// QuizAttemptResult is the server's grading of an attempt.
type QuizAttemptResult struct {
	ID    int64 `json:"id"`
	Score int   `json:"score"`
	Total int   `json:"total"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
