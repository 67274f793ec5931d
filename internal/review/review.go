// Package review is the instructor's draft review workflow: load the
// latest draft, edit it locally, then approve or regenerate it.
package review

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/studypack/internal/backend"
)

// Draft statuses. Unknown backend statuses are preserved as-is.
const (
	StatusPendingReview = "PENDING_REVIEW"
	StatusPublished     = "PUBLISHED"
	StatusRegenerating  = "REGENERATING"
)

// NewDraftID identifies a locally synthesized draft that the backend has
// never seen.
const NewDraftID = "new-draft"

// DefaultNotes is sent with a regeneration request when the instructor
// gives none.
const DefaultNotes = "Please improve clarity and make key points more actionable."

// User-facing messages.
const (
	MsgLoadFailed       = "Failed to load AI draft. You can regenerate to create a new draft."
	MsgApproved         = "Draft approved and published."
	MsgApproveFailed    = "Failed to approve this draft."
	MsgRegenerated      = "Regeneration requested. Draft refreshed."
	MsgRegenerateFailed = "Failed to regenerate draft."
)

var (
	// ErrBusy means another approve or regenerate is still in flight.
	ErrBusy = errors.New("another review action is in progress")

	// ErrEmptySummary means the edited summary is blank.
	ErrEmptySummary = errors.New("summary is required")

	// ErrNoKeyPoints means no key point survived normalization.
	ErrNoKeyPoints = errors.New("at least one key point is required")
)

// DefaultKeyPoints seed the editor when a draft has none.
var DefaultKeyPoints = []string{
	"Problem framing and expected outcomes",
	"Core concept and explanation",
	"Practical application in context",
	"Next actionable step for learners",
}

// Backend is the subset of the backend client the workflow needs.
type Backend interface {
	GetReviewDraft(ctx context.Context, materialID string) (*backend.ReviewDraft, error)
	ApproveDraft(ctx context.Context, materialID string, req backend.ApproveRequest) (*backend.ReviewDraft, error)
	RegenerateDraft(ctx context.Context, materialID, notes string) (*backend.ReviewDraft, error)
}

// Busy identifies the in-flight action.
type Busy int

const (
	BusyNone Busy = iota
	BusyApprove
	BusyRegenerate
)

// Workflow holds the review state for one material. Err and Notice are
// cleared at the start of every action; at most one is set afterwards.
//
// Workflow is not safe for concurrent use. Callers that run actions in the
// background must call Begin first and finish with the matching action.
type Workflow struct {
	backend          Backend
	materialID       string
	fallbackVideoURL string
	logger           *zap.Logger

	Draft         *backend.ReviewDraft
	Summary       string
	KeyPointsText string
	Err           string
	Notice        string
	Busy          Busy
}

// New creates a workflow for materialID. fallbackVideoURL is shown when
// the draft does not carry its own video.
func New(b Backend, materialID, fallbackVideoURL string, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{
		backend:          b,
		materialID:       materialID,
		fallbackVideoURL: fallbackVideoURL,
		logger:           logger.Named("review").With(zap.String("material_id", materialID)),
	}
}

// MaterialID returns the material under review.
func (w *Workflow) MaterialID() string { return w.materialID }

// VideoURL returns the draft's video, or the fallback.
func (w *Workflow) VideoURL() string {
	if w.Draft != nil && w.Draft.VideoURL != "" {
		return w.Draft.VideoURL
	}
	return w.fallbackVideoURL
}

// Status returns the draft status, REGENERATING while a regeneration is in
// flight.
func (w *Workflow) Status() string {
	if w.Busy == BusyRegenerate {
		return StatusRegenerating
	}
	if w.Draft == nil {
		return ""
	}
	return w.Draft.Status
}

// Fetch loads the latest draft. Fetch never fails: when the backend cannot
// provide a draft a blank pending one is synthesized and Err explains why.
func (w *Workflow) Fetch(ctx context.Context) {
	w.Err = ""

	draft, err := w.backend.GetReviewDraft(ctx, w.materialID)
	if err != nil {
		w.logger.Warn("draft unavailable, using placeholder", zap.Error(err))
		w.Err = MsgLoadFailed
		w.Draft = &backend.ReviewDraft{
			MaterialID:  w.materialID,
			StudyPackID: NewDraftID,
			Status:      StatusPendingReview,
			VideoURL:    w.fallbackVideoURL,
			KeyPoints:   append([]string(nil), DefaultKeyPoints...),
		}
		w.Summary = ""
		w.KeyPointsText = strings.Join(DefaultKeyPoints, "\n")
		return
	}

	w.Draft = draft
	w.Summary = draft.Summary
	points := draft.KeyPoints
	if len(points) == 0 {
		points = DefaultKeyPoints
	}
	w.KeyPointsText = strings.Join(points, "\n")
}

// EditSummary replaces the local summary.
func (w *Workflow) EditSummary(s string) { w.Summary = s }

// EditKeyPoints replaces the local key points text.
func (w *Workflow) EditKeyPoints(s string) { w.KeyPointsText = s }

// Begin marks action b as in flight. It returns ErrBusy when another
// action already is.
func (w *Workflow) Begin(b Busy) error {
	if w.Busy != BusyNone {
		return ErrBusy
	}
	w.Busy = b
	w.Err, w.Notice = "", ""
	return nil
}

// Approve publishes the edited summary and key points, then reloads the
// draft. On failure the local edits and draft are left untouched.
func (w *Workflow) Approve(ctx context.Context) error {
	if err := w.enter(BusyApprove); err != nil {
		return err
	}
	defer func() { w.Busy = BusyNone }()

	points := NormalizeKeyPoints(w.KeyPointsText)
	switch {
	case strings.TrimSpace(w.Summary) == "":
		w.Err = ErrEmptySummary.Error()
		return ErrEmptySummary
	case len(points) == 0:
		w.Err = ErrNoKeyPoints.Error()
		return ErrNoKeyPoints
	}

	req := backend.ApproveRequest{
		Summary:       w.Summary,
		KeyPoints:     points,
		KeyPointsText: w.KeyPointsText,
	}
	if w.Draft != nil && w.Draft.StudyPackID != NewDraftID {
		req.StudyPackID = w.Draft.StudyPackID
	}

	if _, err := w.backend.ApproveDraft(ctx, w.materialID, req); err != nil {
		w.logger.Warn("approve failed", zap.Error(err))
		w.Err = failure(MsgApproveFailed, err)
		return err
	}

	w.logger.Info("draft approved", zap.Int("key_points", len(points)))
	w.Fetch(ctx)
	w.Notice = MsgApproved
	return nil
}

// Regenerate asks the backend for a fresh draft and reloads it, discarding
// local edits. Empty notes are replaced with DefaultNotes.
func (w *Workflow) Regenerate(ctx context.Context, notes string) error {
	if err := w.enter(BusyRegenerate); err != nil {
		return err
	}
	defer func() { w.Busy = BusyNone }()

	if strings.TrimSpace(notes) == "" {
		notes = DefaultNotes
	}

	if _, err := w.backend.RegenerateDraft(ctx, w.materialID, notes); err != nil {
		w.logger.Warn("regenerate failed", zap.Error(err))
		w.Err = failure(MsgRegenerateFailed, err)
		return err
	}

	w.logger.Info("draft regenerated")
	w.Fetch(ctx)
	w.Notice = MsgRegenerated
	return nil
}

// enter accepts an action that was either announced with Begin or starts
// now from idle.
func (w *Workflow) enter(b Busy) error {
	if w.Busy == b {
		return nil
	}
	return w.Begin(b)
}

// failure picks the banner for a failed action. Session and conflict
// errors carry instructions the reviewer needs; anything else gets the
// generic message.
func failure(generic string, err error) string {
	switch {
	case errors.Is(err, backend.ErrUnauthorized), errors.Is(err, backend.ErrConflict):
		return generic + " " + err.Error()
	}
	return generic
}

// NormalizeKeyPoints splits text into lines, strips one leading bullet
// marker ("-", "•" or "*") and surrounding whitespace, and drops blanks.
func NormalizeKeyPoints(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		for _, bullet := range []string{"-", "•", "*"} {
			if strings.HasPrefix(line, bullet) {
				line = strings.TrimSpace(strings.TrimPrefix(line, bullet))
				break
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
