package review

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studypack/internal/backend"
)

type fakeBackend struct {
	draft         *backend.ReviewDraft
	getErr        error
	approveErr    error
	regenerateErr error

	gets      int
	approved  []backend.ApproveRequest
	regenNote []string

	// onApprove runs inside ApproveDraft, while the workflow is busy.
	onApprove func()
}

func (f *fakeBackend) GetReviewDraft(context.Context, string) (*backend.ReviewDraft, error) {
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	d := *f.draft
	return &d, nil
}

func (f *fakeBackend) ApproveDraft(_ context.Context, _ string, req backend.ApproveRequest) (*backend.ReviewDraft, error) {
	if f.onApprove != nil {
		f.onApprove()
	}
	f.approved = append(f.approved, req)
	if f.approveErr != nil {
		return nil, f.approveErr
	}
	f.draft.Status = StatusPublished
	f.draft.Summary = req.Summary
	f.draft.KeyPoints = req.KeyPoints
	return f.draft, nil
}

func (f *fakeBackend) RegenerateDraft(_ context.Context, _ string, notes string) (*backend.ReviewDraft, error) {
	f.regenNote = append(f.regenNote, notes)
	if f.regenerateErr != nil {
		return nil, f.regenerateErr
	}
	f.draft.StudyPackID = "p2"
	f.draft.Status = StatusPendingReview
	f.draft.Summary = "regenerated"
	return f.draft, nil
}

func newDraft() *backend.ReviewDraft {
	return &backend.ReviewDraft{
		MaterialID:  "m1",
		StudyPackID: "p1",
		Status:      StatusPendingReview,
		VideoURL:    "https://www.youtube.com/watch?v=XYZ",
		Summary:     "Original summary",
		KeyPoints:   []string{"0:45 - Framing", "3:10 - Concept"},
	}
}

func TestFetch_LoadsDraft(t *testing.T) {
	fb := &fakeBackend{draft: newDraft()}
	w := New(fb, "m1", "", nil)

	w.Fetch(context.Background())
	assert.Empty(t, w.Err)
	assert.Equal(t, "Original summary", w.Summary)
	assert.Equal(t, "0:45 - Framing\n3:10 - Concept", w.KeyPointsText)
	assert.Equal(t, StatusPendingReview, w.Status())
}

func TestFetch_EmptyKeyPointsUseDefaults(t *testing.T) {
	d := newDraft()
	d.KeyPoints = nil
	w := New(&fakeBackend{draft: d}, "m1", "", nil)

	w.Fetch(context.Background())
	assert.Equal(t, DefaultKeyPoints, NormalizeKeyPoints(w.KeyPointsText))
}

func TestFetch_FailureSynthesizesDraft(t *testing.T) {
	fb := &fakeBackend{getErr: errors.New("connection refused")}
	w := New(fb, "m1", "https://www.youtube.com/watch?v=FALLBACK", nil)

	w.Fetch(context.Background())
	require.NotNil(t, w.Draft)
	assert.Equal(t, MsgLoadFailed, w.Err)
	assert.Equal(t, NewDraftID, w.Draft.StudyPackID)
	assert.Equal(t, StatusPendingReview, w.Draft.Status)
	assert.Equal(t, "m1", w.Draft.MaterialID)
	assert.Empty(t, w.Summary)
	assert.Equal(t, DefaultKeyPoints, NormalizeKeyPoints(w.KeyPointsText))
	assert.Equal(t, "https://www.youtube.com/watch?v=FALLBACK", w.VideoURL())
}

func TestApprove_NormalizesAndPublishes(t *testing.T) {
	fb := &fakeBackend{draft: newDraft()}
	w := New(fb, "m1", "", nil)
	w.Fetch(context.Background())

	w.EditSummary("Edited summary")
	w.EditKeyPoints("- First point\n\n•  Second point\n* Third\nplain\n   ")

	require.NoError(t, w.Approve(context.Background()))

	require.Len(t, fb.approved, 1)
	req := fb.approved[0]
	assert.Equal(t, "Edited summary", req.Summary)
	assert.Equal(t, []string{"First point", "Second point", "Third", "plain"}, req.KeyPoints)
	assert.Equal(t, "- First point\n\n•  Second point\n* Third\nplain\n   ", req.KeyPointsText)
	assert.Equal(t, "p1", req.StudyPackID)

	assert.Equal(t, MsgApproved, w.Notice)
	assert.Empty(t, w.Err)
	assert.Equal(t, StatusPublished, w.Status())
	assert.Equal(t, 2, fb.gets)
	assert.Equal(t, BusyNone, w.Busy)
}

func TestApprove_FailureKeepsState(t *testing.T) {
	fb := &fakeBackend{draft: newDraft(), approveErr: errors.New("500")}
	w := New(fb, "m1", "", nil)
	w.Fetch(context.Background())
	w.EditSummary("Edited")

	err := w.Approve(context.Background())
	require.Error(t, err)
	assert.Equal(t, MsgApproveFailed, w.Err)
	assert.Empty(t, w.Notice)
	assert.Equal(t, "Edited", w.Summary)
	assert.Equal(t, StatusPendingReview, w.Status())
	assert.Equal(t, 1, fb.gets)
}

func TestApprove_ConflictExplainsReload(t *testing.T) {
	conflict := fmt.Errorf("approve: %w", backend.ErrConflict)
	fb := &fakeBackend{draft: newDraft(), approveErr: conflict}
	w := New(fb, "m1", "", nil)
	w.Fetch(context.Background())

	err := w.Approve(context.Background())
	assert.ErrorIs(t, err, backend.ErrConflict)
	assert.Contains(t, w.Err, MsgApproveFailed)
	assert.Contains(t, w.Err, "superseded")
}

func TestApprove_RejectsLocally(t *testing.T) {
	tests := []struct {
		name      string
		summary   string
		keyPoints string
		want      error
	}{
		{"blank summary", "   ", "- a", ErrEmptySummary},
		{"no key points", "ok", "-\n *  \n\n", ErrNoKeyPoints},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := &fakeBackend{draft: newDraft()}
			w := New(fb, "m1", "", nil)
			w.Fetch(context.Background())
			w.EditSummary(tt.summary)
			w.EditKeyPoints(tt.keyPoints)

			assert.ErrorIs(t, w.Approve(context.Background()), tt.want)
			assert.Empty(t, fb.approved)
			assert.Equal(t, BusyNone, w.Busy)
		})
	}
}

func TestApprove_SynthesizedDraftOmitsPackID(t *testing.T) {
	fb := &fakeBackend{draft: newDraft(), getErr: errors.New("down")}
	w := New(fb, "m1", "", nil)
	w.Fetch(context.Background())
	w.EditSummary("Fresh")

	fb.getErr = nil
	require.NoError(t, w.Approve(context.Background()))
	assert.Empty(t, fb.approved[0].StudyPackID)
}

func TestRegenerate(t *testing.T) {
	fb := &fakeBackend{draft: newDraft()}
	w := New(fb, "m1", "", nil)
	w.Fetch(context.Background())
	w.EditSummary("local edit that will be discarded")

	require.NoError(t, w.Regenerate(context.Background(), ""))
	assert.Equal(t, []string{DefaultNotes}, fb.regenNote)
	assert.Equal(t, "regenerated", w.Summary)
	assert.Equal(t, "p2", w.Draft.StudyPackID)
	assert.Equal(t, MsgRegenerated, w.Notice)
	assert.Equal(t, StatusPendingReview, w.Status())
}

func TestRegenerate_FailureRestoresState(t *testing.T) {
	fb := &fakeBackend{draft: newDraft(), regenerateErr: errors.New("boom")}
	w := New(fb, "m1", "", nil)
	w.Fetch(context.Background())
	w.EditSummary("keep me")

	require.Error(t, w.Regenerate(context.Background(), "focus on examples"))
	assert.Equal(t, []string{"focus on examples"}, fb.regenNote)
	assert.Equal(t, MsgRegenerateFailed, w.Err)
	assert.Equal(t, "keep me", w.Summary)
	assert.Equal(t, StatusPendingReview, w.Status())
	assert.Equal(t, BusyNone, w.Busy)
}

func TestMutualExclusion(t *testing.T) {
	fb := &fakeBackend{draft: newDraft()}
	w := New(fb, "m1", "", nil)
	w.Fetch(context.Background())

	var nested error
	fb.onApprove = func() {
		assert.Equal(t, StatusPendingReview, w.Status())
		nested = w.Regenerate(context.Background(), "")
	}

	require.NoError(t, w.Approve(context.Background()))
	assert.ErrorIs(t, nested, ErrBusy)
	assert.Empty(t, fb.regenNote)
}

func TestBeginThenAction(t *testing.T) {
	fb := &fakeBackend{draft: newDraft()}
	w := New(fb, "m1", "", nil)
	w.Fetch(context.Background())

	require.NoError(t, w.Begin(BusyRegenerate))
	assert.Equal(t, StatusRegenerating, w.Status())
	assert.ErrorIs(t, w.Begin(BusyApprove), ErrBusy)
	assert.ErrorIs(t, w.Approve(context.Background()), ErrBusy)

	require.NoError(t, w.Regenerate(context.Background(), "n"))
	assert.Equal(t, BusyNone, w.Busy)
	assert.Empty(t, fb.approved)
}

func TestNormalizeKeyPoints(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a\nb", []string{"a", "b"}},
		{"- a\n-b\n•c\n* d", []string{"a", "b", "c", "d"}},
		{"  -   spaced  \n\n\n", []string{"spaced"}},
		{"-- double", []string{"- double"}},
		{"3:10 - keep inner dash", []string{"3:10 - keep inner dash"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKeyPoints(tt.in))
		})
	}
}
