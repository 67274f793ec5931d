package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/studypack/internal/backend"
	"github.com/abhisek/studypack/internal/review"
	"github.com/abhisek/studypack/internal/store"
	"github.com/abhisek/studypack/internal/study"
	"github.com/abhisek/studypack/internal/studypack"
	"github.com/abhisek/studypack/internal/transcript"
)

func (s *Server) healthz(c *gin.Context) {
	if err := s.store.DB().PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// materialID reads and validates the :materialId path parameter.
func materialID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("materialId"))
	if err != nil {
		abort(c, http.StatusBadRequest, "Invalid material ID")
		return "", false
	}
	return id.String(), true
}

func (s *Server) getReviewDraft(c *gin.Context) {
	id, ok := materialID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	pack, err := s.store.Packs().Latest(ctx, id)
	if err != nil {
		s.internal(c, "load study pack", err)
		return
	}
	if pack == nil {
		abort(c, http.StatusNotFound, "Study pack draft not found")
		return
	}
	c.JSON(http.StatusOK, backend.ReviewDraftResponse{Draft: s.draft(ctx, pack)})
}

func (s *Server) approve(c *gin.Context) {
	id, ok := materialID(c)
	if !ok {
		return
	}
	var req backend.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Summary) == "" {
		abort(c, http.StatusBadRequest, "Summary is required")
		return
	}
	points := req.KeyPoints
	if len(points) == 0 {
		points = review.NormalizeKeyPoints(req.KeyPointsText)
	}
	if len(points) == 0 {
		abort(c, http.StatusBadRequest, "At least one key point is required")
		return
	}

	ctx := c.Request.Context()
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	pack, err := s.store.Packs().Latest(ctx, id)
	if err != nil {
		s.internal(c, "load study pack", err)
		return
	}
	if pack == nil {
		abort(c, http.StatusNotFound, "Study pack draft not found")
		return
	}
	if req.StudyPackID != "" && req.StudyPackID != pack.ID {
		abort(c, http.StatusConflict, "Draft was superseded by a newer version")
		return
	}

	update := store.ReviewUpdate{
		Summary:      req.Summary,
		KeyPoints:    points,
		ReviewStatus: studypack.ReviewPublished,
		ApprovedBy:   claimsFrom(c).Subject,
		PublishedAt:  s.now().UTC(),
	}
	if err := s.store.Packs().UpdateReview(ctx, pack.ID, update); err != nil {
		s.internal(c, "approve study pack", err)
		return
	}
	s.logger.Info("draft approved",
		zap.String("material_id", id),
		zap.String("pack_id", pack.ID),
		zap.String("approved_by", update.ApprovedBy))

	s.metrics.reviews.WithLabelValues("approve").Inc()

	pack.Summary = update.Summary
	pack.KeyPoints = update.KeyPoints
	pack.ReviewStatus = update.ReviewStatus
	c.JSON(http.StatusOK, backend.ReviewDraftResponse{
		Message: "Study pack approved and published",
		Draft:   s.draft(ctx, pack),
	})
}

func (s *Server) regenerate(c *gin.Context) {
	id, ok := materialID(c)
	if !ok {
		return
	}
	// Notes are optional, so an empty body is allowed.
	var req backend.RegenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	notes := strings.TrimSpace(req.Notes)

	ctx := c.Request.Context()
	rec, err := s.store.Materials().Get(ctx, id)
	if err != nil {
		s.internal(c, "load material", err)
		return
	}
	if rec == nil {
		abort(c, http.StatusNotFound, "Material not found")
		return
	}

	pack, err := s.assembler.Assemble(ctx, studypack.MaterialFromRecord(rec), notes, nil)
	if err != nil {
		s.internal(c, "regenerate study pack", err)
		return
	}

	saved, err := s.saveDraft(ctx, pack, notes)
	if err != nil {
		s.internal(c, "save regenerated draft", err)
		return
	}
	s.logger.Info("draft regenerated", zap.String("material_id", id), zap.String("pack_id", pack.ID))
	s.metrics.reviews.WithLabelValues("regenerate").Inc()

	c.JSON(http.StatusOK, backend.ReviewDraftResponse{
		Message: "AI draft regenerated",
		Draft:   s.draft(ctx, saved),
	})
}

func (s *Server) uploadDraft(c *gin.Context) {
	var req backend.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := uuid.Parse(req.Material.ID); err != nil {
		abort(c, http.StatusBadRequest, "Invalid material ID")
		return
	}
	if req.Pack.ID == "" {
		req.Pack.ID = studypack.NewID()
	}
	req.Pack.MaterialID = req.Material.ID

	ctx := c.Request.Context()
	if err := s.store.Materials().Save(ctx, studypack.MaterialRecord(req.Material)); err != nil {
		s.internal(c, "save material", err)
		return
	}
	saved, err := s.saveDraft(ctx, &req.Pack, "")
	if errors.Is(err, store.ErrPackExists) {
		s.resubmitted(c, saved)
		return
	}
	if err != nil {
		s.internal(c, "save draft", err)
		return
	}
	s.metrics.reviews.WithLabelValues("upload").Inc()
	c.JSON(http.StatusCreated, backend.ReviewDraftResponse{Message: "Draft submitted for review", Draft: s.draft(ctx, saved)})
}

// resubmitted answers an upload whose pack ID is already stored. Sending the
// same draft again is accepted; different content under that ID conflicts.
func (s *Server) resubmitted(c *gin.Context, sent *store.PackRecord) {
	ctx := c.Request.Context()
	stored, err := s.store.Packs().Get(ctx, sent.ID)
	if err != nil {
		s.internal(c, "load study pack", err)
		return
	}
	if stored == nil || !sameContent(stored, sent) {
		abort(c, http.StatusConflict, "A different study pack with this ID already exists")
		return
	}
	c.JSON(http.StatusOK, backend.ReviewDraftResponse{Message: "Draft already submitted", Draft: s.draft(ctx, stored)})
}

func sameContent(a, b *store.PackRecord) bool {
	return a.MaterialID == b.MaterialID &&
		a.Summary == b.Summary &&
		slices.Equal(a.KeyPoints, b.KeyPoints) &&
		bytes.Equal(a.Quiz, b.Quiz) &&
		bytes.Equal(a.Flashcards, b.Flashcards)
}

func (s *Server) saveDraft(ctx context.Context, pack *studypack.StudyPack, notes string) (*store.PackRecord, error) {
	rec, err := studypack.PackRecord(pack, studypack.ReviewPending, notes)
	if err != nil {
		return nil, err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now().UTC()
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.store.Packs().Save(ctx, rec); err != nil {
		if errors.Is(err, store.ErrPackExists) {
			return &rec, err
		}
		return nil, err
	}
	return &rec, nil
}

func (s *Server) getStudyPack(c *gin.Context) {
	id, ok := materialID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	rec, err := s.store.Packs().LatestPublished(ctx, id)
	if err != nil {
		s.internal(c, "load study pack", err)
		return
	}
	if rec == nil {
		abort(c, http.StatusNotFound, "Study pack not found or not ready")
		return
	}
	pack, err := studypack.PackFromRecord(rec)
	if err != nil {
		s.internal(c, "decode study pack", err)
		return
	}

	resp := backend.PublishedPack{StudyPack: *pack}
	if rec.PublishedAt != nil {
		resp.PublishedAt = rec.PublishedAt.Format(time.RFC3339)
	}
	if m, err := s.store.Materials().Get(ctx, id); err == nil && m != nil {
		resp.Title = m.Title
		resp.VideoURL = m.SourceURL
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) fetchTranscript(c *gin.Context) {
	var req backend.TranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	_, text, status, msg := s.transcript(c.Request.Context(), req.VideoURL)
	if status != http.StatusOK {
		abort(c, status, msg)
		return
	}
	c.JSON(http.StatusOK, backend.TranscriptResponse{Transcript: text})
}

func (s *Server) youtubeTranscript(c *gin.Context) {
	title, text, status, msg := s.transcript(c.Request.Context(), c.Query("url"))
	if status != http.StatusOK {
		abort(c, status, msg)
		return
	}
	c.JSON(http.StatusOK, backend.TranscriptResponse{Title: title, Transcript: text})
}

// transcript fetches a video transcript. On failure it returns the HTTP
// status and message to report.
func (s *Server) transcript(ctx context.Context, videoURL string) (title, text string, status int, msg string) {
	if _, err := transcript.VideoID(videoURL); err != nil {
		return "", "", http.StatusBadRequest, "Invalid YouTube URL"
	}
	if s.cfg.TranscriptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.TranscriptTimeout)
		defer cancel()
	}
	title, text, err := s.transcripts.YouTubeTranscript(ctx, videoURL)
	if err != nil {
		s.logger.Warn("transcript fetch failed", zap.String("url", videoURL), zap.Error(err))
		status = http.StatusBadGateway
		if errors.Is(err, transcript.ErrNoCaptions) {
			status = http.StatusNotFound
		}
		return "", "", status, "Failed to fetch transcript: " + err.Error()
	}
	return title, text, http.StatusOK, ""
}

func (s *Server) submitQuizAttempt(c *gin.Context) {
	var req backend.QuizAttempt
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.QuizID) == "" {
		abort(c, http.StatusBadRequest, "quizId is required")
		return
	}
	ctx := c.Request.Context()

	data := store.QuizAttemptData{
		QuizID:     req.QuizID,
		MaterialID: req.MaterialID,
		UserID:     claimsFrom(c).Subject,
		Answers:    req.Answers,
		Total:      len(req.Answers),
	}
	if quiz, ok := s.publishedQuiz(ctx, req.MaterialID, req.QuizID); ok {
		data.Score, data.Total = study.Grade(quiz, req.Answers)
	}

	attemptID, err := s.store.EventRepo().AppendQuizAttempt(ctx, data)
	if err != nil {
		s.internal(c, "record quiz attempt", err)
		return
	}
	s.metrics.attempts.Inc()
	c.JSON(http.StatusCreated, backend.QuizAttemptResult{ID: attemptID, Score: data.Score, Total: data.Total})
}

// publishedQuiz returns the quiz of the material's published pack when its
// ID matches quizID.
func (s *Server) publishedQuiz(ctx context.Context, materialID, quizID string) (studypack.Quiz, bool) {
	if materialID == "" {
		return studypack.Quiz{}, false
	}
	rec, err := s.store.Packs().LatestPublished(ctx, materialID)
	if err != nil || rec == nil {
		return studypack.Quiz{}, false
	}
	pack, err := studypack.PackFromRecord(rec)
	if err != nil || pack.Quiz.ID != quizID {
		return studypack.Quiz{}, false
	}
	return pack.Quiz, true
}

func (s *Server) draft(ctx context.Context, p *store.PackRecord) *backend.ReviewDraft {
	d := &backend.ReviewDraft{
		MaterialID:  p.MaterialID,
		StudyPackID: p.ID,
		Status:      p.ReviewStatus,
		Summary:     p.Summary,
		KeyPoints:   p.KeyPoints,
	}
	if m, err := s.store.Materials().Get(ctx, p.MaterialID); err == nil && m != nil {
		d.VideoURL = m.SourceURL
	}
	return d
}

func (s *Server) internal(c *gin.Context, op string, err error) {
	_ = c.Error(err)
	s.logger.Error(op, zap.Error(err))
	abort(c, http.StatusInternalServerError, "Failed to "+op)
}
