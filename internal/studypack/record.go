package studypack

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/studypack/internal/store"
)

// Review statuses stored alongside a pack.
const (
	ReviewPending   = "PENDING_REVIEW"
	ReviewPublished = "PUBLISHED"
)

// PackRecord converts a pack to its stored form under the given review status.
func PackRecord(p *StudyPack, reviewStatus, notes string) (store.PackRecord, error) {
	quiz, err := json.Marshal(p.Quiz)
	if err != nil {
		return store.PackRecord{}, fmt.Errorf("marshal quiz: %w", err)
	}
	cards, err := json.Marshal(p.Flashcards)
	if err != nil {
		return store.PackRecord{}, fmt.Errorf("marshal flashcards: %w", err)
	}
	return store.PackRecord{
		ID:           p.ID,
		MaterialID:   p.MaterialID,
		Summary:      p.Summary,
		KeyPoints:    p.KeyPoints,
		Quiz:         quiz,
		Flashcards:   cards,
		Status:       string(p.Status),
		ReviewStatus: reviewStatus,
		Notes:        notes,
		CreatedAt:    p.CreatedAt,
	}, nil
}

// PackFromRecord rebuilds a pack from its stored form.
func PackFromRecord(r *store.PackRecord) (*StudyPack, error) {
	p := &StudyPack{
		ID:         r.ID,
		MaterialID: r.MaterialID,
		Summary:    r.Summary,
		KeyPoints:  r.KeyPoints,
		CreatedAt:  r.CreatedAt,
		Status:     Status(r.Status),
	}
	if err := json.Unmarshal(r.Quiz, &p.Quiz); err != nil {
		return nil, fmt.Errorf("decode quiz of %s: %w", r.ID, err)
	}
	if err := json.Unmarshal(r.Flashcards, &p.Flashcards); err != nil {
		return nil, fmt.Errorf("decode flashcards of %s: %w", r.ID, err)
	}
	return p, nil
}

// MaterialRecord converts a material to its stored form.
func MaterialRecord(m Material) store.MaterialRecord {
	return store.MaterialRecord{
		ID:        m.ID,
		Title:     m.Title,
		Type:      string(m.Type),
		SourceURL: m.SourceURL,
		Content:   m.Content,
		Status:    string(m.Status),
		ModuleID:  m.ModuleID,
		CourseID:  m.CourseID,
		CreatedAt: m.CreatedAt,
	}
}

// MaterialFromRecord rebuilds a material from its stored form.
func MaterialFromRecord(r *store.MaterialRecord) Material {
	return Material{
		ID:        r.ID,
		Title:     r.Title,
		Type:      MaterialType(r.Type),
		SourceURL: r.SourceURL,
		Content:   r.Content,
		Status:    Status(r.Status),
		CreatedAt: r.CreatedAt,
		ModuleID:  r.ModuleID,
		CourseID:  r.CourseID,
	}
}
