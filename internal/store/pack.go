package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// PackRepo persists study packs. A material may accumulate several packs
// over regenerations; the newest one is the current draft.
type PackRepo struct {
	db *sql.DB
}

var packColumns = []string{
	"id", "material_id", "summary", "key_points", "quiz", "flashcards",
	"status", "review_status", "notes", "approved_by", "published_at", "created_at",
}

// ErrPackExists is returned by Save when the pack ID is already stored.
var ErrPackExists = errors.New("study pack already exists")

// Save inserts a new pack. Packs are immutable apart from review fields, so
// saving an ID that already exists writes nothing and returns ErrPackExists.
func (r *PackRepo) Save(ctx context.Context, p PackRecord) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	keyPoints, err := json.Marshal(nonNil(p.KeyPoints))
	if err != nil {
		return fmt.Errorf("marshal key points: %w", err)
	}

	var published any
	if p.PublishedAt != nil {
		published = p.PublishedAt.UnixMilli()
	}

	query, args := builder().Insert("study_packs").
		Columns(packColumns...).
		Values(
			p.ID, p.MaterialID, p.Summary, string(keyPoints), rawOr(p.Quiz, "{}"), rawOr(p.Flashcards, "[]"),
			p.Status, p.ReviewStatus, p.Notes, p.ApprovedBy, published, p.CreatedAt.UnixMilli(),
		).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save study pack %s: %w", p.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save study pack %s: %w", p.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("save study pack %s: %w", p.ID, ErrPackExists)
	}
	return nil
}

// Get returns the pack with id, or nil if none exists.
func (r *PackRepo) Get(ctx context.Context, id string) (*PackRecord, error) {
	return r.first(ctx, entsql.EQ("id", id))
}

// Latest returns the newest pack for a material, or nil.
func (r *PackRepo) Latest(ctx context.Context, materialID string) (*PackRecord, error) {
	return r.first(ctx, entsql.EQ("material_id", materialID))
}

// LatestPublished returns the newest published pack for a material, or nil.
func (r *PackRepo) LatestPublished(ctx context.Context, materialID string) (*PackRecord, error) {
	return r.first(ctx, entsql.And(
		entsql.EQ("material_id", materialID),
		entsql.NotNull("published_at"),
	))
}

// UpdateReview writes the reviewer's edits and publication state onto pack id.
func (r *PackRepo) UpdateReview(ctx context.Context, id string, u ReviewUpdate) error {
	keyPoints, err := json.Marshal(nonNil(u.KeyPoints))
	if err != nil {
		return fmt.Errorf("marshal key points: %w", err)
	}

	query, args := builder().Update("study_packs").
		Set("summary", u.Summary).
		Set("key_points", string(keyPoints)).
		Set("review_status", u.ReviewStatus).
		Set("approved_by", u.ApprovedBy).
		Set("published_at", u.PublishedAt.UnixMilli()).
		Where(entsql.EQ("id", id)).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update review of %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update review of %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

func (r *PackRepo) first(ctx context.Context, where *entsql.Predicate) (*PackRecord, error) {
	query, args := builder().Select(packColumns...).
		From(entsql.Table("study_packs")).
		Where(where).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("rowid")).
		Limit(1).
		Query()

	p, err := scanPack(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func scanPack(row rowScanner) (*PackRecord, error) {
	var (
		p                           PackRecord
		keyPoints, quiz, flashcards string
		published                   sql.NullInt64
		created                     int64
	)
	err := row.Scan(
		&p.ID, &p.MaterialID, &p.Summary, &keyPoints, &quiz, &flashcards,
		&p.Status, &p.ReviewStatus, &p.Notes, &p.ApprovedBy, &published, &created,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan study pack: %w", err)
	}
	if err := json.Unmarshal([]byte(keyPoints), &p.KeyPoints); err != nil {
		return nil, fmt.Errorf("decode key points of %s: %w", p.ID, err)
	}
	p.Quiz = json.RawMessage(quiz)
	p.Flashcards = json.RawMessage(flashcards)
	if published.Valid {
		t := time.UnixMilli(published.Int64).UTC()
		p.PublishedAt = &t
	}
	p.CreatedAt = time.UnixMilli(created).UTC()
	return &p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func rawOr(raw json.RawMessage, fallback string) string {
	if len(raw) == 0 {
		return fallback
	}
	return string(raw)
}
