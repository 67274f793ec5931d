package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// MaterialRepo persists uploaded materials.
type MaterialRepo struct {
	db *sql.DB
}

var materialColumns = []string{
	"id", "title", "type", "source_url", "content", "status", "module_id", "course_id", "created_at",
}

// Save inserts the material or replaces an existing row with the same ID.
func (r *MaterialRepo) Save(ctx context.Context, m MaterialRecord) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	query, args := builder().Insert("materials").
		Columns(materialColumns...).
		Values(m.ID, m.Title, m.Type, m.SourceURL, m.Content, m.Status, m.ModuleID, m.CourseID, m.CreatedAt.UnixMilli()).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save material %s: %w", m.ID, err)
	}
	return nil
}

// SetStatus updates the processing status of a material.
func (r *MaterialRepo) SetStatus(ctx context.Context, id, status string) error {
	query, args := builder().Update("materials").
		Set("status", status).
		Where(entsql.EQ("id", id)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set material %s status: %w", id, err)
	}
	return nil
}

// Get returns the material with id, or nil if none exists.
func (r *MaterialRepo) Get(ctx context.Context, id string) (*MaterialRecord, error) {
	query, args := builder().Select(materialColumns...).
		From(entsql.Table("materials")).
		Where(entsql.EQ("id", id)).
		Query()

	m, err := scanMaterial(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// List returns materials newest first.
func (r *MaterialRepo) List(ctx context.Context, limit int) ([]MaterialRecord, error) {
	sel := builder().Select(materialColumns...).
		From(entsql.Table("materials")).
		OrderBy(entsql.Desc("created_at"))
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var out []MaterialRecord
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func scanMaterial(row rowScanner) (*MaterialRecord, error) {
	var (
		m  MaterialRecord
		ts int64
	)
	err := row.Scan(&m.ID, &m.Title, &m.Type, &m.SourceURL, &m.Content, &m.Status, &m.ModuleID, &m.CourseID, &ts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan material: %w", err)
	}
	m.CreatedAt = time.UnixMilli(ts).UTC()
	return &m, nil
}
