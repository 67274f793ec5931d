package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Timestamps are stored as unix milliseconds; JSON columns hold encoded
// slices produced by the caller.
var (
	// MaterialsColumns holds the columns for the "materials" table.
	MaterialsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString},
		{Name: "type", Type: field.TypeString},
		{Name: "source_url", Type: field.TypeString, Default: ""},
		{Name: "content", Type: field.TypeString, Default: ""},
		{Name: "status", Type: field.TypeString},
		{Name: "module_id", Type: field.TypeString, Default: ""},
		{Name: "course_id", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeInt64},
	}
	MaterialsTable = &schema.Table{
		Name:       "materials",
		Columns:    MaterialsColumns,
		PrimaryKey: []*schema.Column{MaterialsColumns[0]},
	}

	// StudyPacksColumns holds the columns for the "study_packs" table.
	StudyPacksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "material_id", Type: field.TypeString},
		{Name: "summary", Type: field.TypeString, Default: ""},
		{Name: "key_points", Type: field.TypeString, Default: "[]"},
		{Name: "quiz", Type: field.TypeString, Default: "{}"},
		{Name: "flashcards", Type: field.TypeString, Default: "[]"},
		{Name: "status", Type: field.TypeString},
		{Name: "review_status", Type: field.TypeString},
		{Name: "notes", Type: field.TypeString, Default: ""},
		{Name: "approved_by", Type: field.TypeString, Default: ""},
		{Name: "published_at", Type: field.TypeInt64, Nullable: true},
		{Name: "created_at", Type: field.TypeInt64},
	}
	StudyPacksTable = &schema.Table{
		Name:       "study_packs",
		Columns:    StudyPacksColumns,
		PrimaryKey: []*schema.Column{StudyPacksColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "studypack_material_id_created_at",
				Columns: []*schema.Column{StudyPacksColumns[1], StudyPacksColumns[11]},
			},
		},
	}

	// LlmRequestEventsColumns holds the columns for the "llm_request_events" table.
	LlmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Default: ""},
		{Name: "response_body", Type: field.TypeString, Default: ""},
	}
	LlmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LlmRequestEventsColumns,
		PrimaryKey: []*schema.Column{LlmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_sequence",
				Unique:  true,
				Columns: []*schema.Column{LlmRequestEventsColumns[1]},
			},
		},
	}

	// QuizAttemptsColumns holds the columns for the "quiz_attempts" table.
	QuizAttemptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "quiz_id", Type: field.TypeString},
		{Name: "material_id", Type: field.TypeString, Default: ""},
		{Name: "user_id", Type: field.TypeString, Default: ""},
		{Name: "answers", Type: field.TypeString},
		{Name: "score", Type: field.TypeInt, Default: 0},
		{Name: "total", Type: field.TypeInt, Default: 0},
	}
	QuizAttemptsTable = &schema.Table{
		Name:       "quiz_attempts",
		Columns:    QuizAttemptsColumns,
		PrimaryKey: []*schema.Column{QuizAttemptsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "quizattempt_quiz_id",
				Columns: []*schema.Column{QuizAttemptsColumns[3]},
			},
		},
	}

	// KvColumns holds the columns for the "kv" table.
	KvColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString},
		{Name: "value", Type: field.TypeString},
	}
	KvTable = &schema.Table{
		Name:       "kv",
		Columns:    KvColumns,
		PrimaryKey: []*schema.Column{KvColumns[0]},
	}

	// GlobalSequenceColumns holds the columns for the "global_sequence" table.
	// It has a single row, id 1.
	GlobalSequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	GlobalSequenceTable = &schema.Table{
		Name:       "global_sequence",
		Columns:    GlobalSequenceColumns,
		PrimaryKey: []*schema.Column{GlobalSequenceColumns[0]},
	}

	// Tables holds every table the repositories use.
	Tables = []*schema.Table{
		MaterialsTable,
		StudyPacksTable,
		LlmRequestEventsTable,
		QuizAttemptsTable,
		KvTable,
		GlobalSequenceTable,
	}
)

// migrate brings the database up to Tables. Migration only adds tables,
// columns and indexes, so it is safe to run on every open.
func migrate(ctx context.Context, db *sql.DB) error {
	m, err := schema.NewMigrate(entsql.OpenDB(dialect.SQLite, db))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
