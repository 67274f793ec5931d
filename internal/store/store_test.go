package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"busy_timeout", "5000"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestPragmasAppliedToEveryConnection(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Two connections held at once force the pool to open a second one.
	first, err := s.DB().Conn(ctx)
	if err != nil {
		t.Fatalf("first conn: %v", err)
	}
	defer first.Close()
	second, err := s.DB().Conn(ctx)
	if err != nil {
		t.Fatalf("second conn: %v", err)
	}
	defer second.Close()

	for i, conn := range []*sql.Conn{first, second} {
		var fk, timeout int
		if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("conn %d foreign_keys: %v", i, err)
		}
		if err := conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout); err != nil {
			t.Fatalf("conn %d busy_timeout: %v", i, err)
		}
		if fk != 1 || timeout != 5000 {
			t.Errorf("conn %d: foreign_keys=%d busy_timeout=%d, want 1 and 5000", i, fk, timeout)
		}
	}
}

func TestReopenKeepsDataAndSequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	first, err := s.seq.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if err := s.KV().Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	next, err := s.seq.Next(ctx)
	if err != nil {
		t.Fatalf("next after reopen: %v", err)
	}
	if next != first+1 {
		t.Errorf("sequence after reopen = %d, want %d", next, first+1)
	}
	if v, ok, err := s.KV().Get(ctx, "k"); err != nil || !ok || v != "v" {
		t.Errorf("kv after reopen = %q, %v, %v", v, ok, err)
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{"materials", "study_packs", "llm_request_events", "quiz_attempts", "kv", "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestLLMEventsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-3-flash-preview", Purpose: "summary", InputTokens: 100, OutputTokens: 40, LatencyMs: 900, Success: true},
		{Provider: "gemini", Model: "gemini-3-flash-preview", Purpose: "quiz", InputTokens: 120, OutputTokens: 300, LatencyMs: 1500, Success: true},
		{Provider: "gemini", Model: "gemini-3-flash-preview", Purpose: "quiz", LatencyMs: 100, Success: false, ErrorMessage: "boom"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Success || got[0].ErrorMessage != "boom" {
		t.Errorf("newest event = %+v, want the failed quiz call", got[0])
	}

	quizOnly, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "quiz"})
	if err != nil {
		t.Fatalf("query by purpose: %v", err)
	}
	if len(quizOnly) != 2 {
		t.Errorf("quiz events = %d, want 2", len(quizOnly))
	}

	one, err := repo.GetLLMEvent(ctx, got[1].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if one == nil || one.Purpose != "quiz" || one.OutputTokens != 300 {
		t.Errorf("get returned %+v", one)
	}

	missing, err := repo.GetLLMEvent(ctx, 999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing event")
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 || byPurpose[0].Purpose != "quiz" || byPurpose[0].Calls != 2 || byPurpose[0].Failures != 1 {
		t.Errorf("usage by purpose = %+v", byPurpose)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 1 || byModel[0].InputTokens != 220 || byModel[0].OutputTokens != 340 {
		t.Errorf("usage by model = %+v", byModel)
	}
}

func TestQuizAttempts(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	_, err := repo.AppendQuizAttempt(ctx, QuizAttemptData{
		QuizID: "quiz-1", UserID: "u1", Answers: map[string]int{"q1": 0, "q2": 3}, Score: 1, Total: 2,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	_, err = repo.AppendQuizAttempt(ctx, QuizAttemptData{QuizID: "quiz-2", Answers: map[string]int{}})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := repo.QueryQuizAttempts(ctx, "quiz-1", QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Answers["q2"] != 3 || got[0].Score != 1 || got[0].UserID != "u1" {
		t.Errorf("attempt = %+v", got[0])
	}
}

func TestMaterialSaveGetList(t *testing.T) {
	s := openTestStore(t)
	repo := s.Materials()
	ctx := context.Background()

	base := time.Now().Truncate(time.Millisecond)
	if err := repo.Save(ctx, MaterialRecord{ID: "m1", Title: "Cells", Type: "video", Status: "pending", CreatedAt: base}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(ctx, MaterialRecord{ID: "m2", Title: "Atoms", Type: "document", Status: "ready", CreatedAt: base.Add(time.Minute)}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SetStatus(ctx, "m1", "ready"); err != nil {
		t.Fatalf("set status: %v", err)
	}

	m, err := repo.Get(ctx, "m1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if m == nil || m.Status != "ready" || m.Title != "Cells" {
		t.Fatalf("get = %+v", m)
	}

	list, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "m2" {
		t.Errorf("list order = %+v", list)
	}

	none, err := repo.Get(ctx, "nope")
	if err != nil || none != nil {
		t.Errorf("get missing = %+v, %v", none, err)
	}
}

func TestPackLatestAndReview(t *testing.T) {
	s := openTestStore(t)
	repo := s.Packs()
	ctx := context.Background()

	base := time.Now().Truncate(time.Millisecond)
	first := PackRecord{
		ID: "p1", MaterialID: "m1", Summary: "old", KeyPoints: []string{"a"},
		Quiz: json.RawMessage(`{"id":"q"}`), Status: "ready", ReviewStatus: "PENDING_REVIEW", CreatedAt: base,
	}
	second := PackRecord{
		ID: "p2", MaterialID: "m1", Summary: "new", Status: "ready", ReviewStatus: "PENDING_REVIEW",
		CreatedAt: base.Add(time.Second),
	}
	for _, p := range []PackRecord{first, second} {
		if err := repo.Save(ctx, p); err != nil {
			t.Fatalf("save %s: %v", p.ID, err)
		}
	}

	latest, err := repo.Latest(ctx, "m1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.ID != "p2" || len(latest.KeyPoints) != 0 || string(latest.Flashcards) != "[]" {
		t.Errorf("latest = %+v", latest)
	}

	published, err := repo.LatestPublished(ctx, "m1")
	if err != nil {
		t.Fatalf("latest published: %v", err)
	}
	if published != nil {
		t.Fatalf("expected no published pack yet")
	}

	now := time.Now().Truncate(time.Millisecond)
	err = repo.UpdateReview(ctx, "p1", ReviewUpdate{
		Summary: "edited", KeyPoints: []string{"x", "y"}, ReviewStatus: "PUBLISHED", ApprovedBy: "teacher-1", PublishedAt: now,
	})
	if err != nil {
		t.Fatalf("update review: %v", err)
	}

	published, err = repo.LatestPublished(ctx, "m1")
	if err != nil {
		t.Fatalf("latest published: %v", err)
	}
	if published == nil || published.ID != "p1" || published.Summary != "edited" || published.ApprovedBy != "teacher-1" {
		t.Fatalf("published = %+v", published)
	}
	if !published.PublishedAt.Equal(now) {
		t.Errorf("published at = %v, want %v", published.PublishedAt, now)
	}
	if string(published.Quiz) != `{"id":"q"}` {
		t.Errorf("quiz = %s", published.Quiz)
	}

	if err := repo.UpdateReview(ctx, "missing", ReviewUpdate{}); err == nil {
		t.Error("expected error updating a missing pack")
	}
}

func TestPackSaveExistingIDKeepsFirst(t *testing.T) {
	s := openTestStore(t)
	repo := s.Packs()
	ctx := context.Background()

	p := PackRecord{ID: "p1", MaterialID: "m1", Summary: "first", Status: "ready", ReviewStatus: "PENDING_REVIEW"}
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	p.Summary = "second"
	if err := repo.Save(ctx, p); !errors.Is(err, ErrPackExists) {
		t.Fatalf("save again: err = %v, want ErrPackExists", err)
	}

	got, err := repo.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Summary != "first" {
		t.Errorf("summary = %q, want first save kept", got.Summary)
	}
}

func TestKV(t *testing.T) {
	s := openTestStore(t)
	kv := s.KV()
	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, "access_token"); err != nil || ok {
		t.Fatalf("empty get: ok=%v err=%v", ok, err)
	}
	if err := kv.Set(ctx, "access_token", "a"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, "access_token", "b"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := kv.Set(ctx, "refresh_token", "r"); err != nil {
		t.Fatalf("set: %v", err)
	}

	v, ok, err := kv.Get(ctx, "access_token")
	if err != nil || !ok || v != "b" {
		t.Fatalf("get = %q, %v, %v", v, ok, err)
	}

	if err := kv.Delete(ctx, "access_token", "refresh_token", "absent"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "refresh_token"); ok {
		t.Error("refresh_token should be gone")
	}
}
