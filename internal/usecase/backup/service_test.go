package backup

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/eslsoft/lingodrill/internal/infrastructure/database"
)

func TestServiceExportImportRoundTrip(t *testing.T) {
	requireSQLite(t)

	ctx := context.Background()

	srcDSN := filepath.Join(t.TempDir(), "src.db")
	srcDB := openTestDB(t, srcDSN)

	seedData(t, ctx, srcDB)
	srcUsers := snapshotUsers(t, ctx, srcDB)
	srcRecords := snapshotErrorRecords(t, ctx, srcDB)

	exporter, err := NewService("sqlite3", srcDSN)
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}

	var buf bytes.Buffer
	if err := exporter.Export(ctx, &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	dstDSN := filepath.Join(t.TempDir(), "dst.db")
	dstDB := openTestDB(t, dstDSN)

	importer, err := NewService("sqlite3", dstDSN)
	if err != nil {
		t.Fatalf("new importer: %v", err)
	}
	if err := importer.Import(ctx, bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if snap := snapshotUsers(t, ctx, srcDB); !reflect.DeepEqual(snap, srcUsers) {
		t.Fatalf("source users snapshot mutated: want %#v got %#v", srcUsers, snap)
	}
	if snap := snapshotUsers(t, ctx, dstDB); !reflect.DeepEqual(srcUsers, snap) {
		t.Fatalf("users mismatch after import:\nwant %#v\ngot  %#v", srcUsers, snap)
	}
	if snap := snapshotErrorRecords(t, ctx, dstDB); !reflect.DeepEqual(srcRecords, snap) {
		t.Fatalf("error records mismatch after import:\nwant %#v\ngot  %#v", srcRecords, snap)
	}

	// Sequences must continue past the imported ids.
	var nextID int64
	if err := dstDB.GetContext(ctx, &nextID,
		`INSERT INTO users (name, created_at) VALUES ('carol', ?) RETURNING id`,
		time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("insert after import: %v", err)
	}
	if nextID <= srcUsers[len(srcUsers)-1].ID {
		t.Fatalf("expected fresh id above %d, got %d", srcUsers[len(srcUsers)-1].ID, nextID)
	}
}

func TestServiceExportTablesFilter(t *testing.T) {
	requireSQLite(t)

	ctx := context.Background()

	srcDSN := filepath.Join(t.TempDir(), "src.db")
	srcDB := openTestDB(t, srcDSN)

	seedData(t, ctx, srcDB)
	srcUsers := snapshotUsers(t, ctx, srcDB)

	exporter, err := NewService("sqlite3", srcDSN)
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}

	var buf bytes.Buffer
	if err := exporter.Export(ctx, &buf, WithTables([]string{"users"})); err != nil {
		t.Fatalf("filtered export failed: %v", err)
	}

	dstDSN := filepath.Join(t.TempDir(), "dst.db")
	dstDB := openTestDB(t, dstDSN)

	importer, err := NewService("sqlite3", dstDSN)
	if err != nil {
		t.Fatalf("new importer: %v", err)
	}
	if err := importer.Import(ctx, bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("filtered import failed: %v", err)
	}

	if snap := snapshotUsers(t, ctx, dstDB); !reflect.DeepEqual(srcUsers, snap) {
		t.Fatalf("users mismatch after filtered import")
	}
	if records := snapshotErrorRecords(t, ctx, dstDB); len(records) != 0 {
		t.Fatalf("expected no error records, got %#v", records)
	}
}

func TestServiceRejectsUnknownTable(t *testing.T) {
	svc, err := NewService("sqlite3", "ignored.db")
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := svc.selectTables([]string{"words"}); err == nil {
		t.Fatal("expected error for unsupported table")
	}
}

func openTestDB(t *testing.T, path string) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	if err := database.EnsureSchema(db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return db
}

func seedData(t *testing.T, ctx context.Context, db *sqlx.DB) {
	t.Helper()
	createdAt := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	reviewedAt := createdAt.Add(90 * time.Minute)

	statements := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO users (name, created_at) VALUES (?, ?)`, []any{"alice", createdAt}},
		{`INSERT INTO users (name, created_at) VALUES (?, ?)`, []any{"bob", createdAt.Add(time.Minute)}},
		{`INSERT INTO modules (chapter_id, name, description, language) VALUES (NULL, ?, '', ?)`,
			[]any{"Imperfect", "fr"}},
		{`INSERT INTO sentences (user_id, module_id, english_text, translation, graded_text, cefr_level, created_at)
			VALUES (1, 1, ?, ?, ?, 'B1', ?)`,
			[]any{"I used to swim.", "Je nageais.", "No corrections needed", createdAt}},
		{`INSERT INTO error_records (sentence_id, module_id, user_id, error_text,
			review_count, correct_review_count, last_reviewed_at, last_correct_at, submitted_at)
			VALUES (1, 1, 1, ?, 3, 1, ?, ?, ?)`,
			[]any{"Wrong auxiliary verb", reviewedAt, reviewedAt, createdAt}},
		{`INSERT INTO vocab_words (user_id, word, language, added_at,
			review_count, correct_review_count, last_reviewed_at, last_correct_at)
			VALUES (1, 'fromage', 'fr', ?, 0, 0, NULL, NULL)`,
			[]any{createdAt}},
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

type userSnapshot struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

type errorRecordSnapshot struct {
	ID                 int64
	SentenceID         int64
	UserID             int64
	ErrorText          string
	ReviewCount        int
	CorrectReviewCount int
	LastReviewedAt     *time.Time
	SubmittedAt        time.Time
}

func snapshotUsers(t *testing.T, ctx context.Context, db *sqlx.DB) []userSnapshot {
	t.Helper()
	type row struct {
		ID        int64     `db:"id"`
		Name      string    `db:"name"`
		CreatedAt time.Time `db:"created_at"`
	}
	var rows []row
	if err := db.SelectContext(ctx, &rows, `SELECT id, name, created_at FROM users ORDER BY id`); err != nil {
		t.Fatalf("list users: %v", err)
	}
	result := make([]userSnapshot, 0, len(rows))
	for _, r := range rows {
		result = append(result, userSnapshot{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt.UTC()})
	}
	return result
}

func snapshotErrorRecords(t *testing.T, ctx context.Context, db *sqlx.DB) []errorRecordSnapshot {
	t.Helper()
	type row struct {
		ID                 int64      `db:"id"`
		SentenceID         int64      `db:"sentence_id"`
		UserID             int64      `db:"user_id"`
		ErrorText          string     `db:"error_text"`
		ReviewCount        int        `db:"review_count"`
		CorrectReviewCount int        `db:"correct_review_count"`
		LastReviewedAt     *time.Time `db:"last_reviewed_at"`
		SubmittedAt        time.Time  `db:"submitted_at"`
	}
	var rows []row
	if err := db.SelectContext(ctx, &rows, `SELECT id, sentence_id, user_id, error_text,
		review_count, correct_review_count, last_reviewed_at, submitted_at
		FROM error_records ORDER BY id`); err != nil {
		t.Fatalf("list error records: %v", err)
	}
	result := make([]errorRecordSnapshot, 0, len(rows))
	for _, r := range rows {
		result = append(result, errorRecordSnapshot{
			ID:                 r.ID,
			SentenceID:         r.SentenceID,
			UserID:             r.UserID,
			ErrorText:          r.ErrorText,
			ReviewCount:        r.ReviewCount,
			CorrectReviewCount: r.CorrectReviewCount,
			LastReviewedAt:     copyTimePointer(r.LastReviewedAt),
			SubmittedAt:        r.SubmittedAt.UTC(),
		})
	}
	return result
}

func copyTimePointer(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	t := src.UTC()
	return &t
}

func requireSQLite(t *testing.T) {
	t.Helper()
	db, err := sql.Open("sqlite3", "file::memory:?cache=shared")
	if err != nil {
		t.Skipf("sqlite driver not available: %v", err)
		return
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Skipf("skipping sqlite-dependent tests: %v", err)
	}
}
