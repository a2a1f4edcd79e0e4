package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/eslsoft/lingodrill/internal/entity"
	"github.com/eslsoft/lingodrill/internal/infrastructure/database"
	"github.com/eslsoft/lingodrill/internal/repository"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "repo_test.db")
	db, err := sqlx.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		t.Skipf("sqlite driver not available: %v", err)
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

// seedPracticeContext inserts the user, module and sentence rows that
// error records reference. Returns (userID, moduleID, sentenceID).
func seedPracticeContext(t *testing.T, ctx context.Context, db *sqlx.DB) (int64, int64, int64) {
	t.Helper()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	users := NewUserRepository(db)
	user, err := users.Create(ctx, &entity.User{Name: "alice", CreatedAt: now})
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}

	modules := NewModuleRepository(db)
	module, err := modules.Create(ctx, &entity.Module{Name: "Imperfect", Language: entity.LanguageFrench})
	if err != nil {
		t.Fatalf("creating module: %v", err)
	}

	sentences := NewSentenceRepository(db)
	sentence, err := sentences.Create(ctx, &entity.Sentence{
		UserID:      user.ID,
		ModuleID:    module.ID,
		EnglishText: "I used to walk to school.",
		Translation: "Je marchais à l'école.",
		GradedText:  "Je marchais à l'école.",
		Level:       entity.LevelB1,
		CreatedAt:   now,
	})
	if err != nil {
		t.Fatalf("creating sentence: %v", err)
	}
	return user.ID, module.ID, sentence.ID
}

func TestErrorRecordCreateAndGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	userID, moduleID, sentenceID := seedPracticeContext(t, ctx, db)
	repo := NewErrorRecordRepository(db)

	reviewed := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, &entity.ErrorRecord{
		SentenceID: sentenceID,
		ModuleID:   moduleID,
		UserID:     userID,
		ErrorText:  "wrong auxiliary verb",
		Mastery: entity.Mastery{
			ReviewCount:        2,
			CorrectReviewCount: 1,
			LastReviewedAt:     &reviewed,
			LastCorrectAt:      &reviewed,
		},
		SubmittedAt: reviewed.Add(-24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("Create did not assign an id")
	}

	got, err := repo.GetByID(ctx, userID, created.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.ErrorText != created.ErrorText {
		t.Errorf("ErrorText = %q, want %q", got.ErrorText, created.ErrorText)
	}
	if got.ReviewCount != 2 || got.CorrectReviewCount != 1 {
		t.Errorf("mastery counts = (%d, %d), want (2, 1)", got.ReviewCount, got.CorrectReviewCount)
	}
	if got.LastCorrectAt == nil || !got.LastCorrectAt.Equal(reviewed) {
		t.Errorf("LastCorrectAt = %v, want %v", got.LastCorrectAt, reviewed)
	}
}

func TestErrorRecordGetScopedToUser(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	userID, moduleID, sentenceID := seedPracticeContext(t, ctx, db)
	repo := NewErrorRecordRepository(db)

	created, err := repo.Create(ctx, &entity.ErrorRecord{
		SentenceID: sentenceID, ModuleID: moduleID, UserID: userID,
		ErrorText: "gender agreement", SubmittedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := repo.GetByID(ctx, userID+1, created.ID); !errors.Is(err, entity.ErrRecordNotFound) {
		t.Errorf("GetByID with foreign user returned %v, want ErrRecordNotFound", err)
	}
}

func TestErrorRecordUpdatePersistsMasteryOnly(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	userID, moduleID, sentenceID := seedPracticeContext(t, ctx, db)
	repo := NewErrorRecordRepository(db)

	created, err := repo.Create(ctx, &entity.ErrorRecord{
		SentenceID: sentenceID, ModuleID: moduleID, UserID: userID,
		ErrorText: "missing accent", SubmittedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	created.RecordAttempt(now, true)
	if _, err := repo.Update(ctx, created); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	got, err := repo.GetByID(ctx, userID, created.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.ReviewCount != 1 || got.CorrectReviewCount != 1 {
		t.Errorf("mastery counts = (%d, %d), want (1, 1)", got.ReviewCount, got.CorrectReviewCount)
	}
	if got.LastReviewedAt == nil || !got.LastReviewedAt.Equal(now) {
		t.Errorf("LastReviewedAt = %v, want %v", got.LastReviewedAt, now)
	}
}

func TestErrorRecordUpdateMissingRow(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	userID, moduleID, sentenceID := seedPracticeContext(t, ctx, db)
	repo := NewErrorRecordRepository(db)

	_, err := repo.Update(ctx, &entity.ErrorRecord{
		ID: 999, SentenceID: sentenceID, ModuleID: moduleID, UserID: userID,
	})
	if !errors.Is(err, entity.ErrRecordNotFound) {
		t.Errorf("Update on missing row returned %v, want ErrRecordNotFound", err)
	}
}

func TestErrorRecordListFiltersByModule(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	userID, moduleID, sentenceID := seedPracticeContext(t, ctx, db)
	repo := NewErrorRecordRepository(db)

	modules := NewModuleRepository(db)
	other, err := modules.Create(ctx, &entity.Module{Name: "Prepositions", Language: entity.LanguageFrench})
	if err != nil {
		t.Fatalf("creating second module: %v", err)
	}

	for _, rec := range []entity.ErrorRecord{
		{SentenceID: sentenceID, ModuleID: moduleID, UserID: userID, ErrorText: "a", SubmittedAt: time.Now().UTC()},
		{SentenceID: sentenceID, ModuleID: moduleID, UserID: userID, ErrorText: "b", SubmittedAt: time.Now().UTC()},
		{SentenceID: sentenceID, ModuleID: other.ID, UserID: userID, ErrorText: "c", SubmittedAt: time.Now().UTC()},
	} {
		if _, err := repo.Create(ctx, &rec); err != nil {
			t.Fatalf("creating record: %v", err)
		}
	}

	records, total, err := repo.List(ctx, &repository.ListErrorRecordQuery{UserID: userID, ModuleID: moduleID})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 2 || len(records) != 2 {
		t.Fatalf("List returned %d records (total %d), want 2", len(records), total)
	}
	for _, rec := range records {
		if rec.ModuleID != moduleID {
			t.Errorf("record %d has module %d, want %d", rec.ID, rec.ModuleID, moduleID)
		}
	}
}
