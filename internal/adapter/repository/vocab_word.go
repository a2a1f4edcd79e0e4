package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/eslsoft/lingodrill/internal/entity"
	"github.com/eslsoft/lingodrill/internal/repository"
)

type vocabWordRow struct {
	ID                 int64      `db:"id"`
	UserID             int64      `db:"user_id"`
	Word               string     `db:"word"`
	Language           string     `db:"language"`
	AddedAt            time.Time  `db:"added_at"`
	ReviewCount        int        `db:"review_count"`
	CorrectReviewCount int        `db:"correct_review_count"`
	LastReviewedAt     *time.Time `db:"last_reviewed_at"`
	LastCorrectAt      *time.Time `db:"last_correct_at"`
}

func (r vocabWordRow) toEntity() entity.VocabWord {
	return entity.VocabWord{
		ID:       r.ID,
		UserID:   r.UserID,
		Word:     r.Word,
		Language: entity.ParseLanguage(r.Language),
		AddedAt:  r.AddedAt,
		Mastery: entity.Mastery{
			ReviewCount:        r.ReviewCount,
			CorrectReviewCount: r.CorrectReviewCount,
			LastReviewedAt:     r.LastReviewedAt,
			LastCorrectAt:      r.LastCorrectAt,
		},
	}
}

const vocabWordColumns = `id, user_id, word, language, added_at,
	review_count, correct_review_count, last_reviewed_at, last_correct_at`

// VocabWordRepository is the sqlx-backed vocabulary store.
type VocabWordRepository struct {
	db *sqlx.DB
}

// NewVocabWordRepository creates a VocabWordRepository on the given
// connection.
func NewVocabWordRepository(db *sqlx.DB) repository.VocabWordRepository {
	return &VocabWordRepository{db: db}
}

func (r *VocabWordRepository) Create(ctx context.Context, word *entity.VocabWord) (*entity.VocabWord, error) {
	id, err := insertReturningID(ctx, r.db,
		`INSERT INTO vocab_words (user_id, word, language, added_at,
			review_count, correct_review_count, last_reviewed_at, last_correct_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		word.UserID, word.Word, word.Language.Code(), word.AddedAt,
		word.ReviewCount, word.CorrectReviewCount, word.LastReviewedAt, word.LastCorrectAt)
	if err != nil {
		return nil, err
	}
	created := *word
	created.ID = id
	return &created, nil
}

// Update persists the mastery fields only.
func (r *VocabWordRepository) Update(ctx context.Context, word *entity.VocabWord) (*entity.VocabWord, error) {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(
		`UPDATE vocab_words SET review_count = ?, correct_review_count = ?,
			last_reviewed_at = ?, last_correct_at = ?
		 WHERE id = ? AND user_id = ?`),
		word.ReviewCount, word.CorrectReviewCount,
		word.LastReviewedAt, word.LastCorrectAt,
		word.ID, word.UserID)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, entity.ErrRecordNotFound
	}
	updated := *word
	return &updated, nil
}

func (r *VocabWordRepository) GetByID(ctx context.Context, userID, id int64) (*entity.VocabWord, error) {
	var row vocabWordRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(
		`SELECT `+vocabWordColumns+` FROM vocab_words WHERE id = ? AND user_id = ?`),
		id, userID)
	if err != nil {
		return nil, translateNotFound(err, entity.ErrRecordNotFound)
	}
	word := row.toEntity()
	return &word, nil
}

func (r *VocabWordRepository) FindByWord(ctx context.Context, userID int64, word string, language entity.Language) (*entity.VocabWord, error) {
	var row vocabWordRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(
		`SELECT `+vocabWordColumns+` FROM vocab_words
		 WHERE user_id = ? AND LOWER(word) = LOWER(?) AND language = ?`),
		userID, word, language.Code())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	found := row.toEntity()
	return &found, nil
}

func (r *VocabWordRepository) List(ctx context.Context, query *repository.ListVocabWordQuery) ([]entity.VocabWord, int64, error) {
	where := ` WHERE user_id = ?`
	args := []any{query.UserID}
	if query.Language != entity.LanguageUnspecified {
		where += ` AND language = ?`
		args = append(args, query.Language.Code())
	}

	var total int64
	if err := r.db.GetContext(ctx, &total,
		r.db.Rebind(`SELECT COUNT(*) FROM vocab_words`+where), args...); err != nil {
		return nil, 0, err
	}

	sqlQuery := `SELECT ` + vocabWordColumns + ` FROM vocab_words` + where + ` ORDER BY id`
	if query.PageSize > 0 {
		sqlQuery += ` LIMIT ? OFFSET ?`
		args = append(args, query.PageSize, query.Offset())
	}

	var rows []vocabWordRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(sqlQuery), args...); err != nil {
		return nil, 0, err
	}
	words := make([]entity.VocabWord, 0, len(rows))
	for _, row := range rows {
		words = append(words, row.toEntity())
	}
	return words, total, nil
}

func (r *VocabWordRepository) Delete(ctx context.Context, userID, id int64) error {
	result, err := r.db.ExecContext(ctx,
		r.db.Rebind(`DELETE FROM vocab_words WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrRecordNotFound
	}
	return nil
}
