package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/eslsoft/lingodrill/internal/entity"
	"github.com/eslsoft/lingodrill/internal/repository"
)

type sentenceRow struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	ModuleID    int64     `db:"module_id"`
	EnglishText string    `db:"english_text"`
	Translation string    `db:"translation"`
	GradedText  string    `db:"graded_text"`
	Level       string    `db:"cefr_level"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r sentenceRow) toEntity() entity.Sentence {
	return entity.Sentence{
		ID:          r.ID,
		UserID:      r.UserID,
		ModuleID:    r.ModuleID,
		EnglishText: r.EnglishText,
		Translation: r.Translation,
		GradedText:  r.GradedText,
		Level:       entity.Level(r.Level),
		CreatedAt:   r.CreatedAt,
	}
}

// SentenceRepository is the sqlx-backed graded-submission store.
type SentenceRepository struct {
	db *sqlx.DB
}

// NewSentenceRepository creates a SentenceRepository on the given connection.
func NewSentenceRepository(db *sqlx.DB) repository.SentenceRepository {
	return &SentenceRepository{db: db}
}

func (r *SentenceRepository) Create(ctx context.Context, sentence *entity.Sentence) (*entity.Sentence, error) {
	id, err := insertReturningID(ctx, r.db,
		`INSERT INTO sentences (user_id, module_id, english_text, translation, graded_text, cefr_level, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sentence.UserID, sentence.ModuleID, sentence.EnglishText,
		sentence.Translation, sentence.GradedText, string(sentence.Level), sentence.CreatedAt)
	if err != nil {
		return nil, err
	}
	created := *sentence
	created.ID = id
	return &created, nil
}

func (r *SentenceRepository) GetByID(ctx context.Context, id int64) (*entity.Sentence, error) {
	var row sentenceRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(
		`SELECT id, user_id, module_id, english_text, translation, graded_text, cefr_level, created_at
		 FROM sentences WHERE id = ?`), id)
	if err != nil {
		return nil, translateNotFound(err, entity.ErrSentenceNotFound)
	}
	sentence := row.toEntity()
	return &sentence, nil
}

func (r *SentenceRepository) List(ctx context.Context, query *repository.ListSentenceQuery) ([]entity.Sentence, int64, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if query.UserID != 0 {
		where += ` AND user_id = ?`
		args = append(args, query.UserID)
	}
	if query.ModuleID != 0 {
		where += ` AND module_id = ?`
		args = append(args, query.ModuleID)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total,
		r.db.Rebind(`SELECT COUNT(*) FROM sentences`+where), args...); err != nil {
		return nil, 0, err
	}

	sqlQuery := `SELECT id, user_id, module_id, english_text, translation, graded_text, cefr_level, created_at
		 FROM sentences` + where + ` ORDER BY id`
	if query.PageSize > 0 {
		sqlQuery += ` LIMIT ? OFFSET ?`
		args = append(args, query.PageSize, query.Offset())
	}

	var rows []sentenceRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(sqlQuery), args...); err != nil {
		return nil, 0, err
	}
	sentences := make([]entity.Sentence, 0, len(rows))
	for _, row := range rows {
		sentences = append(sentences, row.toEntity())
	}
	return sentences, total, nil
}
