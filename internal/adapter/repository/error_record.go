package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/eslsoft/lingodrill/internal/entity"
	"github.com/eslsoft/lingodrill/internal/repository"
)

type errorRecordRow struct {
	ID                 int64      `db:"id"`
	SentenceID         int64      `db:"sentence_id"`
	ModuleID           int64      `db:"module_id"`
	UserID             int64      `db:"user_id"`
	ErrorText          string     `db:"error_text"`
	ReviewCount        int        `db:"review_count"`
	CorrectReviewCount int        `db:"correct_review_count"`
	LastReviewedAt     *time.Time `db:"last_reviewed_at"`
	LastCorrectAt      *time.Time `db:"last_correct_at"`
	SubmittedAt        time.Time  `db:"submitted_at"`
}

func (r errorRecordRow) toEntity() entity.ErrorRecord {
	return entity.ErrorRecord{
		ID:         r.ID,
		SentenceID: r.SentenceID,
		ModuleID:   r.ModuleID,
		UserID:     r.UserID,
		ErrorText:  r.ErrorText,
		Mastery: entity.Mastery{
			ReviewCount:        r.ReviewCount,
			CorrectReviewCount: r.CorrectReviewCount,
			LastReviewedAt:     r.LastReviewedAt,
			LastCorrectAt:      r.LastCorrectAt,
		},
		SubmittedAt: r.SubmittedAt,
	}
}

const errorRecordColumns = `id, sentence_id, module_id, user_id, error_text,
	review_count, correct_review_count, last_reviewed_at, last_correct_at, submitted_at`

// ErrorRecordRepository is the sqlx-backed grammar weak-point store.
type ErrorRecordRepository struct {
	db *sqlx.DB
}

// NewErrorRecordRepository creates an ErrorRecordRepository on the
// given connection.
func NewErrorRecordRepository(db *sqlx.DB) repository.ErrorRecordRepository {
	return &ErrorRecordRepository{db: db}
}

func (r *ErrorRecordRepository) Create(ctx context.Context, record *entity.ErrorRecord) (*entity.ErrorRecord, error) {
	id, err := insertReturningID(ctx, r.db,
		`INSERT INTO error_records (sentence_id, module_id, user_id, error_text,
			review_count, correct_review_count, last_reviewed_at, last_correct_at, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.SentenceID, record.ModuleID, record.UserID, record.ErrorText,
		record.ReviewCount, record.CorrectReviewCount,
		record.LastReviewedAt, record.LastCorrectAt, record.SubmittedAt)
	if err != nil {
		return nil, err
	}
	created := *record
	created.ID = id
	return &created, nil
}

// Update persists the mastery fields only; the descriptive fields are
// immutable once created.
func (r *ErrorRecordRepository) Update(ctx context.Context, record *entity.ErrorRecord) (*entity.ErrorRecord, error) {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(
		`UPDATE error_records SET review_count = ?, correct_review_count = ?,
			last_reviewed_at = ?, last_correct_at = ?
		 WHERE id = ? AND user_id = ?`),
		record.ReviewCount, record.CorrectReviewCount,
		record.LastReviewedAt, record.LastCorrectAt,
		record.ID, record.UserID)
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
	updated := *record
	return &updated, nil
}

func (r *ErrorRecordRepository) GetByID(ctx context.Context, userID, id int64) (*entity.ErrorRecord, error) {
	var row errorRecordRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(
		`SELECT `+errorRecordColumns+` FROM error_records WHERE id = ? AND user_id = ?`),
		id, userID)
	if err != nil {
		return nil, translateNotFound(err, entity.ErrRecordNotFound)
	}
	record := row.toEntity()
	return &record, nil
}

func (r *ErrorRecordRepository) List(ctx context.Context, query *repository.ListErrorRecordQuery) ([]entity.ErrorRecord, int64, error) {
	where := ` WHERE user_id = ?`
	args := []any{query.UserID}
	if query.ModuleID != 0 {
		where += ` AND module_id = ?`
		args = append(args, query.ModuleID)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total,
		r.db.Rebind(`SELECT COUNT(*) FROM error_records`+where), args...); err != nil {
		return nil, 0, err
	}

	sqlQuery := `SELECT ` + errorRecordColumns + ` FROM error_records` + where + ` ORDER BY id`
	if query.PageSize > 0 {
		sqlQuery += ` LIMIT ? OFFSET ?`
		args = append(args, query.PageSize, query.Offset())
	}

	var rows []errorRecordRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(sqlQuery), args...); err != nil {
		return nil, 0, err
	}
	records := make([]entity.ErrorRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toEntity())
	}
	return records, total, nil
}
