package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/eslsoft/lingodrill/internal/entity"
	"github.com/eslsoft/lingodrill/internal/repository"
)

type moduleResultRow struct {
	ID                int64     `db:"id"`
	UserID            int64     `db:"user_id"`
	ModuleID          int64     `db:"module_id"`
	QuestionsAnswered int       `db:"questions_answered"`
	QuestionsCorrect  int       `db:"questions_correct"`
	Score             float64   `db:"score"`
	CreatedAt         time.Time `db:"created_at"`
}

func (r moduleResultRow) toEntity() entity.ModuleResult {
	return entity.ModuleResult{
		ID:                r.ID,
		UserID:            r.UserID,
		ModuleID:          r.ModuleID,
		QuestionsAnswered: r.QuestionsAnswered,
		QuestionsCorrect:  r.QuestionsCorrect,
		Score:             r.Score,
		CreatedAt:         r.CreatedAt,
	}
}

// ModuleResultRepository is the sqlx-backed session-summary store.
type ModuleResultRepository struct {
	db *sqlx.DB
}

// NewModuleResultRepository creates a ModuleResultRepository on the
// given connection.
func NewModuleResultRepository(db *sqlx.DB) repository.ModuleResultRepository {
	return &ModuleResultRepository{db: db}
}

func (r *ModuleResultRepository) Create(ctx context.Context, result *entity.ModuleResult) (*entity.ModuleResult, error) {
	id, err := insertReturningID(ctx, r.db,
		`INSERT INTO module_results (user_id, module_id, questions_answered, questions_correct, score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		result.UserID, result.ModuleID, result.QuestionsAnswered,
		result.QuestionsCorrect, result.Score, result.CreatedAt)
	if err != nil {
		return nil, err
	}
	created := *result
	created.ID = id
	return &created, nil
}

func (r *ModuleResultRepository) List(ctx context.Context, query *repository.ListModuleResultQuery) ([]entity.ModuleResult, int64, error) {
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
		r.db.Rebind(`SELECT COUNT(*) FROM module_results`+where), args...); err != nil {
		return nil, 0, err
	}

	sqlQuery := `SELECT id, user_id, module_id, questions_answered, questions_correct, score, created_at
		 FROM module_results` + where + ` ORDER BY id`
	if query.PageSize > 0 {
		sqlQuery += ` LIMIT ? OFFSET ?`
		args = append(args, query.PageSize, query.Offset())
	}

	var rows []moduleResultRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(sqlQuery), args...); err != nil {
		return nil, 0, err
	}
	results := make([]entity.ModuleResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.toEntity())
	}
	return results, total, nil
}
