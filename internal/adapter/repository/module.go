package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/eslsoft/lingodrill/internal/entity"
	"github.com/eslsoft/lingodrill/internal/repository"
)

type moduleRow struct {
	ID          int64  `db:"id"`
	ChapterID   *int64 `db:"chapter_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Language    string `db:"language"`
}

func (r moduleRow) toEntity() entity.Module {
	return entity.Module{
		ID:          r.ID,
		ChapterID:   r.ChapterID,
		Name:        r.Name,
		Description: r.Description,
		Language:    entity.ParseLanguage(r.Language),
	}
}

// ModuleRepository is the sqlx-backed module/instruction store.
type ModuleRepository struct {
	db *sqlx.DB
}

// NewModuleRepository creates a ModuleRepository on the given connection.
func NewModuleRepository(db *sqlx.DB) repository.ModuleRepository {
	return &ModuleRepository{db: db}
}

func (r *ModuleRepository) Create(ctx context.Context, module *entity.Module) (*entity.Module, error) {
	id, err := insertReturningID(ctx, r.db,
		`INSERT INTO modules (chapter_id, name, description, language) VALUES (?, ?, ?, ?)`,
		module.ChapterID, module.Name, module.Description, module.Language.Code())
	if err != nil {
		return nil, err
	}
	created := *module
	created.ID = id
	return &created, nil
}

func (r *ModuleRepository) GetByID(ctx context.Context, id int64) (*entity.Module, error) {
	var row moduleRow
	err := r.db.GetContext(ctx, &row,
		r.db.Rebind(`SELECT id, chapter_id, name, description, language FROM modules WHERE id = ?`), id)
	if err != nil {
		return nil, translateNotFound(err, entity.ErrModuleNotFound)
	}
	module := row.toEntity()
	return &module, nil
}

func (r *ModuleRepository) FindByName(ctx context.Context, name string, language entity.Language) (*entity.Module, error) {
	var row moduleRow
	err := r.db.GetContext(ctx, &row,
		r.db.Rebind(`SELECT id, chapter_id, name, description, language FROM modules
			WHERE LOWER(name) = LOWER(?) AND language = ?`),
		name, language.Code())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	module := row.toEntity()
	return &module, nil
}

func (r *ModuleRepository) List(ctx context.Context, query *repository.ListModuleQuery) ([]entity.Module, error) {
	sqlQuery := `SELECT id, chapter_id, name, description, language FROM modules WHERE 1=1`
	args := []any{}
	if query.Language != entity.LanguageUnspecified {
		sqlQuery += ` AND language = ?`
		args = append(args, query.Language.Code())
	}
	if query.ChapterID != 0 {
		sqlQuery += ` AND chapter_id = ?`
		args = append(args, query.ChapterID)
	}
	sqlQuery += ` ORDER BY id`
	if query.PageSize > 0 {
		sqlQuery += ` LIMIT ? OFFSET ?`
		args = append(args, query.PageSize, query.Offset())
	}

	var rows []moduleRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(sqlQuery), args...); err != nil {
		return nil, err
	}
	modules := make([]entity.Module, 0, len(rows))
	for _, row := range rows {
		modules = append(modules, row.toEntity())
	}
	return modules, nil
}

func (r *ModuleRepository) UpsertInstruction(ctx context.Context, instruction *entity.Instruction) error {
	// Same upsert syntax on SQLite and PostgreSQL.
	_, err := r.db.ExecContext(ctx, r.db.Rebind(
		`INSERT INTO instructions (module_id, text) VALUES (?, ?)
		 ON CONFLICT (module_id) DO UPDATE SET text = excluded.text`),
		instruction.ModuleID, instruction.Text)
	return err
}

func (r *ModuleRepository) GetInstruction(ctx context.Context, moduleID int64) (*entity.Instruction, error) {
	var text string
	err := r.db.GetContext(ctx, &text,
		r.db.Rebind(`SELECT text FROM instructions WHERE module_id = ?`), moduleID)
	if err != nil {
		return nil, translateNotFound(err, entity.ErrInstructionNotFound)
	}
	return &entity.Instruction{ModuleID: moduleID, Text: text}, nil
}
