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

type userRow struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func (r userRow) toEntity() entity.User {
	return entity.User{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt}
}

// UserRepository is the sqlx-backed user store.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a UserRepository on the given connection.
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	id, err := insertReturningID(ctx, r.db,
		`INSERT INTO users (name, created_at) VALUES (?, ?)`,
		user.Name, user.CreatedAt)
	if err != nil {
		return nil, err
	}
	created := *user
	created.ID = id
	return &created, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	var row userRow
	err := r.db.GetContext(ctx, &row,
		r.db.Rebind(`SELECT id, name, created_at FROM users WHERE id = ?`), id)
	if err != nil {
		return nil, translateNotFound(err, entity.ErrUserNotFound)
	}
	user := row.toEntity()
	return &user, nil
}

func (r *UserRepository) FindByName(ctx context.Context, name string) (*entity.User, error) {
	var row userRow
	err := r.db.GetContext(ctx, &row,
		r.db.Rebind(`SELECT id, name, created_at FROM users WHERE LOWER(name) = LOWER(?)`), name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user := row.toEntity()
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	var rows []userRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, name, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	users := make([]entity.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toEntity())
	}
	return users, nil
}
