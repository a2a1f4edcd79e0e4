// Package repository contains the sqlx-backed implementations of the
// persistence interfaces. Queries are written with ? placeholders and
// rebound per driver, so the same code runs on SQLite and PostgreSQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// insertReturningID runs an INSERT and reports the new row's id.
// PostgreSQL needs RETURNING; SQLite exposes LastInsertId.
func insertReturningID(ctx context.Context, db *sqlx.DB, query string, args ...any) (int64, error) {
	if db.DriverName() == "postgres" {
		var id int64
		err := db.QueryRowxContext(ctx, db.Rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}

	result, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// translateNotFound maps the driver's empty-result error onto a domain
// sentinel so usecases never see database/sql.
func translateNotFound(err, sentinel error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return err
}
