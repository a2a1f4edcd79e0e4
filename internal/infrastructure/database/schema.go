// Package database opens the relational store and manages its schema.
package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schemaStatements lists the tables in dependency order. %[1]s is the
// driver-specific auto-increment primary key clause.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id %[1]s,
		name TEXT NOT NULL UNIQUE,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id %[1]s,
		language TEXT NOT NULL,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS chapters (
		id %[1]s,
		course_id BIGINT NOT NULL REFERENCES courses(id),
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS modules (
		id %[1]s,
		chapter_id BIGINT REFERENCES chapters(id),
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		language TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS instructions (
		module_id BIGINT PRIMARY KEY REFERENCES modules(id),
		text TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sentences (
		id %[1]s,
		user_id BIGINT NOT NULL REFERENCES users(id),
		module_id BIGINT NOT NULL REFERENCES modules(id),
		english_text TEXT NOT NULL,
		translation TEXT NOT NULL,
		graded_text TEXT NOT NULL,
		cefr_level TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS error_records (
		id %[1]s,
		sentence_id BIGINT NOT NULL REFERENCES sentences(id),
		module_id BIGINT NOT NULL REFERENCES modules(id),
		user_id BIGINT NOT NULL REFERENCES users(id),
		error_text TEXT NOT NULL,
		review_count INTEGER NOT NULL DEFAULT 0,
		correct_review_count INTEGER NOT NULL DEFAULT 0,
		last_reviewed_at TIMESTAMP,
		last_correct_at TIMESTAMP,
		submitted_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS vocab_words (
		id %[1]s,
		user_id BIGINT NOT NULL REFERENCES users(id),
		word TEXT NOT NULL,
		language TEXT NOT NULL,
		added_at TIMESTAMP NOT NULL,
		review_count INTEGER NOT NULL DEFAULT 0,
		correct_review_count INTEGER NOT NULL DEFAULT 0,
		last_reviewed_at TIMESTAMP,
		last_correct_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS module_results (
		id %[1]s,
		user_id BIGINT NOT NULL REFERENCES users(id),
		module_id BIGINT NOT NULL REFERENCES modules(id),
		questions_answered INTEGER NOT NULL,
		questions_correct INTEGER NOT NULL,
		score REAL NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_error_records_user ON error_records(user_id, module_id)`,
	`CREATE INDEX IF NOT EXISTS idx_vocab_words_user ON vocab_words(user_id, language)`,
	`CREATE INDEX IF NOT EXISTS idx_sentences_user ON sentences(user_id)`,
}

// EnsureSchema creates any missing tables and indexes.
func EnsureSchema(db *sqlx.DB) error {
	pk := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == "postgres" {
		pk = "BIGSERIAL PRIMARY KEY"
	}
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(fmt.Sprintf(stmt, pk)); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}
