package database

import (
	"context"
	"fmt"
)

// Borrows reference books by id without a foreign key; the cascade on book
// deletion is done by the service inside the same transaction.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS books (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL CHECK (title <> ''),
		author      TEXT NOT NULL CHECK (author <> ''),
		genre       TEXT NOT NULL CHECK (genre IN ('FICTION','NON_FICTION','SCIENCE','HISTORY','BIOGRAPHY','FANTASY')),
		isbn        TEXT NOT NULL CONSTRAINT books_isbn_key UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		copies      INTEGER NOT NULL CHECK (copies >= 0),
		available   BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS borrows (
		id         TEXT PRIMARY KEY,
		book_id    TEXT NOT NULL,
		quantity   INTEGER NOT NULL CHECK (quantity > 0),
		due_date   TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS borrows_book_id_idx ON borrows (book_id)`,
}

func (d *DB) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := d.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
