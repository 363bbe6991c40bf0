package bookrepo

import (
	"context"
	"os"
	"testing"
	"time"

	"libraryapi/model"
	"libraryapi/util/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestBuildListQuery(t *testing.T) {
	sql, args, err := buildListQuery(model.ListQuery{
		Genre: model.GenreFantasy, SortBy: model.SortCopies, Desc: true, Limit: 5,
	})
	require.NoError(t, err)
	require.Contains(t, sql, `FROM "books"`)
	require.Contains(t, sql, `WHERE ("genre" = $1)`)
	require.Contains(t, sql, `ORDER BY "copies" DESC, "id" ASC`)
	require.Contains(t, sql, `LIMIT $2`)
	require.Len(t, args, 2)
	require.Equal(t, "FANTASY", args[0])

	sql, args, err = buildListQuery(model.ListQuery{SortBy: model.SortCreatedAt})
	require.NoError(t, err)
	require.NotContains(t, sql, "WHERE")
	require.NotContains(t, sql, "LIMIT")
	require.Contains(t, sql, `ORDER BY "created_at" ASC, "id" ASC`)
	require.Empty(t, args)

	_, _, err = buildListQuery(model.ListQuery{SortBy: "title; DROP TABLE books"})
	require.Error(t, err)
}

func TestBuildUpdateQuery(t *testing.T) {
	title, copies := "Dune", 0
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	sql, args, err := buildUpdateQuery("b1", model.BookPatch{Title: &title, Copies: &copies}, now)
	require.NoError(t, err)
	require.Contains(t, sql, `UPDATE "books" SET`)
	require.Contains(t, sql, `"title"=`)
	require.Contains(t, sql, `"copies"=`)
	require.Contains(t, sql, `CASE WHEN`)
	require.Contains(t, sql, `RETURNING "id"`)
	require.Contains(t, args, "Dune")
	require.Contains(t, args, "b1")

	sql, _, err = buildUpdateQuery("b1", model.BookPatch{Title: &title}, now)
	require.NoError(t, err)
	require.Contains(t, sql, `CASE WHEN "copies" = 0 THEN FALSE ELSE "available" END`)
}

// The tests below need a scratch database: TEST_DATABASE_URL=postgres://...

func testDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := database.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))
	return db
}

func newBook(copies int) *model.Book {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.Book{
		ID: uuid.NewString(), Title: "Pg Book", Author: "Tester", Genre: model.GenreHistory,
		ISBN: uuid.NewString(), Copies: copies, Available: copies > 0, CreatedAt: now, UpdatedAt: now,
	}
}

func TestPostgresBooks(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	r := New(db)

	b := newBook(2)
	require.NoError(t, r.Create(ctx, b))
	t.Cleanup(func() { _, _ = r.Delete(context.Background(), b.ID) })

	dup := newBook(1)
	dup.ISBN = b.ISBN
	require.ErrorIs(t, r.Create(ctx, dup), ErrDuplicateISBN)

	got, err := r.ByID(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, b.ISBN, got.ISBN)
	require.Equal(t, model.GenreHistory, got.Genre)

	missing, err := r.ByID(ctx, uuid.NewString())
	require.NoError(t, err)
	require.Nil(t, missing)

	short, err := r.DecrementCopies(ctx, b.ID, 3)
	require.NoError(t, err)
	require.Nil(t, short)

	dec, err := r.DecrementCopies(ctx, b.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 0, dec.Copies)
	require.False(t, dec.Available)

	require.NoError(t, r.IncrementCopies(ctx, b.ID, 2, true))
	zero, yes := 0, true
	upd, err := r.Update(ctx, b.ID, model.BookPatch{Copies: &zero, Available: &yes}, time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, 0, upd.Copies)
	require.False(t, upd.Available)

	ok, err := r.Delete(ctx, b.ID)
	require.NoError(t, err)
	require.True(t, ok)
}
