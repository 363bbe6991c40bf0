package bookrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"libraryapi/model"
	"libraryapi/util/database"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrDuplicateISBN = errors.New("isbn already exists")

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	List(ctx context.Context, q model.ListQuery) ([]model.Book, error)
	// ByID returns nil, nil when the book does not exist.
	ByID(ctx context.Context, id string) (*model.Book, error)
	// Update returns nil, nil when the book does not exist.
	Update(ctx context.Context, id string, p model.BookPatch, now time.Time) (*model.Book, error)
	Delete(ctx context.Context, id string) (bool, error)
	// DecrementCopies removes qty copies only if at least qty are on the shelf.
	// It returns nil, nil when nothing matched (missing book or short stock).
	DecrementCopies(ctx context.Context, id string, qty int) (*model.Book, error)
	IncrementCopies(ctx context.Context, id string, qty int, available bool) error
}

const (
	dialect    = "postgres"
	tableBooks = "books"
)

var bookCols = []interface{}{"id", "title", "author", "genre", "isbn", "description", "copies", "available", "created_at", "updated_at"}

// JSON sort keys to columns.
var sortColumns = map[string]string{
	model.SortCreatedAt: "created_at",
	model.SortUpdatedAt: "updated_at",
	model.SortTitle:     "title",
	model.SortAuthor:    "author",
	model.SortGenre:     "genre",
	model.SortISBN:      "isbn",
	model.SortCopies:    "copies",
	model.SortAvailable: "available",
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db: db} }

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	var genre string
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &genre, &b.ISBN, &b.Description,
		&b.Copies, &b.Available, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Genre = model.Genre(genre)
	return &b, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (r *repo) Create(ctx context.Context, b *model.Book) error {
	const q = `
INSERT INTO books (id, title, author, genre, isbn, description, copies, available, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err := r.db.Q(ctx).Exec(ctx, q, b.ID, b.Title, b.Author, string(b.Genre), b.ISBN,
		b.Description, b.Copies, b.Available, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateISBN
		}
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func buildListQuery(q model.ListQuery) (string, []interface{}, error) {
	col, ok := sortColumns[q.SortBy]
	if !ok {
		return "", nil, fmt.Errorf("unsupported sort field %q", q.SortBy)
	}
	order := goqu.C(col).Asc()
	if q.Desc {
		order = goqu.C(col).Desc()
	}

	ds := goqu.Dialect(dialect).From(tableBooks).Prepared(true).Select(bookCols...)
	if q.Genre != "" {
		ds = ds.Where(goqu.C("genre").Eq(string(q.Genre)))
	}
	ds = ds.Order(order, goqu.C("id").Asc())
	if q.Limit > 0 {
		ds = ds.Limit(uint(q.Limit))
	}
	return ds.ToSQL()
}

func (r *repo) List(ctx context.Context, q model.ListQuery) ([]model.Book, error) {
	query, args, err := buildListQuery(q)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	out := []model.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *repo) ByID(ctx context.Context, id string) (*model.Book, error) {
	const q = `
SELECT id, title, author, genre, isbn, description, copies, available, created_at, updated_at
FROM books
WHERE id = $1`
	b, err := scanBook(r.db.Q(ctx).QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func buildUpdateQuery(id string, p model.BookPatch, now time.Time) (string, []interface{}, error) {
	rec := goqu.Record{"updated_at": now}
	var copies, available interface{} = goqu.C("copies"), goqu.C("available")
	if p.Title != nil {
		rec["title"] = *p.Title
	}
	if p.Author != nil {
		rec["author"] = *p.Author
	}
	if p.Genre != nil {
		rec["genre"] = string(*p.Genre)
	}
	if p.ISBN != nil {
		rec["isbn"] = *p.ISBN
	}
	if p.Description != nil {
		rec["description"] = *p.Description
	}
	if p.Copies != nil {
		rec["copies"] = *p.Copies
		copies = *p.Copies
	}
	if p.Available != nil {
		available = *p.Available
	}
	// SET expressions see the old row, so the new copy count is passed in directly.
	rec["available"] = goqu.L("CASE WHEN ? = 0 THEN FALSE ELSE ? END", copies, available)

	return goqu.Dialect(dialect).Update(tableBooks).Prepared(true).
		Set(rec).
		Where(goqu.C("id").Eq(id)).
		Returning(bookCols...).
		ToSQL()
}

func (r *repo) Update(ctx context.Context, id string, p model.BookPatch, now time.Time) (*model.Book, error) {
	query, args, err := buildUpdateQuery(id, p, now)
	if err != nil {
		return nil, err
	}
	b, err := scanBook(r.db.Q(ctx).QueryRow(ctx, query, args...))
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, nil
	case isUniqueViolation(err):
		return nil, ErrDuplicateISBN
	case err != nil:
		return nil, fmt.Errorf("update book: %w", err)
	}
	return b, nil
}

func (r *repo) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Q(ctx).Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete book: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repo) DecrementCopies(ctx context.Context, id string, qty int) (*model.Book, error) {
	// Guard: only deduct if sufficient.
	const q = `
UPDATE books
SET copies = copies - $2,
	available = CASE WHEN copies - $2 = 0 THEN FALSE ELSE available END,
	updated_at = NOW()
WHERE id = $1
AND copies >= $2
RETURNING id, title, author, genre, isbn, description, copies, available, created_at, updated_at`
	b, err := scanBook(r.db.Q(ctx).QueryRow(ctx, q, id, qty))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("decrement copies: %w", err)
	}
	return b, nil
}

func (r *repo) IncrementCopies(ctx context.Context, id string, qty int, available bool) error {
	const q = `
UPDATE books
SET copies = copies + $2,
	available = $3,
	updated_at = NOW()
WHERE id = $1`
	if _, err := r.db.Q(ctx).Exec(ctx, q, id, qty, available); err != nil {
		return fmt.Errorf("increment copies: %w", err)
	}
	return nil
}
