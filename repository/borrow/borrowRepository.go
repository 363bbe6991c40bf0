// repository/borrow/repo.go
package borrowrepo

import (
	"context"
	"fmt"

	"libraryapi/model"
	"libraryapi/util/database"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
)

type Repo interface {
	Create(ctx context.Context, b *model.Borrow) error
	DeleteByBook(ctx context.Context, bookID string) (int64, error)
	// Summary sums borrowed quantity per existing book, largest first.
	Summary(ctx context.Context) ([]model.BorrowSummary, error)
	// DeleteOrphans removes borrows whose book no longer exists.
	DeleteOrphans(ctx context.Context) (int64, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, b *model.Borrow) error {
	const q = `
INSERT INTO borrows (id, book_id, quantity, due_date, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.db.Q(ctx).Exec(ctx, q, b.ID, b.BookID, b.Quantity, b.DueDate, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert borrow: %w", err)
	}
	return nil
}

func (r *repo) DeleteByBook(ctx context.Context, bookID string) (int64, error) {
	tag, err := r.db.Q(ctx).Exec(ctx, `DELETE FROM borrows WHERE book_id = $1`, bookID)
	if err != nil {
		return 0, fmt.Errorf("delete borrows: %w", err)
	}
	return tag.RowsAffected(), nil
}

func buildSummaryQuery() (string, []interface{}, error) {
	return goqu.Dialect("postgres").
		From(goqu.T("borrows").As("br")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("br.book_id")))).
		Select(
			goqu.I("b.title"),
			goqu.I("b.isbn"),
			goqu.SUM(goqu.I("br.quantity")).As("total_quantity"),
		).
		GroupBy(goqu.I("b.id"), goqu.I("b.title"), goqu.I("b.isbn")).
		Order(goqu.I("total_quantity").Desc()).
		ToSQL()
}

func (r *repo) Summary(ctx context.Context) ([]model.BorrowSummary, error) {
	query, args, err := buildSummaryQuery()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("borrow summary: %w", err)
	}
	defer rows.Close()

	out := []model.BorrowSummary{}
	for rows.Next() {
		var s model.BorrowSummary
		var total int64
		if err := rows.Scan(&s.Book.Title, &s.Book.ISBN, &total); err != nil {
			return nil, err
		}
		s.TotalQuantity = int(total)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repo) DeleteOrphans(ctx context.Context) (int64, error) {
	const q = `
DELETE FROM borrows br
WHERE NOT EXISTS (SELECT 1 FROM books b WHERE b.id = br.book_id)`
	tag, err := r.db.Q(ctx).Exec(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("delete orphan borrows: %w", err)
	}
	return tag.RowsAffected(), nil
}
