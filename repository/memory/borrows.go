package memory

import (
	"context"
	"fmt"
	"sort"

	"libraryapi/model"
	borrowrepo "libraryapi/repository/borrow"
)

type Borrows struct{ s *Store }

func (s *Store) Borrows() *Borrows { return &Borrows{s: s} }

var _ borrowrepo.Repo = (*Borrows)(nil)

func (r *Borrows) Create(ctx context.Context, b *model.Borrow) error {
	defer r.s.lock(ctx)()
	for _, x := range r.s.st.borrows {
		if x.ID == b.ID {
			return fmt.Errorf("borrow %s already exists", b.ID)
		}
	}
	r.s.st.borrows = append(r.s.st.borrows, *b)
	return nil
}

func (r *Borrows) deleteWhere(keep func(model.Borrow) bool) int64 {
	kept := r.s.st.borrows[:0]
	var n int64
	for _, b := range r.s.st.borrows {
		if keep(b) {
			kept = append(kept, b)
		} else {
			n++
		}
	}
	r.s.st.borrows = kept
	return n
}

func (r *Borrows) DeleteByBook(ctx context.Context, bookID string) (int64, error) {
	defer r.s.lock(ctx)()
	return r.deleteWhere(func(b model.Borrow) bool { return b.BookID != bookID }), nil
}

func (r *Borrows) Summary(ctx context.Context) ([]model.BorrowSummary, error) {
	defer r.s.lock(ctx)()
	totals := map[string]int{}
	var order []string
	for _, b := range r.s.st.borrows {
		if _, seen := totals[b.BookID]; !seen {
			order = append(order, b.BookID)
		}
		totals[b.BookID] += b.Quantity
	}

	out := []model.BorrowSummary{}
	for _, id := range order {
		book, ok := r.s.st.books[id]
		if !ok {
			continue
		}
		out = append(out, model.BorrowSummary{
			Book:          model.BorrowedBook{Title: book.Title, ISBN: book.ISBN},
			TotalQuantity: totals[id],
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalQuantity > out[j].TotalQuantity })
	return out, nil
}

func (r *Borrows) DeleteOrphans(ctx context.Context) (int64, error) {
	defer r.s.lock(ctx)()
	return r.deleteWhere(func(b model.Borrow) bool {
		_, ok := r.s.st.books[b.BookID]
		return ok
	}), nil
}
