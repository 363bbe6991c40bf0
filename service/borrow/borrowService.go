package borrowsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"libraryapi/model"
	"libraryapi/service/inventory"
	"libraryapi/service/svcerr"
	"libraryapi/util/database"

	"github.com/google/uuid"
)

type BookFinder interface {
	ByID(ctx context.Context, id string) (*model.Book, error)
}

type Repo interface {
	Create(ctx context.Context, b *model.Borrow) error
	Summary(ctx context.Context) ([]model.BorrowSummary, error)
	DeleteOrphans(ctx context.Context) (int64, error)
}

type Input struct {
	BookID   string
	Quantity int
	DueDate  time.Time
}

type Service interface {
	// Borrow looks the book up, deducts the copies and records the borrow
	// as one unit: either all of it is stored or none of it is.
	Borrow(ctx context.Context, in Input) (*model.Borrow, error)

	// Summary lists total borrowed quantity per book, largest first.
	Summary(ctx context.Context) ([]model.BorrowSummary, error)
}

type service struct {
	tx    database.TxManager
	books BookFinder
	inv   inventory.Service
	r     Repo
}

func New(tx database.TxManager, books BookFinder, inv inventory.Service, r Repo) Service {
	return &service{tx: tx, books: books, inv: inv, r: r}
}

func (s *service) Borrow(ctx context.Context, in Input) (*model.Borrow, error) {
	in.BookID = strings.TrimSpace(in.BookID)
	switch {
	case in.BookID == "":
		return nil, svcerr.New(svcerr.ErrValidation, "book is required")
	case in.Quantity <= 0:
		return nil, svcerr.New(svcerr.ErrValidation, "quantity must be a positive integer")
	case in.DueDate.IsZero():
		return nil, svcerr.New(svcerr.ErrValidation, "dueDate is required")
	}

	var out *model.Borrow
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		book, err := s.books.ByID(ctx, in.BookID)
		if err != nil {
			return err
		}
		if book == nil {
			return svcerr.New(svcerr.ErrBookNotFound, "Book not found")
		}
		wasAvailable := book.Available

		if _, err := s.inv.Deduct(ctx, book.ID, in.Quantity); err != nil {
			return err
		}

		now := time.Now().UTC()
		b := &model.Borrow{
			ID:        uuid.NewString(),
			BookID:    book.ID,
			Quantity:  in.Quantity,
			DueDate:   in.DueDate.UTC(),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.r.Create(ctx, b); err != nil {
			if s.tx.Atomic() {
				return err
			}
			// no rollback available: give the copies back by hand
			if rerr := s.inv.Restore(ctx, book.ID, in.Quantity, wasAvailable); rerr != nil {
				return errors.Join(err, rerr)
			}
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		if svcerr.Code(err) != "" {
			return nil, err
		}
		return nil, fmt.Errorf("borrow book %s: %w", in.BookID, err)
	}
	return out, nil
}

func (s *service) Summary(ctx context.Context) ([]model.BorrowSummary, error) {
	return s.r.Summary(ctx)
}
