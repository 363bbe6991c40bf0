package inventory

import (
	"context"
	"fmt"

	"libraryapi/model"
	"libraryapi/service/svcerr"
)

const msgNotEnoughCopies = "Not enough copies available"

type Repo interface {
	ByID(ctx context.Context, id string) (*model.Book, error)
	DecrementCopies(ctx context.Context, id string, qty int) (*model.Book, error)
	IncrementCopies(ctx context.Context, id string, qty int, available bool) error
}

type Service interface {
	// Deduct takes qty copies off the shelf in one conditional update and
	// returns the book as stored afterwards. A book left with no copies is
	// marked unavailable. Short stock fails without touching the book.
	Deduct(ctx context.Context, bookID string, qty int) (*model.Book, error)

	// Restore puts qty copies back and resets availability; it undoes a
	// Deduct whose surrounding work could not be rolled back.
	Restore(ctx context.Context, bookID string, qty int, available bool) error
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Deduct(ctx context.Context, bookID string, qty int) (*model.Book, error) {
	if qty <= 0 {
		return nil, svcerr.New(svcerr.ErrValidation, "quantity must be a positive integer")
	}

	b, err := s.r.DecrementCopies(ctx, bookID, qty)
	if err != nil {
		return nil, err
	}
	if b != nil {
		return b, nil
	}

	// Nothing matched: either the book is gone or the stock is short.
	cur, err := s.r.ByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, svcerr.New(svcerr.ErrBookNotFound, "Book not found")
	}
	return nil, svcerr.New(svcerr.ErrInsufficientInventory, msgNotEnoughCopies)
}

func (s *service) Restore(ctx context.Context, bookID string, qty int, available bool) error {
	if qty <= 0 {
		return nil
	}
	if err := s.r.IncrementCopies(ctx, bookID, qty, available); err != nil {
		return fmt.Errorf("restore %d copies of %s: %w", qty, bookID, err)
	}
	return nil
}
