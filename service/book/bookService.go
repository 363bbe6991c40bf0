package booksvc

import (
	"context"
	"errors"
	"strings"
	"time"

	"libraryapi/model"
	repo "libraryapi/repository/book"
	"libraryapi/service/svcerr"
	"libraryapi/util/database"

	"github.com/google/uuid"
)

type Book = model.Book

type Repo interface {
	Create(ctx context.Context, b *Book) error
	List(ctx context.Context, q model.ListQuery) ([]Book, error)
	ByID(ctx context.Context, id string) (*Book, error)
	Update(ctx context.Context, id string, p model.BookPatch, now time.Time) (*Book, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type BorrowRepo interface {
	DeleteByBook(ctx context.Context, bookID string) (int64, error)
}

type CreateInput struct {
	Title       string
	Author      string
	Genre       model.Genre
	ISBN        string
	Description string
	Copies      int
	Available   *bool // defaults to true
}

// Deleted reports what a Delete removed.
type Deleted struct {
	Book    bool
	Borrows int64
}

type Service interface {
	Create(ctx context.Context, in CreateInput) (*Book, error)
	List(ctx context.Context, q model.ListQuery) ([]Book, error)
	// Get returns nil, nil when the book does not exist.
	Get(ctx context.Context, id string) (*Book, error)
	Update(ctx context.Context, id string, p model.BookPatch) (*Book, error)
	// Delete removes the book and every borrow that references it.
	Delete(ctx context.Context, id string) (Deleted, error)
}

type service struct {
	tx database.TxManager
	r  Repo
	br BorrowRepo
}

func New(tx database.TxManager, r Repo, br BorrowRepo) Service {
	return &service{tx: tx, r: r, br: br}
}

func invalid(msg string) error { return svcerr.New(svcerr.ErrValidation, msg) }

func mapRepoErr(err error) error {
	if errors.Is(err, repo.ErrDuplicateISBN) {
		return svcerr.Wrap(svcerr.ErrDuplicateISBN, "A book with this ISBN already exists", err)
	}
	return err
}

func (s *service) Create(ctx context.Context, in CreateInput) (*Book, error) {
	b := &Book{
		Title:       strings.TrimSpace(in.Title),
		Author:      strings.TrimSpace(in.Author),
		Genre:       in.Genre,
		ISBN:        strings.TrimSpace(in.ISBN),
		Description: in.Description,
		Copies:      in.Copies,
		Available:   true,
	}
	switch {
	case b.Title == "":
		return nil, invalid("Title is required")
	case b.Author == "":
		return nil, invalid("Author is required")
	case !b.Genre.Valid():
		return nil, invalid("Invalid genre")
	case b.ISBN == "":
		return nil, invalid("ISBN is required")
	case b.Copies < 0:
		return nil, invalid("Copies must be 0 or greater")
	}
	if in.Available != nil {
		b.Available = *in.Available
	}
	if b.Copies == 0 {
		b.Available = false
	}

	now := time.Now().UTC()
	b.ID = uuid.NewString()
	b.CreatedAt, b.UpdatedAt = now, now

	if err := s.r.Create(ctx, b); err != nil {
		return nil, mapRepoErr(err)
	}
	return b, nil
}

func (s *service) List(ctx context.Context, q model.ListQuery) ([]Book, error) {
	if q.SortBy == "" {
		q.SortBy = model.SortCreatedAt
	}
	if !model.ValidSortField(q.SortBy) {
		return nil, svcerr.Newf(svcerr.ErrValidation, "Cannot sort by %q", q.SortBy)
	}
	if q.Limit <= 0 {
		q.Limit = model.DefaultListLimit
	}
	if q.Genre != "" && !q.Genre.Valid() {
		return []Book{}, nil
	}
	return s.r.List(ctx, q)
}

func (s *service) Get(ctx context.Context, id string) (*Book, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	return s.r.ByID(ctx, id)
}

func normalizePatch(p model.BookPatch) (model.BookPatch, error) {
	trim := func(v *string, field string) (*string, error) {
		if v == nil {
			return nil, nil
		}
		t := strings.TrimSpace(*v)
		if t == "" {
			return nil, invalid(field + " is required")
		}
		return &t, nil
	}
	var err error
	if p.Title, err = trim(p.Title, "Title"); err != nil {
		return p, err
	}
	if p.Author, err = trim(p.Author, "Author"); err != nil {
		return p, err
	}
	if p.ISBN, err = trim(p.ISBN, "ISBN"); err != nil {
		return p, err
	}
	if p.Genre != nil && !p.Genre.Valid() {
		return p, invalid("Invalid genre")
	}
	if p.Copies != nil && *p.Copies < 0 {
		return p, invalid("Copies must be 0 or greater")
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, id string, p model.BookPatch) (*Book, error) {
	if p.Empty() {
		return nil, invalid("No update fields provided")
	}
	p, err := normalizePatch(p)
	if err != nil {
		return nil, err
	}
	b, err := s.r.Update(ctx, id, p, time.Now().UTC())
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if b == nil {
		return nil, svcerr.New(svcerr.ErrBookNotFound, "Book not found")
	}
	return b, nil
}

func (s *service) Delete(ctx context.Context, id string) (Deleted, error) {
	var out Deleted
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		found, err := s.r.Delete(ctx, id)
		if err != nil {
			return err
		}
		n, err := s.br.DeleteByBook(ctx, id)
		if err != nil {
			return err
		}
		out = Deleted{Book: found, Borrows: n}
		return nil
	})
	if err != nil {
		return Deleted{}, err
	}
	return out, nil
}
