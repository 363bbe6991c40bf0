// service/book/bookService_test.go
package booksvc_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"libraryapi/model"
	bookrepo "libraryapi/repository/book"
	booksvc "libraryapi/service/book"
	"libraryapi/service/svcerr"

	"github.com/stretchr/testify/require"
)

type repoMock struct {
	createFn func(ctx context.Context, b *model.Book) error
	listFn   func(ctx context.Context, q model.ListQuery) ([]model.Book, error)
	byIDFn   func(ctx context.Context, id string) (*model.Book, error)
	updateFn func(ctx context.Context, id string, p model.BookPatch, now time.Time) (*model.Book, error)
	deleteFn func(ctx context.Context, id string) (bool, error)
}

var _ booksvc.Repo = (*repoMock)(nil)

func (m *repoMock) Create(ctx context.Context, b *model.Book) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, b)
}
func (m *repoMock) List(ctx context.Context, q model.ListQuery) ([]model.Book, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx, q)
}
func (m *repoMock) ByID(ctx context.Context, id string) (*model.Book, error) {
	if m.byIDFn == nil {
		return nil, nil
	}
	return m.byIDFn(ctx, id)
}
func (m *repoMock) Update(ctx context.Context, id string, p model.BookPatch, now time.Time) (*model.Book, error) {
	if m.updateFn == nil {
		return nil, nil
	}
	return m.updateFn(ctx, id, p, now)
}
func (m *repoMock) Delete(ctx context.Context, id string) (bool, error) {
	if m.deleteFn == nil {
		return false, nil
	}
	return m.deleteFn(ctx, id)
}

type borrowMock struct {
	deleteByBookFn func(ctx context.Context, bookID string) (int64, error)
}

func (m *borrowMock) DeleteByBook(ctx context.Context, bookID string) (int64, error) {
	if m.deleteByBookFn == nil {
		return 0, nil
	}
	return m.deleteByBookFn(ctx, bookID)
}

// txMock runs fn inline and records whether it was used.
type txMock struct{ calls int }

func (t *txMock) Atomic() bool { return true }
func (t *txMock) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

func ptr[T any](v T) *T { return &v }

func validInput() booksvc.CreateInput {
	return booksvc.CreateInput{
		Title:  "The Hobbit",
		Author: "J. R. R. Tolkien",
		Genre:  model.GenreFantasy,
		ISBN:   "9780547928227",
		Copies: 3,
	}
}

func TestCreate_Validation(t *testing.T) {
	s := booksvc.New(&txMock{}, &repoMock{}, &borrowMock{})
	ctx := context.Background()

	cases := map[string]func(in *booksvc.CreateInput){
		"blank title":     func(in *booksvc.CreateInput) { in.Title = "   " },
		"blank author":    func(in *booksvc.CreateInput) { in.Author = "" },
		"bad genre":       func(in *booksvc.CreateInput) { in.Genre = "POETRY" },
		"blank isbn":      func(in *booksvc.CreateInput) { in.ISBN = "" },
		"negative copies": func(in *booksvc.CreateInput) { in.Copies = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := s.Create(ctx, in)
			require.Error(t, err)
			require.Equal(t, svcerr.ErrValidation, svcerr.Code(err))
		})
	}
}

func TestCreate_Success(t *testing.T) {
	var stored *model.Book
	m := &repoMock{
		createFn: func(ctx context.Context, b *model.Book) error {
			stored = b
			return nil
		},
	}
	s := booksvc.New(&txMock{}, m, &borrowMock{})

	in := validInput()
	in.Title = "  The Hobbit  "
	b, err := s.Create(context.Background(), in)
	require.NoError(t, err)
	require.Same(t, stored, b)
	require.NotEmpty(t, b.ID)
	require.Equal(t, "The Hobbit", b.Title)
	require.True(t, b.Available)
	require.False(t, b.CreatedAt.IsZero())
	require.Equal(t, b.CreatedAt, b.UpdatedAt)
}

func TestCreate_ZeroCopiesIsUnavailable(t *testing.T) {
	s := booksvc.New(&txMock{}, &repoMock{}, &borrowMock{})

	in := validInput()
	in.Copies = 0
	in.Available = ptr(true)
	b, err := s.Create(context.Background(), in)
	require.NoError(t, err)
	require.False(t, b.Available)
}

func TestCreate_DuplicateISBN(t *testing.T) {
	m := &repoMock{
		createFn: func(ctx context.Context, b *model.Book) error { return bookrepo.ErrDuplicateISBN },
	}
	s := booksvc.New(&txMock{}, m, &borrowMock{})

	_, err := s.Create(context.Background(), validInput())
	require.Error(t, err)
	require.Equal(t, svcerr.ErrDuplicateISBN, svcerr.Code(err))
	require.ErrorIs(t, err, bookrepo.ErrDuplicateISBN)
}

func TestList_Defaults(t *testing.T) {
	var got model.ListQuery
	m := &repoMock{
		listFn: func(ctx context.Context, q model.ListQuery) ([]model.Book, error) {
			got = q
			return []model.Book{{ID: "a"}}, nil
		},
	}
	s := booksvc.New(&txMock{}, m, &borrowMock{})

	books, err := s.List(context.Background(), model.ListQuery{})
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Equal(t, model.SortCreatedAt, got.SortBy)
	require.Equal(t, model.DefaultListLimit, got.Limit)
}

func TestList_UnknownGenreIsEmpty(t *testing.T) {
	m := &repoMock{
		listFn: func(ctx context.Context, q model.ListQuery) ([]model.Book, error) {
			t.Fatal("repo must not be queried")
			return nil, nil
		},
	}
	s := booksvc.New(&txMock{}, m, &borrowMock{})

	books, err := s.List(context.Background(), model.ListQuery{Genre: "POETRY"})
	require.NoError(t, err)
	require.NotNil(t, books)
	require.Empty(t, books)
}

func TestList_BadSortField(t *testing.T) {
	s := booksvc.New(&txMock{}, &repoMock{}, &borrowMock{})

	_, err := s.List(context.Background(), model.ListQuery{SortBy: "password"})
	require.Equal(t, svcerr.ErrValidation, svcerr.Code(err))
}

func TestGet_Missing(t *testing.T) {
	s := booksvc.New(&txMock{}, &repoMock{}, &borrowMock{})

	b, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, b)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("empty patch", func(t *testing.T) {
		s := booksvc.New(&txMock{}, &repoMock{}, &borrowMock{})
		_, err := s.Update(ctx, "id", model.BookPatch{})
		require.Equal(t, svcerr.ErrValidation, svcerr.Code(err))
	})

	t.Run("blank title", func(t *testing.T) {
		s := booksvc.New(&txMock{}, &repoMock{}, &borrowMock{})
		_, err := s.Update(ctx, "id", model.BookPatch{Title: ptr(" ")})
		require.Equal(t, svcerr.ErrValidation, svcerr.Code(err))
	})

	t.Run("not found", func(t *testing.T) {
		s := booksvc.New(&txMock{}, &repoMock{}, &borrowMock{})
		_, err := s.Update(ctx, "id", model.BookPatch{Copies: ptr(2)})
		require.Equal(t, svcerr.ErrBookNotFound, svcerr.Code(err))
	})

	t.Run("trims and passes through", func(t *testing.T) {
		var got model.BookPatch
		m := &repoMock{
			updateFn: func(ctx context.Context, id string, p model.BookPatch, now time.Time) (*model.Book, error) {
				got = p
				return &model.Book{ID: id, Title: *p.Title}, nil
			},
		}
		s := booksvc.New(&txMock{}, m, &borrowMock{})
		b, err := s.Update(ctx, "id", model.BookPatch{Title: ptr("  Dune ")})
		require.NoError(t, err)
		require.Equal(t, "Dune", b.Title)
		require.Equal(t, "Dune", *got.Title)
	})

	t.Run("duplicate isbn", func(t *testing.T) {
		m := &repoMock{
			updateFn: func(ctx context.Context, id string, p model.BookPatch, now time.Time) (*model.Book, error) {
				return nil, bookrepo.ErrDuplicateISBN
			},
		}
		s := booksvc.New(&txMock{}, m, &borrowMock{})
		_, err := s.Update(ctx, "id", model.BookPatch{ISBN: ptr("x")})
		require.Equal(t, svcerr.ErrDuplicateISBN, svcerr.Code(err))
	})
}

func TestDelete_CascadesInOneTx(t *testing.T) {
	tx := &txMock{}
	m := &repoMock{deleteFn: func(ctx context.Context, id string) (bool, error) { return true, nil }}
	br := &borrowMock{deleteByBookFn: func(ctx context.Context, bookID string) (int64, error) {
		require.Equal(t, "b1", bookID)
		return 2, nil
	}}
	s := booksvc.New(tx, m, br)

	out, err := s.Delete(context.Background(), "b1")
	require.NoError(t, err)
	require.Equal(t, booksvc.Deleted{Book: true, Borrows: 2}, out)
	require.Equal(t, 1, tx.calls)
}

func TestDelete_BorrowFailureFails(t *testing.T) {
	boom := errors.New("boom")
	m := &repoMock{deleteFn: func(ctx context.Context, id string) (bool, error) { return true, nil }}
	br := &borrowMock{deleteByBookFn: func(ctx context.Context, bookID string) (int64, error) { return 0, boom }}
	s := booksvc.New(&txMock{}, m, br)

	_, err := s.Delete(context.Background(), "b1")
	require.ErrorIs(t, err, boom)
}
