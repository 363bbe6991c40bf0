// Package memory keeps books and borrows in process memory. Transactions are
// serialized on one mutex and undone from a snapshot on error, which makes it
// suitable for local runs and tests but not for more than one process.
package memory

import (
	"context"
	"sync"

	"libraryapi/model"
)

type state struct {
	books   map[string]model.Book
	borrows []model.Borrow // insertion order
}

func (s state) clone() state {
	c := state{
		books:   make(map[string]model.Book, len(s.books)),
		borrows: make([]model.Borrow, len(s.borrows)),
	}
	for k, v := range s.books {
		c.books[k] = v
	}
	copy(c.borrows, s.borrows)
	return c
}

type Store struct {
	mu sync.Mutex
	st state
}

func New() *Store {
	return &Store{st: state{books: map[string]model.Book{}}}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lock takes the store mutex unless ctx already belongs to a running transaction.
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Atomic() bool { return true }

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	defer func() {
		if p := recover(); p != nil {
			s.st = snapshot
			panic(p)
		}
		if err != nil {
			s.st = snapshot
		}
	}()
	return fn(context.WithValue(ctx, txKey{}, s))
}
