package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"libraryapi/model"
	bookrepo "libraryapi/repository/book"
)

type Books struct{ s *Store }

func (s *Store) Books() *Books { return &Books{s: s} }

var _ bookrepo.Repo = (*Books)(nil)

func (r *Books) isbnTaken(isbn, exceptID string) bool {
	for id, b := range r.s.st.books {
		if id != exceptID && b.ISBN == isbn {
			return true
		}
	}
	return false
}

func (r *Books) Create(ctx context.Context, b *model.Book) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.st.books[b.ID]; ok {
		return fmt.Errorf("book %s already exists", b.ID)
	}
	if r.isbnTaken(b.ISBN, "") {
		return bookrepo.ErrDuplicateISBN
	}
	r.s.st.books[b.ID] = *b
	return nil
}

// compare orders two books by a sort field; 0 means equal.
func compare(a, b model.Book, field string) (int, error) {
	cmpBool := func(x, y bool) int {
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	}
	switch field {
	case model.SortCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt), nil
	case model.SortUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt), nil
	case model.SortTitle:
		return strings.Compare(a.Title, b.Title), nil
	case model.SortAuthor:
		return strings.Compare(a.Author, b.Author), nil
	case model.SortGenre:
		return strings.Compare(string(a.Genre), string(b.Genre)), nil
	case model.SortISBN:
		return strings.Compare(a.ISBN, b.ISBN), nil
	case model.SortCopies:
		return a.Copies - b.Copies, nil
	case model.SortAvailable:
		return cmpBool(a.Available, b.Available), nil
	}
	return 0, fmt.Errorf("unsupported sort field %q", field)
}

func (r *Books) List(ctx context.Context, q model.ListQuery) ([]model.Book, error) {
	if !model.ValidSortField(q.SortBy) {
		return nil, fmt.Errorf("unsupported sort field %q", q.SortBy)
	}

	unlock := r.s.lock(ctx)
	out := []model.Book{}
	for _, b := range r.s.st.books {
		if q.Genre == "" || b.Genre == q.Genre {
			out = append(out, b)
		}
	}
	unlock()

	sort.Slice(out, func(i, j int) bool {
		c, _ := compare(out[i], out[j], q.SortBy)
		if c == 0 {
			return out[i].ID < out[j].ID
		}
		if q.Desc {
			return c > 0
		}
		return c < 0
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *Books) ByID(ctx context.Context, id string) (*model.Book, error) {
	defer r.s.lock(ctx)()
	b, ok := r.s.st.books[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *Books) Update(ctx context.Context, id string, p model.BookPatch, now time.Time) (*model.Book, error) {
	defer r.s.lock(ctx)()
	b, ok := r.s.st.books[id]
	if !ok {
		return nil, nil
	}
	if p.ISBN != nil && r.isbnTaken(*p.ISBN, id) {
		return nil, bookrepo.ErrDuplicateISBN
	}
	p.Apply(&b)
	b.UpdatedAt = now
	r.s.st.books[id] = b
	return &b, nil
}

func (r *Books) Delete(ctx context.Context, id string) (bool, error) {
	defer r.s.lock(ctx)()
	if _, ok := r.s.st.books[id]; !ok {
		return false, nil
	}
	delete(r.s.st.books, id)
	return true, nil
}

func (r *Books) DecrementCopies(ctx context.Context, id string, qty int) (*model.Book, error) {
	defer r.s.lock(ctx)()
	b, ok := r.s.st.books[id]
	if !ok || b.Copies < qty {
		return nil, nil
	}
	b.Copies -= qty
	if b.Copies == 0 {
		b.Available = false
	}
	b.UpdatedAt = time.Now().UTC()
	r.s.st.books[id] = b
	return &b, nil
}

func (r *Books) IncrementCopies(ctx context.Context, id string, qty int, available bool) error {
	defer r.s.lock(ctx)()
	b, ok := r.s.st.books[id]
	if !ok {
		return nil
	}
	b.Copies += qty
	b.Available = available
	b.UpdatedAt = time.Now().UTC()
	r.s.st.books[id] = b
	return nil
}
