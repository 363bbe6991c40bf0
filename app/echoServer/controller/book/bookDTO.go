package book

import (
	"libraryapi/model"
	booksvc "libraryapi/service/book"
)

// CreateBookReq is the POST /api/books payload.
// swagger:model CreateBookReq
type CreateBookReq struct {
	Title       string `json:"title" validate:"required,notblank"`
	Author      string `json:"author" validate:"required,notblank"`
	Genre       string `json:"genre" validate:"required,genre"`
	ISBN        string `json:"isbn" validate:"required,notblank"`
	Description string `json:"description"`
	Copies      *int   `json:"copies" validate:"required,gte=0,lte=2147483647"`
	Available   *bool  `json:"available"`
}

func (r CreateBookReq) input() booksvc.CreateInput {
	in := booksvc.CreateInput{
		Title:       r.Title,
		Author:      r.Author,
		Genre:       model.Genre(r.Genre),
		ISBN:        r.ISBN,
		Description: r.Description,
		Available:   r.Available,
	}
	if r.Copies != nil {
		in.Copies = *r.Copies
	}
	return in
}

// UpdateBookReq is the PUT /api/books/:bookId payload; absent fields are kept.
// swagger:model UpdateBookReq
type UpdateBookReq struct {
	Title       *string `json:"title" validate:"omitnil,notblank"`
	Author      *string `json:"author" validate:"omitnil,notblank"`
	Genre       *string `json:"genre" validate:"omitnil,genre"`
	ISBN        *string `json:"isbn" validate:"omitnil,notblank"`
	Description *string `json:"description"`
	Copies      *int    `json:"copies" validate:"omitnil,gte=0,lte=2147483647"`
	Available   *bool   `json:"available"`
}

func (r UpdateBookReq) patch() model.BookPatch {
	p := model.BookPatch{
		Title:       r.Title,
		Author:      r.Author,
		ISBN:        r.ISBN,
		Description: r.Description,
		Copies:      r.Copies,
		Available:   r.Available,
	}
	if r.Genre != nil {
		g := model.Genre(*r.Genre)
		p.Genre = &g
	}
	return p
}
