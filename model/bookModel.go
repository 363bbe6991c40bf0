// model/book.go
package model

import (
	"strings"
	"time"
)

type Genre string

const (
	GenreFiction    Genre = "FICTION"
	GenreNonFiction Genre = "NON_FICTION"
	GenreScience    Genre = "SCIENCE"
	GenreHistory    Genre = "HISTORY"
	GenreBiography  Genre = "BIOGRAPHY"
	GenreFantasy    Genre = "FANTASY"
)

var Genres = []Genre{GenreFiction, GenreNonFiction, GenreScience, GenreHistory, GenreBiography, GenreFantasy}

func (g Genre) Valid() bool {
	for _, k := range Genres {
		if g == k {
			return true
		}
	}
	return false
}

// ParseGenre normalizes user input ("fantasy", " Fantasy ") to the stored enum value.
func ParseGenre(s string) Genre {
	return Genre(strings.ToUpper(strings.TrimSpace(s)))
}

type Book struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Author      string    `json:"author" bson:"author"`
	Genre       Genre     `json:"genre" bson:"genre"`
	ISBN        string    `json:"isbn" bson:"isbn"`
	Description string    `json:"description" bson:"description"`
	Copies      int       `json:"copies" bson:"copies"`
	Available   bool      `json:"available" bson:"available"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// BookPatch carries the fields of a partial update; nil means "leave as is".
type BookPatch struct {
	Title       *string
	Author      *string
	Genre       *Genre
	ISBN        *string
	Description *string
	Copies      *int
	Available   *bool
}

func (p BookPatch) Empty() bool {
	return p.Title == nil && p.Author == nil && p.Genre == nil && p.ISBN == nil &&
		p.Description == nil && p.Copies == nil && p.Available == nil
}

// Apply writes the patch onto b. A book left with zero copies is never available.
func (p BookPatch) Apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Genre != nil {
		b.Genre = *p.Genre
	}
	if p.ISBN != nil {
		b.ISBN = *p.ISBN
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Copies != nil {
		b.Copies = *p.Copies
	}
	if p.Available != nil {
		b.Available = *p.Available
	}
	if b.Copies == 0 {
		b.Available = false
	}
}

// Sortable book fields, keyed by their JSON name.
const (
	SortCreatedAt = "createdAt"
	SortUpdatedAt = "updatedAt"
	SortTitle     = "title"
	SortAuthor    = "author"
	SortGenre     = "genre"
	SortISBN      = "isbn"
	SortCopies    = "copies"
	SortAvailable = "available"
)

var SortFields = []string{SortCreatedAt, SortUpdatedAt, SortTitle, SortAuthor, SortGenre, SortISBN, SortCopies, SortAvailable}

func ValidSortField(f string) bool {
	for _, k := range SortFields {
		if f == k {
			return true
		}
	}
	return false
}

const DefaultListLimit = 10

type ListQuery struct {
	Genre  Genre // empty = no filter
	SortBy string
	Desc   bool
	Limit  int
}
