package book

import "errors"

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// Book represents a catalog entry. Author here is the display name printed
// on the cover, distinct from the owning account referenced by AuthorID.
// CoverImage holds the stored filename; CoverURL is derived per request
// from the serving host and is never persisted.
type Book struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	Genre      *string `json:"genre"`
	Rating     *int    `json:"rating"`
	AuthorID   int64   `json:"author_id"`
	CoverImage *string `json:"cover_image"`
	CoverURL   *string `json:"coverImage"`
}

// CreateInput carries the fields accepted when creating a book.
type CreateInput struct {
	Title    string `validate:"required"`
	Author   string `validate:"required"`
	Genre    string
	Rating   *int  `validate:"omitempty,gte=1,lte=5"`
	AuthorID int64 `validate:"required"`
}

// UpdateInput carries the fields accepted when updating a book. Title and
// author must be resupplied even on partial update; an absent cover leaves
// the stored one unchanged.
type UpdateInput struct {
	Title  string `validate:"required"`
	Author string `validate:"required"`
	Genre  string
	Rating *int `validate:"omitempty,gte=1,lte=5"`
}
