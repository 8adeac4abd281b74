package book

import (
	"context"

	"librosapi/internal/cover"
)

// Repository defines the contract for book storage.
type Repository interface {
	ListByAuthor(ctx context.Context, authorID int64) ([]Book, error)
	GetByID(ctx context.Context, id int64) (Book, error)
	Insert(ctx context.Context, in CreateInput, coverImage *string) (Book, error)
	// Update preserves the stored cover_image when coverImage is nil.
	Update(ctx context.Context, id int64, in UpdateInput, coverImage *string) (Book, error)
	Delete(ctx context.Context, id int64) error
}

// CoverStore defines the contract for cover file storage on disk.
type CoverStore interface {
	Save(u *cover.Upload) (string, error)
	Remove(name string) error
}
