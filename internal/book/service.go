package book

import (
	"context"

	"librosapi/internal/cover"
)

// Service owns the book lifecycle, keeping the stored row and the cover
// file on disk in step. File writes are staged before the row mutation and
// rolled back when it fails; old files are removed only after the row
// change commits, so a reported success always has a readable cover.
type Service struct {
	repo   Repository
	covers CoverStore
}

// NewService creates a new book service.
func NewService(repo Repository, covers CoverStore) *Service {
	return &Service{repo: repo, covers: covers}
}

// ListByAuthor returns all books owned by the given author. An unknown
// author yields an empty list, not an error.
func (s *Service) ListByAuthor(ctx context.Context, authorID int64) ([]Book, error) {
	return s.repo.ListByAuthor(ctx, authorID)
}

// GetByID returns a single book by id.
func (s *Service) GetByID(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores an optional cover upload and inserts the book. The staged
// file is removed when the insert fails.
func (s *Service) Create(ctx context.Context, in CreateInput, upload *cover.Upload) (Book, error) {
	var coverImage *string
	if upload != nil {
		name, err := s.covers.Save(upload)
		if err != nil {
			return Book{}, err
		}
		coverImage = &name
	}

	b, err := s.repo.Insert(ctx, in, coverImage)
	if err != nil {
		if coverImage != nil {
			_ = s.covers.Remove(*coverImage)
		}
		return Book{}, err
	}
	return b, nil
}

// Update applies the new field values and, when a replacement cover is
// supplied, swaps the stored file. The previous file is deleted only after
// the row update commits; without an upload the stored cover is preserved.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput, upload *cover.Upload) (Book, error) {
	var newCover, oldCover *string
	if upload != nil {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return Book{}, err
		}
		oldCover = current.CoverImage

		name, err := s.covers.Save(upload)
		if err != nil {
			return Book{}, err
		}
		newCover = &name
	}

	b, err := s.repo.Update(ctx, id, in, newCover)
	if err != nil {
		if newCover != nil {
			_ = s.covers.Remove(*newCover)
		}
		return Book{}, err
	}

	if oldCover != nil {
		_ = s.covers.Remove(*oldCover)
	}
	return b, nil
}

// Delete removes the row first, then the cover file as best-effort cleanup.
func (s *Service) Delete(ctx context.Context, id int64) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if current.CoverImage != nil {
		_ = s.covers.Remove(*current.CoverImage)
	}
	return nil
}
