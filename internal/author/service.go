package author

import (
	"context"
	"errors"
)

// Service provides the get-or-create login flow.
type Service struct {
	repo Repository
}

// NewService creates a new author service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Login returns the author for the given email, creating one on first use.
// The second return value reports whether a new author was created.
func (s *Service) Login(ctx context.Context, email string) (Author, bool, error) {
	a, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return a, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Author{}, false, err
	}
	created, err := s.repo.Create(ctx, email)
	if err != nil {
		return Author{}, false, err
	}
	return created, true, nil
}
