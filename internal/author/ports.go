package author

import "context"

// Repository defines the contract for author storage.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (Author, error)
	Create(ctx context.Context, email string) (Author, error)
}
