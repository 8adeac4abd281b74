package author

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (Author, error) {
	const query = `
		SELECT id, email
		FROM authors
		WHERE email = $1
		LIMIT 1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var a Author
	err := r.db.QueryRow(timeoutCtx, query, email).Scan(&a.ID, &a.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Author{}, ErrNotFound
		}
		return Author{}, err
	}
	return a, nil
}

func (r *PostgresRepo) Create(ctx context.Context, email string) (Author, error) {
	const query = `
		INSERT INTO authors (email)
		VALUES ($1)
		RETURNING id, email
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var a Author
	if err := r.db.QueryRow(timeoutCtx, query, email).Scan(&a.ID, &a.Email); err != nil {
		return Author{}, err
	}
	return a, nil
}
