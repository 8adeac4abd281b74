package book

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

const bookColumns = "id, title, author, genre, rating, author_id, cover_image"

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Rating, &b.AuthorID, &b.CoverImage)
	return b, err
}

func (r *PostgresRepo) ListByAuthor(ctx context.Context, authorID int64) ([]Book, error) {
	const query = `
		SELECT ` + bookColumns + `
		FROM books
		WHERE author_id = $1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, query, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	const query = `
		SELECT ` + bookColumns + `
		FROM books
		WHERE id = $1
		LIMIT 1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Insert(ctx context.Context, in CreateInput, coverImage *string) (Book, error) {
	const query = `
		INSERT INTO books (title, author, genre, rating, author_id, cover_image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + bookColumns

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRow(timeoutCtx, query,
		in.Title, in.Author, nullIfEmpty(in.Genre), in.Rating, in.AuthorID, coverImage)
	return scanBook(row)
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, in UpdateInput, coverImage *string) (Book, error) {
	const query = `
		UPDATE books
		SET title = $1, author = $2, genre = $3, rating = $4,
		    cover_image = COALESCE($5, cover_image)
		WHERE id = $6
		RETURNING ` + bookColumns

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRow(timeoutCtx, query,
		in.Title, in.Author, nullIfEmpty(in.Genre), in.Rating, coverImage, id)
	b, err := scanBook(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	const query = `
		DELETE FROM books
		WHERE id = $1
		RETURNING id
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var deleted int64
	if err := r.db.QueryRow(timeoutCtx, query, id).Scan(&deleted); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
