package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedIfEmpty inserts sample authors and books, but only when the authors
// table has no rows yet. Repeated startups never duplicate the data.
func SeedIfEmpty(ctx context.Context, db *pgxpool.Pool) (bool, error) {
	var authors int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM authors").Scan(&authors); err != nil {
		return false, fmt.Errorf("count authors: %w", err)
	}
	if authors > 0 {
		return false, nil
	}

	const seedAuthors = `
		INSERT INTO authors (email) VALUES
		('test@example.com'),
		('reader@books.com')
	`
	if _, err := db.Exec(ctx, seedAuthors); err != nil {
		return false, fmt.Errorf("seed authors: %w", err)
	}

	const seedBooks = `
		INSERT INTO books (title, author, genre, rating, author_id) VALUES
		('The Great Gatsby', 'F. Scott Fitzgerald', 'Classic', 5, 1),
		('To Kill a Mockingbird', 'Harper Lee', 'Fiction', 4, 1),
		('1984', 'George Orwell', 'Dystopian', 5, 2),
		('Pride and Prejudice', 'Jane Austen', 'Romance', 4, 2)
	`
	if _, err := db.Exec(ctx, seedBooks); err != nil {
		return false, fmt.Errorf("seed books: %w", err)
	}
	return true, nil
}
