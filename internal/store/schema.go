// Package store bootstraps the catalog schema. The API server calls
// EnsureSchema on startup so a fresh database works without running the
// migration tool first; cmd/migrate remains the managed path.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS authors (
	id SERIAL PRIMARY KEY,
	email VARCHAR(255) UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS books (
	id SERIAL PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	author VARCHAR(255) NOT NULL,
	genre VARCHAR(100),
	rating INTEGER CHECK (rating >= 1 AND rating <= 5),
	author_id INTEGER REFERENCES authors(id),
	cover_image VARCHAR(255)
);
`

// EnsureSchema creates the authors and books tables when missing.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
