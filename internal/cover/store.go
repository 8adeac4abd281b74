package cover

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxUploadSize is the largest cover image accepted, in bytes.
const MaxUploadSize = 5 << 20

var (
	// ErrNotImage is returned when the uploaded file is not an image.
	ErrNotImage = errors.New("only image files are allowed")
	// ErrTooLarge is returned when the uploaded file exceeds MaxUploadSize.
	ErrTooLarge = errors.New("cover image exceeds the size limit")
)

// Upload carries one multipart file part handed to the store.
type Upload struct {
	File        io.Reader
	Filename    string
	Size        int64
	ContentType string
}

// Store keeps cover image files on disk under a base directory.
type Store struct {
	dir string
}

// NewStore creates the base directory if missing.
func NewStore(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("upload dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the base directory covers are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// Save validates the upload and writes it under a generated unique name.
// The name combines a time component with a random one, so concurrent
// saves do not collide. Returns the stored filename.
func (s *Store) Save(u *Upload) (string, error) {
	if !strings.HasPrefix(u.ContentType, "image/") {
		return "", ErrNotImage
	}
	if u.Size > MaxUploadSize {
		return "", ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(u.Filename)))
	name := fmt.Sprintf("book-cover-%d-%d%s", time.Now().UnixMilli(), rand.Int63n(1_000_000_000), ext)
	target := filepath.Join(s.dir, name)

	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create cover file: %w", err)
	}
	defer out.Close()

	// Size from the multipart header is client-supplied; cap the copy too.
	written, err := io.Copy(out, io.LimitReader(u.File, MaxUploadSize+1))
	if err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("write cover file: %w", err)
	}
	if written > MaxUploadSize {
		_ = os.Remove(target)
		return "", ErrTooLarge
	}
	return name, nil
}

// Remove deletes a stored cover file. A file that is already gone is not
// an error; cleanup is best-effort.
func (s *Store) Remove(name string) error {
	target := filepath.Join(s.dir, filepath.Base(name))
	if _, err := os.Stat(target); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(target)
}

// URL derives the servable URL for a stored cover filename from a base URL
// (scheme plus host). It is a pure function so it can be tested without an
// HTTP request context.
func URL(base, filename string) string {
	return strings.TrimRight(base, "/") + "/uploads/" + filename
}
