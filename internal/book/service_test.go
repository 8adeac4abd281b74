package book

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"librosapi/internal/cover"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) ListByAuthor(ctx context.Context, authorID int64) ([]Book, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Book), args.Error(1)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Book), args.Error(1)
}

func (m *mockRepo) Insert(ctx context.Context, in CreateInput, coverImage *string) (Book, error) {
	args := m.Called(ctx, in, coverImage)
	return args.Get(0).(Book), args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, id int64, in UpdateInput, coverImage *string) (Book, error) {
	args := m.Called(ctx, id, in, coverImage)
	return args.Get(0).(Book), args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestCovers(t *testing.T) *cover.Store {
	t.Helper()
	s, err := cover.NewStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func testUpload() *cover.Upload {
	return &cover.Upload{
		File:        bytes.NewReader([]byte("img")),
		Filename:    "c.jpg",
		Size:        3,
		ContentType: "image/jpeg",
	}
}

func storedFiles(t *testing.T, covers *cover.Store) []string {
	t.Helper()
	entries, err := os.ReadDir(covers.Dir())
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func writeCoverFile(t *testing.T, covers *cover.Store, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(covers.Dir(), name), []byte("old"), 0o644))
}

func TestService_Create_WithoutCover(t *testing.T) {
	repo := new(mockRepo)
	covers := newTestCovers(t)
	svc := NewService(repo, covers)

	in := CreateInput{Title: "Dune", Author: "Herbert", AuthorID: 1}
	repo.On("Insert", mock.Anything, in, (*string)(nil)).
		Return(Book{ID: 1, Title: "Dune", Author: "Herbert", AuthorID: 1}, nil)

	b, err := svc.Create(context.Background(), in, nil)
	require.NoError(t, err)
	assert.Nil(t, b.CoverImage)
	repo.AssertExpectations(t)
}

func TestService_Create_StoresCover(t *testing.T) {
	repo := new(mockRepo)
	covers := newTestCovers(t)
	svc := NewService(repo, covers)

	in := CreateInput{Title: "Dune", Author: "Herbert", AuthorID: 1}
	repo.On("Insert", mock.Anything, in, mock.MatchedBy(func(name *string) bool {
		return name != nil && *name != ""
	})).Return(Book{ID: 1}, nil)

	_, err := svc.Create(context.Background(), in, testUpload())
	require.NoError(t, err)
	assert.Len(t, storedFiles(t, covers), 1)
}

func TestService_Create_RemovesStagedFileOnInsertFailure(t *testing.T) {
	repo := new(mockRepo)
	covers := newTestCovers(t)
	svc := NewService(repo, covers)

	in := CreateInput{Title: "Dune", Author: "Herbert", AuthorID: 1}
	repo.On("Insert", mock.Anything, in, mock.Anything).
		Return(Book{}, errors.New("insert failed"))

	_, err := svc.Create(context.Background(), in, testUpload())
	assert.Error(t, err)
	assert.Empty(t, storedFiles(t, covers), "staged cover must be rolled back")
}

func TestService_Update_WithoutCover_PreservesStoredFile(t *testing.T) {
	repo := new(mockRepo)
	covers := newTestCovers(t)
	svc := NewService(repo, covers)
	writeCoverFile(t, covers, "book-cover-1-1.jpg")

	in := UpdateInput{Title: "Dune", Author: "Herbert"}
	repo.On("Update", mock.Anything, int64(1), in, (*string)(nil)).
		Return(Book{ID: 1}, nil)

	_, err := svc.Update(context.Background(), 1, in, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"book-cover-1-1.jpg"}, storedFiles(t, covers))
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestService_Update_ReplacesOldCover(t *testing.T) {
	repo := new(mockRepo)
	covers := newTestCovers(t)
	svc := NewService(repo, covers)

	old := "book-cover-1-1.jpg"
	writeCoverFile(t, covers, old)

	repo.On("GetByID", mock.Anything, int64(1)).
		Return(Book{ID: 1, CoverImage: &old}, nil)
	in := UpdateInput{Title: "Dune", Author: "Herbert"}
	repo.On("Update", mock.Anything, int64(1), in, mock.Anything).
		Return(Book{ID: 1}, nil)

	_, err := svc.Update(context.Background(), 1, in, testUpload())
	require.NoError(t, err)

	files := storedFiles(t, covers)
	require.Len(t, files, 1)
	assert.NotEqual(t, old, files[0], "old cover must be deleted")
}

func TestService_Update_KeepsOldCoverWhenUpdateFails(t *testing.T) {
	repo := new(mockRepo)
	covers := newTestCovers(t)
	svc := NewService(repo, covers)

	old := "book-cover-1-1.jpg"
	writeCoverFile(t, covers, old)

	repo.On("GetByID", mock.Anything, int64(1)).
		Return(Book{ID: 1, CoverImage: &old}, nil)
	in := UpdateInput{Title: "Dune", Author: "Herbert"}
	repo.On("Update", mock.Anything, int64(1), in, mock.Anything).
		Return(Book{}, errors.New("update failed"))

	_, err := svc.Update(context.Background(), 1, in, testUpload())
	assert.Error(t, err)

	// Old file survives; the newly staged one is rolled back.
	assert.Equal(t, []string{old}, storedFiles(t, covers))
}

func TestService_Update_NotFound(t *testing.T) {
	repo := new(mockRepo)
	covers := newTestCovers(t)
	svc := NewService(repo, covers)

	repo.On("GetByID", mock.Anything, int64(99)).Return(Book{}, ErrNotFound)

	_, err := svc.Update(context.Background(), 99, UpdateInput{Title: "t", Author: "a"}, testUpload())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, storedFiles(t, covers), "nothing staged for a missing book")
}

func TestService_Delete_RemovesCoverFile(t *testing.T) {
	repo := new(mockRepo)
	covers := newTestCovers(t)
	svc := NewService(repo, covers)

	name := "book-cover-1-1.jpg"
	writeCoverFile(t, covers, name)

	repo.On("GetByID", mock.Anything, int64(1)).
		Return(Book{ID: 1, CoverImage: &name}, nil)
	repo.On("Delete", mock.Anything, int64(1)).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.Empty(t, storedFiles(t, covers))
}

func TestService_Delete_FileAlreadyGone(t *testing.T) {
	repo := new(mockRepo)
	covers := newTestCovers(t)
	svc := NewService(repo, covers)

	name := "book-cover-1-1.jpg"
	repo.On("GetByID", mock.Anything, int64(1)).
		Return(Book{ID: 1, CoverImage: &name}, nil)
	repo.On("Delete", mock.Anything, int64(1)).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), 1))
}

func TestService_Delete_RowFirst(t *testing.T) {
	repo := new(mockRepo)
	covers := newTestCovers(t)
	svc := NewService(repo, covers)

	name := "book-cover-1-1.jpg"
	writeCoverFile(t, covers, name)

	repo.On("GetByID", mock.Anything, int64(1)).
		Return(Book{ID: 1, CoverImage: &name}, nil)
	repo.On("Delete", mock.Anything, int64(1)).Return(errors.New("delete failed"))

	assert.Error(t, svc.Delete(context.Background(), 1))
	assert.Equal(t, []string{name}, storedFiles(t, covers), "file kept when row delete fails")
}
