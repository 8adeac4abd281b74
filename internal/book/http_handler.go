package book

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"librosapi/internal/cover"
	"librosapi/internal/httpx"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// maxMultipartMemory bounds how much of a multipart body is held in memory
// while parsing; larger parts spill to temp files.
const maxMultipartMemory = 8 << 20

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /libros?authorId=...
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	authorID, err := strconv.ParseInt(r.URL.Query().Get("authorId"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Author ID is required")
		return
	}

	books, err := h.service.ListByAuthor(r.Context(), authorID)
	if err != nil {
		log.Printf("list books error: author_id=%d err=%v", authorID, err)
		httpx.Error(w, http.StatusInternalServerError, "Error fetching books")
		return
	}

	base := requestBaseURL(r)
	for i := range books {
		attachCoverURL(&books[i], base)
	}
	httpx.JSON(w, http.StatusOK, books)
}

// GetByID handles GET /libros/{id}
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	b, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Book not found")
			return
		}
		log.Printf("get book error: id=%d err=%v", id, err)
		httpx.Error(w, http.StatusInternalServerError, "Server error fetching book")
		return
	}

	attachCoverURL(&b, requestBaseURL(r))
	httpx.JSON(w, http.StatusOK, b)
}

// Create handles POST /libros (multipart form).
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Title, author, and authorId are required")
		return
	}

	in := CreateInput{
		Title:  r.FormValue("title"),
		Author: r.FormValue("author"),
		Genre:  r.FormValue("genre"),
	}
	in.AuthorID, _ = strconv.ParseInt(r.FormValue("authorId"), 10, 64)

	rating, ok := formRating(w, r)
	if !ok {
		return
	}
	in.Rating = rating

	if err := validate.Struct(in); err != nil {
		httpx.Error(w, http.StatusBadRequest, validationMessage(err, "Title, author, and authorId are required"))
		return
	}

	upload, closeUpload, err := formCover(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid cover image")
		return
	}
	defer closeUpload()

	b, err := h.service.Create(r.Context(), in, upload)
	if err != nil {
		h.writeSaveError(w, err, "Server error adding book")
		return
	}

	attachCoverURL(&b, requestBaseURL(r))
	httpx.JSON(w, http.StatusCreated, b)
}

// Update handles PUT /libros/{id} (multipart form).
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Title and author are required")
		return
	}

	in := UpdateInput{
		Title:  r.FormValue("title"),
		Author: r.FormValue("author"),
		Genre:  r.FormValue("genre"),
	}

	rating, ok := formRating(w, r)
	if !ok {
		return
	}
	in.Rating = rating

	if err := validate.Struct(in); err != nil {
		httpx.Error(w, http.StatusBadRequest, validationMessage(err, "Title and author are required"))
		return
	}

	upload, closeUpload, err := formCover(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid cover image")
		return
	}
	defer closeUpload()

	b, err := h.service.Update(r.Context(), id, in, upload)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Book not found")
			return
		}
		h.writeSaveError(w, err, "Server error updating book")
		return
	}

	attachCoverURL(&b, requestBaseURL(r))
	httpx.JSON(w, http.StatusOK, b)
}

// Delete handles DELETE /libros/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Book not found")
			return
		}
		log.Printf("delete book error: id=%d err=%v", id, err)
		httpx.Error(w, http.StatusInternalServerError, "Error deleting book")
		return
	}

	httpx.Message(w, http.StatusOK, "Book deleted successfully")
}

func (h *HTTPHandler) writeSaveError(w http.ResponseWriter, err error, serverMsg string) {
	switch {
	case errors.Is(err, cover.ErrNotImage):
		httpx.Error(w, http.StatusBadRequest, "Only image files are allowed")
	case errors.Is(err, cover.ErrTooLarge):
		httpx.Error(w, http.StatusBadRequest, "Cover image must be smaller than 5MB")
	default:
		log.Printf("book save error: %v", err)
		httpx.Error(w, http.StatusInternalServerError, serverMsg)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusNotFound, "Book not found")
		return 0, false
	}
	return id, true
}

func formRating(w http.ResponseWriter, r *http.Request) (*int, bool) {
	raw := r.FormValue("rating")
	if raw == "" {
		return nil, true
	}
	rating, err := strconv.Atoi(raw)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return nil, false
	}
	return &rating, true
}

// formCover extracts the optional coverImage part. The returned close func
// is always safe to call.
func formCover(r *http.Request) (*cover.Upload, func(), error) {
	file, header, err := r.FormFile("coverImage")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	u := &cover.Upload{
		File:        file,
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	}
	return u, func() { _ = file.Close() }, nil
}

// validationMessage collapses field errors to the handler's wire message,
// except a lone rating violation which gets its own.
func validationMessage(err error, requiredMsg string) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Field() != "Rating" {
				return requiredMsg
			}
		}
		return "Rating must be between 1 and 5"
	}
	return requiredMsg
}

func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func attachCoverURL(b *Book, base string) {
	if b.CoverImage == nil {
		return
	}
	u := cover.URL(base, *b.CoverImage)
	b.CoverURL = &u
}
