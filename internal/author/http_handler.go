package author

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"librosapi/internal/httpx"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type loginReq struct {
	Email string `json:"email" validate:"required"`
}

// Login handles POST /login. It looks the author up by email and creates
// one when the email has not been seen before. No token or session is
// issued; the caller keeps the returned record.
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Email is required")
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Email is required")
		return
	}

	a, created, err := h.service.Login(r.Context(), req.Email)
	if err != nil {
		log.Printf("login error: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "Server error during login")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httpx.JSON(w, status, a)
}
