package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/georgemunganga/wegmans2/internal/errs"
	"github.com/go-chi/chi/v5"
)

// TokenTTL is the lifetime of tokens issued over HTTP.
const TokenTTL = 24 * time.Hour

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/api/v1/auth/token", h.issueToken)
}

// issueToken exchanges an administrator's password for a login token.
func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	name, err := h.service.Verify(r.Context(), Credentials{Username: req.Username, Password: req.Password})
	if errors.Is(err, errs.ErrNotAuthenticated) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	token, err := h.service.IssueToken(name, TokenTTL)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}
