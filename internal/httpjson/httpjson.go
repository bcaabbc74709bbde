// Package httpjson writes JSON responses for the read-only HTTP API.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/georgemunganga/wegmans2/internal/errs"
)

// Respond writes body as JSON with the given status.
func Respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Error writes err as {"error": ...} with the status its kind maps to.
func Error(w http.ResponseWriter, err error) {
	Respond(w, StatusOf(err), map[string]string{"error": err.Error()})
}

// BadRequest writes msg as a 400 error body.
func BadRequest(w http.ResponseWriter, msg string) {
	Respond(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// StatusOf maps an error kind to an HTTP status. Storage and unknown errors are 500.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrUsage), errors.Is(err, errs.ErrNoStoreSelected):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrNoSuchStore), errors.Is(err, errs.ErrNoSuchProduct), errors.Is(err, errs.ErrNotDistributed):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrNotPermitted):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
