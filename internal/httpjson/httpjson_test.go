package httpjson

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/georgemunganga/wegmans2/internal/errs"
	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errs.Usagef("bad price"), http.StatusBadRequest},
		{errs.ErrNoStoreSelected, http.StatusBadRequest},
		{fmt.Errorf("store S9: %w", errs.ErrNoSuchStore), http.StatusNotFound},
		{fmt.Errorf("upc 1: %w", errs.ErrNoSuchProduct), http.StatusNotFound},
		{errs.ErrNotDistributed, http.StatusNotFound},
		{errs.ErrNotAuthenticated, http.StatusUnauthorized},
		{errs.ErrNotPermitted, http.StatusForbidden},
		{errs.Storage("q", errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusOf(tt.err), tt.err.Error())
	}
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, fmt.Errorf("store S9: %w", errs.ErrNoSuchStore))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"store S9: no such store"}`, rec.Body.String())
}
