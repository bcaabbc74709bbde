package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerIssueToken(t *testing.T) {
	svc := newTestService(t, "s3cret")
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader(body)))
		return rec
	}

	rec := post(`{"username":"alice","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	name, err := svc.Verify(context.Background(), Credentials{Token: body["token"]})
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	assert.Equal(t, http.StatusUnauthorized, post(`{"username":"alice","password":"nope"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{`).Code)
}

func TestHandlerTokensDisabled(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(newTestService(t, "")).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/token",
		strings.NewReader(`{"username":"alice","password":"hunter2"}`)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
