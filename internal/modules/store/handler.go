package store

import (
	"net/http"
	"strconv"

	"github.com/georgemunganga/wegmans2/internal/httpjson"
	"github.com/go-chi/chi/v5"
)

// Handler exposes read-only store HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/stores", h.searchStores) // ?state=NY&item=Milk&open=0700&close=2200
	r.Get("/api/v1/stores/{id}", h.getStore)
}

func (h *Handler) getStore(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, st)
}

func (h *Handler) searchStores(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := SearchRequest{State: q.Get("state"), Item: q.Get("item")}
	if q.Get("open") != "" || q.Get("close") != "" {
		open, err1 := strconv.Atoi(q.Get("open"))
		closeAt, err2 := strconv.Atoi(q.Get("close"))
		if err1 != nil || err2 != nil {
			httpjson.BadRequest(w, "open and close must both be HHMM integers")
			return
		}
		req.Hours = &Hours{Open: open, Close: closeAt}
	}
	stores, err := h.service.Search(r.Context(), req)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if stores == nil {
		stores = []*Store{}
	}
	httpjson.Respond(w, http.StatusOK, stores)
}
