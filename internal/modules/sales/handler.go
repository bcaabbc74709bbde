package sales

import (
	"net/http"
	"strconv"

	"github.com/georgemunganga/wegmans2/internal/httpjson"
	"github.com/go-chi/chi/v5"
)

// Handler exposes popularity reports over HTTP.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/reports/popular", h.popular)
}

func (h *Handler) popular(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := PopularRequest{StoreID: q.Get("store"), Metric: Metric(q.Get("metric"))}
	if v := q.Get("least"); v != "" {
		least, err := strconv.ParseBool(v)
		if err != nil {
			httpjson.BadRequest(w, "least must be true or false")
			return
		}
		req.Least = least
	}

	ranked, err := h.service.Popular(r.Context(), req)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if ranked == nil {
		ranked = []*Ranked{}
	}
	httpjson.Respond(w, http.StatusOK, ranked)
}
