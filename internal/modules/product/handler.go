package product

import (
	"net/http"

	"github.com/georgemunganga/wegmans2/internal/httpjson"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// Handler exposes read-only product HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	// ?name=&brand=&type=&low=&high=, no filters lists the whole store
	r.Get("/api/v1/stores/{id}/products", h.listProducts)
	r.Get("/api/v1/products/{upc}", h.getProduct)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "id")
	q := r.URL.Query()
	f := Filter{Name: q.Get("name"), Brand: q.Get("brand"), Type: q.Get("type")}
	if q.Get("low") != "" || q.Get("high") != "" {
		low, err1 := decimal.NewFromString(q.Get("low"))
		high, err2 := decimal.NewFromString(q.Get("high"))
		if err1 != nil || err2 != nil {
			httpjson.BadRequest(w, "low and high must both be prices")
			return
		}
		f.PriceRange = &PriceRange{Low: low, High: high}
	}

	var (
		products []*Product
		err      error
	)
	if f.Empty() {
		products, err = h.service.ListInStore(r.Context(), storeID)
	} else {
		products, err = h.service.Search(r.Context(), storeID, f)
	}
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if products == nil {
		products = []*Product{}
	}
	httpjson.Respond(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetByUPC(r.Context(), chi.URLParam(r, "upc"))
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, p)
}
