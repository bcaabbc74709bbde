package cart

import (
	"time"

	"github.com/georgemunganga/wegmans2/internal/modules/product"
	"github.com/georgemunganga/wegmans2/internal/modules/sales"
	"github.com/shopspring/decimal"
)

// State is the cart's position in its lifecycle.
type State int

const (
	Empty State = iota
	Staging
	Committed
	Aborted
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Staging:
		return "staging"
	case Committed:
		return "committed"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

// Line is a product snapshot taken at add time and the quantity staged.
type Line struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Subtotal is price times quantity, unrounded.
func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Receipt describes a committed checkout.
type Receipt struct {
	StoreID string          `json:"store_id"`
	Lines   []Line          `json:"lines"`
	Total   decimal.Decimal `json:"total"`
	SoldAt  time.Time       `json:"sold_at"`
	Orders  []*sales.Order  `json:"orders"`
}
