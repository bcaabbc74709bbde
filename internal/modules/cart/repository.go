package cart

import (
	"context"
	"time"

	"github.com/georgemunganga/wegmans2/internal/modules/product"
	"github.com/georgemunganga/wegmans2/internal/modules/sales"
)

// Catalog is the product lookup the cart stages items from.
type Catalog interface {
	FindInStore(ctx context.Context, storeID, name string) (*product.Product, error)
	StockLevel(ctx context.Context, storeID, upc string) (int, error)
}

// Repository commits a cart.
type Repository interface {
	// Checkout decrements stock for every line and appends one orders row
	// per line in a single transaction. It fails with errs.ErrInsufficientStock,
	// changing nothing, when any line exceeds the stock on hand.
	Checkout(ctx context.Context, storeID string, lines []Line, soldAt time.Time) ([]*sales.Order, error)
}
