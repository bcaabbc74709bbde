package product

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository defines product storage. Every ListInStore* read filters by
// soldBy.storeId and orders by product name ascending.
type Repository interface {
	ListByName(ctx context.Context, name string) ([]*Product, error)
	// GetByUPC returns errs.ErrNoSuchProduct when no row matches.
	GetByUPC(ctx context.Context, upc string) (*Product, error)

	ListInStoreByName(ctx context.Context, storeID, name string) ([]*Product, error)
	ListInStoreByPrice(ctx context.Context, storeID string, low, high decimal.Decimal) ([]*Product, error)
	ListInStoreByPriceAndType(ctx context.Context, storeID string, low, high decimal.Decimal, typ string) ([]*Product, error)
	ListInStoreByBrand(ctx context.Context, storeID, brand string) ([]*Product, error)
	ListInStoreByType(ctx context.Context, storeID, typ string) ([]*Product, error)
	ListInStore(ctx context.Context, storeID string) ([]*Product, error)

	// StockLevel returns soldBy.numberInStock, or errs.ErrNoSuchProduct when the store does not carry upc.
	StockLevel(ctx context.Context, storeID, upc string) (int, error)

	UpdatePriceByUPC(ctx context.Context, upc string, price decimal.Decimal) (int64, error)
	UpdatePriceByName(ctx context.Context, name string, price decimal.Decimal) (int64, error)
}
