package sales

import "context"

// Repository defines sales analytics over the orders table. An empty
// storeID ranks across every store. Ties are broken by upc ascending.
type Repository interface {
	RankUnits(ctx context.Context, storeID string, desc bool) ([]*Ranked, error)
	RankRevenue(ctx context.Context, storeID string, desc bool) ([]*Ranked, error)
}
