package session

import (
	"context"
	"time"

	"github.com/georgemunganga/wegmans2/internal/modules/product"
	"github.com/georgemunganga/wegmans2/internal/modules/reorder"
	"github.com/georgemunganga/wegmans2/internal/modules/vendor"
	"github.com/shopspring/decimal"
)

// Administrator is a manager's view of the session.
type Administrator struct {
	username string
	session  *Session
}

func (a *Administrator) user()        {}
func (a *Administrator) Role() string { return "administrator" }
func (a *Administrator) Name() string { return a.username }

func (a *Administrator) UpdatePriceByUPC(ctx context.Context, upc string, price decimal.Decimal) (*product.PriceChange, error) {
	return a.session.deps.Products.UpdatePriceByUPC(ctx, upc, price)
}

// UpdatePriceByName changes the price of every product with that name.
func (a *Administrator) UpdatePriceByName(ctx context.Context, name string, price decimal.Decimal) (*product.PriceChange, error) {
	return a.session.deps.Products.UpdatePriceByName(ctx, name, price)
}

func (a *Administrator) RequestReorder(ctx context.Context, storeID, upc string, quantity int) (*reorder.Reorder, error) {
	return a.session.deps.Reorders.Request(ctx, reorder.Request{StoreID: storeID, UPC: upc, Quantity: quantity})
}

func (a *Administrator) FulfillReorders(ctx context.Context) (*reorder.FulfillReport, error) {
	return a.session.deps.Reorders.FulfillAll(ctx)
}

func (a *Administrator) PendingReorders(ctx context.Context) ([]*reorder.Reorder, error) {
	return a.session.deps.Reorders.ListPending(ctx)
}

// Vendors lists brand distributors, all of them when brand is empty.
func (a *Administrator) Vendors(ctx context.Context, brand string) ([]*vendor.Distribution, error) {
	return a.session.deps.Vendors.List(ctx, brand)
}

// IssueToken signs a login token for this administrator.
func (a *Administrator) IssueToken(ttl time.Duration) (string, error) {
	return a.session.deps.Auth.IssueToken(a.username, ttl)
}
