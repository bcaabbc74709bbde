package memdb

import (
	"github.com/georgemunganga/wegmans2/internal/modules/auth"
	"github.com/georgemunganga/wegmans2/internal/modules/customer"
	"github.com/georgemunganga/wegmans2/internal/modules/product"
	"github.com/georgemunganga/wegmans2/internal/modules/reorder"
	"github.com/georgemunganga/wegmans2/internal/modules/sales"
	"github.com/georgemunganga/wegmans2/internal/modules/store"
	"github.com/georgemunganga/wegmans2/internal/modules/vendor"
	"github.com/georgemunganga/wegmans2/internal/session"
)

// Deps wires the real services over db, the way main wires them over PostgreSQL.
func (db *DB) Deps(verifier auth.Service) session.Deps {
	stores := store.NewService(db)
	products := product.NewService(db)
	vendors := vendor.NewService(db)
	return session.Deps{
		Stores:    stores,
		Products:  products,
		Customers: customer.NewService(db),
		Vendors:   vendors,
		Sales:     sales.NewService(db),
		Reorders:  reorder.NewService(db, stores, products, vendors, reorder.Options{}),
		Auth:      verifier,
		Checkout:  db,
	}
}
