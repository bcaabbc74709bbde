// Package memdb keeps the whole schema in memory behind the same repository
// interfaces the PostgreSQL implementations satisfy. Session and shell tests
// run against it.
package memdb

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/georgemunganga/wegmans2/internal/errs"
	"github.com/georgemunganga/wegmans2/internal/modules/cart"
	"github.com/georgemunganga/wegmans2/internal/modules/customer"
	"github.com/georgemunganga/wegmans2/internal/modules/product"
	"github.com/georgemunganga/wegmans2/internal/modules/reorder"
	"github.com/georgemunganga/wegmans2/internal/modules/sales"
	"github.com/georgemunganga/wegmans2/internal/modules/store"
	"github.com/georgemunganga/wegmans2/internal/modules/vendor"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var (
	_ store.Repository    = (*DB)(nil)
	_ product.Repository  = (*DB)(nil)
	_ customer.Repository = (*DB)(nil)
	_ vendor.Repository   = (*DB)(nil)
	_ sales.Repository    = (*DB)(nil)
	_ cart.Repository     = (*DB)(nil)
	_ reorder.Repository  = (*DB)(nil)
)

type stockKey struct{ store, upc string }

// DB is an in-memory database. All methods are safe for concurrent use.
type DB struct {
	mu            sync.Mutex
	stores        map[string]store.Store
	products      map[string]product.Product
	soldBy        map[stockKey]int
	distributions []vendor.Distribution
	customers     map[string]customer.Customer
	orders        []sales.Order
	reorders      map[string]reorder.Reorder
}

// New returns an empty database.
func New() *DB {
	return &DB{
		stores:    make(map[string]store.Store),
		products:  make(map[string]product.Product),
		soldBy:    make(map[stockKey]int),
		customers: make(map[string]customer.Customer),
		reorders:  make(map[string]reorder.Reorder),
	}
}

// Seeded returns a database holding store S1, product P1 (upc 00001, $2.50,
// 10 in stock at S1), product P2 (upc 00002, $1.00, none in stock at S1), a
// vendor for their brand and one customer.
func Seeded() *DB {
	db := New()
	db.AddStore(store.Store{ID: "S1", Street: "1 Wegmans Way", City: "Rochester", State: "NY", Zip: "14624", OpenTime: 600, CloseTime: 2300})
	db.AddStore(store.Store{ID: "S2", City: "Boston", State: "MA", OpenTime: 700, CloseTime: 2200})
	db.AddProduct(product.Product{UPC: "00001", Name: "P1", Brand: "Wegmans", Type: "snack", Price: decimal.RequireFromString("2.50")})
	db.AddProduct(product.Product{UPC: "00002", Name: "P2", Brand: "Wegmans", Type: "dairy", Price: decimal.RequireFromString("1.00")})
	db.SetStock("S1", "00001", 10)
	db.SetStock("S1", "00002", 0)
	db.AddDistribution(vendor.Distribution{Brand: "Wegmans", Vendor: "Acme Foods"})
	db.AddCustomer(customer.Customer{Phone: "5855550100", FirstName: "Ada", LastName: "Lovelace"})
	return db
}

func (db *DB) AddStore(s store.Store) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.stores[s.ID] = s
}

func (db *DB) AddProduct(p product.Product) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.products[p.UPC] = p
}

func (db *DB) SetStock(storeID, upc string, n int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.soldBy[stockKey{storeID, upc}] = n
}

func (db *DB) AddDistribution(d vendor.Distribution) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.distributions = append(db.distributions, d)
}

func (db *DB) AddCustomer(c customer.Customer) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.customers[c.Phone] = c
}

// Stock returns the units of upc on hand at storeID, and whether the store carries it.
func (db *DB) Stock(storeID, upc string) (int, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	n, ok := db.soldBy[stockKey{storeID, upc}]
	return n, ok
}

// Orders returns a copy of the order history.
func (db *DB) Orders() []sales.Order {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]sales.Order(nil), db.orders...)
}

// Reorder returns the reorder with that number.
func (db *DB) Reorder(number string) (reorder.Reorder, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	r, ok := db.reorders[number]
	return r, ok
}

// Stores

func (db *DB) GetByID(_ context.Context, id string) (*store.Store, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	s, ok := db.stores[id]
	if !ok {
		return nil, fmt.Errorf("store %s: %w", id, errs.ErrNoSuchStore)
	}
	return &s, nil
}

func (db *DB) ListByState(_ context.Context, state string) ([]*store.Store, error) {
	return db.filterStores(func(s store.Store) bool { return s.State == state }), nil
}

func (db *DB) ListByHours(_ context.Context, open, close int) ([]*store.Store, error) {
	return db.filterStores(func(s store.Store) bool { return s.OpenTime >= open && s.CloseTime <= close }), nil
}

func (db *DB) ListByProductName(_ context.Context, name string) ([]*store.Store, error) {
	db.mu.Lock()
	carrying := map[string]bool{}
	for k := range db.soldBy {
		if db.products[k.upc].Name == name {
			carrying[k.store] = true
		}
	}
	db.mu.Unlock()
	return db.filterStores(func(s store.Store) bool { return carrying[s.ID] }), nil
}

func (db *DB) filterStores(keep func(store.Store) bool) []*store.Store {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*store.Store
	for _, s := range db.stores {
		s := s
		if keep(s) {
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Products

func (db *DB) ListByName(_ context.Context, name string) ([]*product.Product, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*product.Product
	for _, p := range db.products {
		p := p
		if p.Name == name {
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UPC < out[j].UPC })
	return out, nil
}

func (db *DB) GetByUPC(_ context.Context, upc string) (*product.Product, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.products[upc]
	if !ok {
		return nil, fmt.Errorf("upc %s: %w", upc, errs.ErrNoSuchProduct)
	}
	return &p, nil
}

func (db *DB) inStore(storeID string, keep func(product.Product) bool) []*product.Product {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*product.Product
	for k := range db.soldBy {
		if k.store != storeID {
			continue
		}
		if p, ok := db.products[k.upc]; ok && keep(p) {
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].UPC < out[j].UPC
	})
	return out
}

func (db *DB) ListInStoreByName(_ context.Context, storeID, name string) ([]*product.Product, error) {
	return db.inStore(storeID, func(p product.Product) bool { return p.Name == name }), nil
}

func (db *DB) ListInStoreByPrice(_ context.Context, storeID string, low, high decimal.Decimal) ([]*product.Product, error) {
	r := product.PriceRange{Low: low, High: high}
	return db.inStore(storeID, func(p product.Product) bool { return r.Contains(p.Price) }), nil
}

func (db *DB) ListInStoreByPriceAndType(_ context.Context, storeID string, low, high decimal.Decimal, typ string) ([]*product.Product, error) {
	r := product.PriceRange{Low: low, High: high}
	return db.inStore(storeID, func(p product.Product) bool { return r.Contains(p.Price) && p.Type == typ }), nil
}

func (db *DB) ListInStoreByBrand(_ context.Context, storeID, brand string) ([]*product.Product, error) {
	return db.inStore(storeID, func(p product.Product) bool { return p.Brand == brand }), nil
}

func (db *DB) ListInStoreByType(_ context.Context, storeID, typ string) ([]*product.Product, error) {
	return db.inStore(storeID, func(p product.Product) bool { return p.Type == typ }), nil
}

func (db *DB) ListInStore(_ context.Context, storeID string) ([]*product.Product, error) {
	return db.inStore(storeID, func(product.Product) bool { return true }), nil
}

func (db *DB) StockLevel(_ context.Context, storeID, upc string) (int, error) {
	n, ok := db.Stock(storeID, upc)
	if !ok {
		return 0, fmt.Errorf("store %s does not carry %s: %w", storeID, upc, errs.ErrNoSuchProduct)
	}
	return n, nil
}

func (db *DB) UpdatePriceByUPC(_ context.Context, upc string, price decimal.Decimal) (int64, error) {
	return db.updatePrice(func(p product.Product) bool { return p.UPC == upc }, price), nil
}

func (db *DB) UpdatePriceByName(_ context.Context, name string, price decimal.Decimal) (int64, error) {
	return db.updatePrice(func(p product.Product) bool { return p.Name == name }, price), nil
}

func (db *DB) updatePrice(match func(product.Product) bool, price decimal.Decimal) int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	var n int64
	for upc, p := range db.products {
		if match(p) {
			p.Price = price
			db.products[upc] = p
			n++
		}
	}
	return n
}

// Customers

func (db *DB) Exists(_ context.Context, phone string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, ok := db.customers[phone]
	return ok, nil
}

func (db *DB) GetByPhone(_ context.Context, phone string) (*customer.Customer, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	c, ok := db.customers[phone]
	if !ok {
		return nil, fmt.Errorf("no customer with phone %s: %w", phone, errs.ErrNotAuthenticated)
	}
	return &c, nil
}

// Vendors

func (db *DB) ListAll(_ context.Context) ([]*vendor.Distribution, error) {
	return db.filterDistributions(func(vendor.Distribution) bool { return true }), nil
}

func (db *DB) ListByBrand(_ context.Context, brand string) ([]*vendor.Distribution, error) {
	return db.filterDistributions(func(d vendor.Distribution) bool { return d.Brand == brand }), nil
}

func (db *DB) filterDistributions(keep func(vendor.Distribution) bool) []*vendor.Distribution {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*vendor.Distribution
	for _, d := range db.distributions {
		d := d
		if keep(d) {
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Brand != out[j].Brand {
			return out[i].Brand < out[j].Brand
		}
		return out[i].Vendor < out[j].Vendor
	})
	return out
}

func (db *DB) VendorForProduct(_ context.Context, upc string) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.vendorFor(upc)
}

func (db *DB) vendorFor(upc string) (string, error) {
	p, ok := db.products[upc]
	best := ""
	for _, d := range db.distributions {
		if ok && d.Brand == p.Brand && (best == "" || d.Vendor < best) {
			best = d.Vendor
		}
	}
	if best == "" {
		return "", fmt.Errorf("upc %s: %w", upc, errs.ErrNotDistributed)
	}
	return best, nil
}

// Sales

func (db *DB) RankUnits(_ context.Context, storeID string, desc bool) ([]*sales.Ranked, error) {
	return db.rank(storeID, desc, func(o sales.Order, _ product.Product) decimal.Decimal {
		return decimal.NewFromInt(int64(o.NumberSold))
	}), nil
}

func (db *DB) RankRevenue(_ context.Context, storeID string, desc bool) ([]*sales.Ranked, error) {
	return db.rank(storeID, desc, func(o sales.Order, p product.Product) decimal.Decimal {
		return p.Price.Mul(decimal.NewFromInt(int64(o.NumberSold)))
	}), nil
}

func (db *DB) rank(storeID string, desc bool, value func(sales.Order, product.Product) decimal.Decimal) []*sales.Ranked {
	db.mu.Lock()
	defer db.mu.Unlock()
	totals := map[string]*sales.Ranked{}
	for _, o := range db.orders {
		if storeID != "" && o.Store != storeID {
			continue
		}
		p := db.products[o.Product]
		r, ok := totals[o.Product]
		if !ok {
			r = &sales.Ranked{UPC: o.Product, Name: p.Name, Total: decimal.Zero}
			totals[o.Product] = r
		}
		r.Total = r.Total.Add(value(o, p))
	}
	out := make([]*sales.Ranked, 0, len(totals))
	for _, r := range totals {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return (c > 0) == desc
		}
		return out[i].UPC < out[j].UPC
	})
	if len(out) > sales.ReportSize {
		out = out[:sales.ReportSize]
	}
	return out
}

// Checkout applies every line or none, like the conditional decrement in SQL.
func (db *DB) Checkout(_ context.Context, storeID string, lines []cart.Line, soldAt time.Time) ([]*sales.Order, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, l := range lines {
		if db.soldBy[stockKey{storeID, l.Product.UPC}] < l.Quantity {
			return nil, fmt.Errorf("%s x%d at store %s: %w", l.Product.Name, l.Quantity, storeID, errs.ErrInsufficientStock)
		}
	}
	var out []*sales.Order
	for _, l := range lines {
		db.soldBy[stockKey{storeID, l.Product.UPC}] -= l.Quantity
		o := sales.Order{ID: uuid.New(), Product: l.Product.UPC, Store: storeID, NumberSold: l.Quantity, SoldAt: soldAt}
		db.orders = append(db.orders, o)
		out = append(out, &o)
	}
	return out, nil
}

// Reorders

func (db *DB) ListOrderNumbers(_ context.Context) ([]string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]string, 0, len(db.reorders))
	for n := range db.reorders {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

func (db *DB) Insert(_ context.Context, r *reorder.Reorder) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, dup := db.reorders[r.OrderNumber]; dup {
		return errs.Storage("insertReorder", &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
	}
	db.reorders[r.OrderNumber] = *r
	return nil
}

func (db *DB) ListUnfulfilled(_ context.Context) ([]*reorder.Reorder, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*reorder.Reorder
	for _, r := range db.reorders {
		r := r
		if !r.Fulfilled() {
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber < out[j].OrderNumber })
	return out, nil
}

func (db *DB) Fulfill(_ context.Context, number string, deliveryDate time.Time) (*reorder.Fulfillment, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	r, ok := db.reorders[number]
	if !ok || r.Fulfilled() {
		return nil, nil
	}
	v, err := db.vendorFor(r.Product)
	if err != nil {
		return nil, err
	}
	db.soldBy[stockKey{r.Store, r.Product}] += r.StockRequested
	r.DeliveryDate, r.FulfilledBy = &deliveryDate, &v
	db.reorders[number] = r
	return &reorder.Fulfillment{
		OrderNumber:  number,
		Product:      r.Product,
		Store:        r.Store,
		Restocked:    r.StockRequested,
		Vendor:       v,
		DeliveryDate: deliveryDate,
	}, nil
}
