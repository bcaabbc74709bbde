// Package session holds the logged-in user, the current store and, for
// customers, the shopping cart. Operations every role may run are methods
// on Session; role-restricted operations exist only on the user variant
// allowed to run them.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/georgemunganga/wegmans2/internal/errs"
	"github.com/georgemunganga/wegmans2/internal/messaging"
	"github.com/georgemunganga/wegmans2/internal/modules/auth"
	"github.com/georgemunganga/wegmans2/internal/modules/cart"
	"github.com/georgemunganga/wegmans2/internal/modules/customer"
	"github.com/georgemunganga/wegmans2/internal/modules/product"
	"github.com/georgemunganga/wegmans2/internal/modules/reorder"
	"github.com/georgemunganga/wegmans2/internal/modules/sales"
	"github.com/georgemunganga/wegmans2/internal/modules/store"
	"github.com/georgemunganga/wegmans2/internal/modules/vendor"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Deps are the services a session dispatches to.
type Deps struct {
	// DB is released by Close. It may be nil when the services run on
	// something other than a live connection.
	DB        *sqlx.DB
	Publisher messaging.Publisher

	Stores    store.Service
	Products  product.Service
	Customers customer.Service
	Vendors   vendor.Service
	Sales     sales.Service
	Reorders  reorder.Service
	Auth      auth.Service
	Checkout  cart.Repository
}

// Credentials identify a customer by Phone, or else an administrator.
type Credentials struct {
	Phone string
	Admin auth.Credentials
}

// User is the logged-in user: *Customer or *Administrator.
type User interface {
	Name() string
	Role() string
	user()
}

// Session is one logged-in user's state. It is driven by a single command
// loop and is not safe for concurrent use.
type Session struct {
	ID    uuid.UUID
	deps  Deps
	user  User
	store *store.Store
}

// Login authenticates creds and returns a session bound to the resulting user.
func Login(ctx context.Context, deps Deps, creds Credentials) (*Session, error) {
	s := &Session{ID: uuid.New(), deps: deps}

	if creds.Phone != "" {
		c, err := deps.Customers.Authenticate(ctx, creds.Phone)
		if err != nil {
			return nil, err
		}
		s.user = &Customer{
			info:    *c,
			session: s,
			cart:    cart.New(deps.Products, deps.Checkout, deps.Publisher),
		}
	} else {
		if creds.Admin.Username == "" && creds.Admin.Token == "" {
			return nil, errs.Usagef("log in with a phone number or an administrator name")
		}
		name, err := deps.Auth.Verify(ctx, creds.Admin)
		if err != nil {
			return nil, err
		}
		s.user = &Administrator{username: name, session: s}
	}

	log.Printf("session %s: %s %s logged in", s.ID, s.user.Role(), s.user.Name())
	return s, nil
}

func (s *Session) User() User { return s.user }

// Customer returns the user as a customer, or ErrNotPermitted.
func (s *Session) Customer() (*Customer, error) {
	if c, ok := s.user.(*Customer); ok {
		return c, nil
	}
	return nil, fmt.Errorf("customers only: %w", errs.ErrNotPermitted)
}

// Administrator returns the user as an administrator, or ErrNotPermitted.
func (s *Session) Administrator() (*Administrator, error) {
	if a, ok := s.user.(*Administrator); ok {
		return a, nil
	}
	return nil, fmt.Errorf("administrators only: %w", errs.ErrNotPermitted)
}

// SelectStore makes id the current store. A customer's cart is rebound to
// it and emptied in the same step.
func (s *Session) SelectStore(ctx context.Context, id string) (*store.Store, error) {
	st, err := s.deps.Stores.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.store = st
	if c, ok := s.user.(*Customer); ok {
		c.cart.SetStore(st.ID)
	}
	return st, nil
}

// CurrentStore returns the selected store or ErrNoStoreSelected.
func (s *Session) CurrentStore() (*store.Store, error) {
	if s.store == nil {
		return nil, errs.ErrNoStoreSelected
	}
	return s.store, nil
}

func (s *Session) storeID() string {
	if s.store == nil {
		return ""
	}
	return s.store.ID
}

func (s *Session) SearchStores(ctx context.Context, req store.SearchRequest) ([]*store.Store, error) {
	return s.deps.Stores.Search(ctx, req)
}

// SearchProducts searches the current store's catalog.
func (s *Session) SearchProducts(ctx context.Context, f product.Filter) ([]*product.Product, error) {
	return s.deps.Products.Search(ctx, s.storeID(), f)
}

// ListProducts lists every product the current store carries.
func (s *Session) ListProducts(ctx context.Context) ([]*product.Product, error) {
	return s.deps.Products.ListInStore(ctx, s.storeID())
}

// PopularRequest scopes a popularity report. ThisStore restricts it to the current store.
type PopularRequest struct {
	ThisStore bool
	Least     bool
	Metric    sales.Metric
}

func (s *Session) Popular(ctx context.Context, req PopularRequest) ([]*sales.Ranked, error) {
	r := sales.PopularRequest{Least: req.Least, Metric: req.Metric}
	if req.ThisStore {
		if s.store == nil {
			return nil, errs.ErrNoStoreSelected
		}
		r.StoreID = s.store.ID
	}
	return s.deps.Sales.Popular(ctx, r)
}

// Close discards any staged cart and releases the database connection and
// the event publisher.
func (s *Session) Close() error {
	if c, ok := s.user.(*Customer); ok {
		c.cart.SetStore("")
	}
	var errList []error
	if s.deps.Publisher != nil {
		errList = append(errList, s.deps.Publisher.Close())
	}
	if s.deps.DB != nil {
		errList = append(errList, s.deps.DB.Close())
	}
	log.Printf("session %s closed", s.ID)
	return errors.Join(errList...)
}
