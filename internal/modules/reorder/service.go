package reorder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/georgemunganga/wegmans2/internal/database"
	"github.com/georgemunganga/wegmans2/internal/errs"
	"github.com/georgemunganga/wegmans2/internal/messaging"
	"github.com/georgemunganga/wegmans2/internal/modules/product"
	"github.com/georgemunganga/wegmans2/internal/modules/store"
	"github.com/go-playground/validator/v10"
)

const (
	// MinAttempts is the lowest bound on order number draws per request.
	MinAttempts = 32

	minOrderNumber = 10_000_000
	maxOrderNumber = 99_999_999
)

// Service defines administrator restocking.
type Service interface {
	Request(ctx context.Context, req Request) (*Reorder, error)
	// FulfillAll delivers every unfulfilled reorder, one transaction per
	// row. It stops at the first failure; rows fulfilled before it stay
	// fulfilled and are listed in the report.
	FulfillAll(ctx context.Context) (*FulfillReport, error)
	ListPending(ctx context.Context) ([]*Reorder, error)
}

// Request asks for quantity units of a product at a store.
type Request struct {
	StoreID  string `validate:"required"`
	UPC      string `validate:"required"`
	Quantity int    `validate:"gt=0"`
}

type StoreFinder interface {
	Get(ctx context.Context, id string) (*store.Store, error)
}

type ProductFinder interface {
	GetByUPC(ctx context.Context, upc string) (*product.Product, error)
}

type VendorFinder interface {
	VendorForProduct(ctx context.Context, upc string) (string, error)
}

// Options tune a Service. Zero values pick the defaults.
type Options struct {
	Attempts  int
	Publisher messaging.Publisher
	// Draw returns a candidate order number in [10_000_000, 99_999_999].
	Draw func() int
	Now  func() time.Time
}

type service struct {
	repo     Repository
	stores   StoreFinder
	products ProductFinder
	vendors  VendorFinder
	validate *validator.Validate

	attempts  int
	publisher messaging.Publisher
	draw      func() int
	now       func() time.Time
}

// NewService creates a new reorder service.
func NewService(repo Repository, stores StoreFinder, products ProductFinder, vendors VendorFinder, opts Options) Service {
	s := &service{
		repo:      repo,
		stores:    stores,
		products:  products,
		vendors:   vendors,
		validate:  validator.New(),
		attempts:  opts.Attempts,
		publisher: opts.Publisher,
		draw:      opts.Draw,
		now:       opts.Now,
	}
	if s.attempts < MinAttempts {
		s.attempts = MinAttempts
	}
	if s.publisher == nil {
		s.publisher = messaging.Nop{}
	}
	if s.draw == nil {
		s.draw = func() int { return minOrderNumber + rand.Intn(maxOrderNumber-minOrderNumber+1) }
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Request(ctx context.Context, req Request) (*Reorder, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, errs.Usagef("reorder request <storeId> <upc> <quantity> needs quantity > 0")
	}
	if _, err := s.stores.Get(ctx, req.StoreID); err != nil {
		return nil, err
	}
	if _, err := s.products.GetByUPC(ctx, req.UPC); err != nil {
		return nil, err
	}
	if _, err := s.vendors.VendorForProduct(ctx, req.UPC); err != nil {
		return nil, err
	}

	existing, err := s.repo.ListOrderNumbers(ctx)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		taken[n] = struct{}{}
	}

	for attempt := 0; attempt < s.attempts; attempt++ {
		number := formatOrderNumber(s.draw())
		if _, dup := taken[number]; dup {
			continue
		}
		ro := &Reorder{OrderNumber: number, Product: req.UPC, Store: req.StoreID, StockRequested: req.Quantity}
		err := s.repo.Insert(ctx, ro)
		if database.IsUniqueViolation(err) {
			// another client drew the same number since we listed them
			taken[number] = struct{}{}
			continue
		}
		if err != nil {
			return nil, err
		}
		messaging.Emit(ctx, s.publisher, messaging.NewEvent(messaging.ReorderRequested, ro))
		return ro, nil
	}
	return nil, fmt.Errorf("%d attempts: %w", s.attempts, errs.ErrOrderNumberExhausted)
}

func formatOrderNumber(n int) string {
	return fmt.Sprintf("%08d", n)
}

func (s *service) FulfillAll(ctx context.Context) (*FulfillReport, error) {
	pending, err := s.repo.ListUnfulfilled(ctx)
	if err != nil {
		return nil, err
	}
	report := &FulfillReport{Pending: len(pending)}

	y, m, d := s.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	for _, ro := range pending {
		f, err := s.repo.Fulfill(ctx, ro.OrderNumber, today)
		if errors.Is(err, errs.ErrNotDistributed) {
			log.Printf("reorder %s left pending: %v", ro.OrderNumber, err)
			report.Undistributed = append(report.Undistributed, ro.OrderNumber)
			continue
		}
		if err != nil {
			return report, fmt.Errorf("reorder %s: %w", ro.OrderNumber, err)
		}
		if f == nil {
			report.Skipped++
			continue
		}
		log.Printf("reorder %s fulfilled by %s: +%d of %s at store %s",
			f.OrderNumber, f.Vendor, f.Restocked, f.Product, f.Store)
		report.Fulfilled = append(report.Fulfilled, f)
		messaging.Emit(ctx, s.publisher, messaging.NewEvent(messaging.ReorderFulfilled, f))
	}
	return report, nil
}

func (s *service) ListPending(ctx context.Context) ([]*Reorder, error) {
	return s.repo.ListUnfulfilled(ctx)
}
