package product

import (
	"context"
	"fmt"

	"github.com/georgemunganga/wegmans2/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Service defines catalog queries scoped to a store, and administrator price updates.
type Service interface {
	// Search runs the catalog query best suited to f and applies any
	// remaining criteria to its rows. Results are ordered by name.
	Search(ctx context.Context, storeID string, f Filter) ([]*Product, error)
	ListInStore(ctx context.Context, storeID string) ([]*Product, error)
	// FindInStore resolves a product by name within a store's catalog.
	FindInStore(ctx context.Context, storeID, name string) (*Product, error)
	GetByUPC(ctx context.Context, upc string) (*Product, error)
	StockLevel(ctx context.Context, storeID, upc string) (int, error)

	UpdatePriceByUPC(ctx context.Context, upc string, price decimal.Decimal) (*PriceChange, error)
	// UpdatePriceByName changes every product carrying that name.
	UpdatePriceByName(ctx context.Context, name string, price decimal.Decimal) (*PriceChange, error)
}

var maxPrice = decimal.New(1, 8)

type priceUpdate struct {
	Key string `validate:"required,max=128"`
}

type service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService creates a new product service.
func NewService(repo Repository) Service {
	return &service{repo: repo, validate: validator.New()}
}

func (s *service) Search(ctx context.Context, storeID string, f Filter) ([]*Product, error) {
	if storeID == "" {
		return nil, errs.ErrNoStoreSelected
	}
	if f.Empty() {
		return nil, errs.Usagef("give at least one of --name, --brand, --type or --price")
	}
	if f.PriceRange != nil && f.PriceRange.Low.GreaterThan(f.PriceRange.High) {
		return nil, errs.Usagef("price range low %s is above high %s", f.PriceRange.Low, f.PriceRange.High)
	}

	var (
		products []*Product
		err      error
	)
	switch {
	case f.Name != "":
		products, err = s.repo.ListInStoreByName(ctx, storeID, f.Name)
	case f.PriceRange != nil && f.Type != "":
		products, err = s.repo.ListInStoreByPriceAndType(ctx, storeID, f.PriceRange.Low, f.PriceRange.High, f.Type)
	case f.PriceRange != nil:
		products, err = s.repo.ListInStoreByPrice(ctx, storeID, f.PriceRange.Low, f.PriceRange.High)
	case f.Brand != "":
		products, err = s.repo.ListInStoreByBrand(ctx, storeID, f.Brand)
	default:
		products, err = s.repo.ListInStoreByType(ctx, storeID, f.Type)
	}
	if err != nil {
		return nil, err
	}

	var out []*Product
	for _, p := range products {
		if matches(p, f) {
			out = append(out, p)
		}
	}
	return out, nil
}

func matches(p *Product, f Filter) bool {
	if f.Name != "" && p.Name != f.Name {
		return false
	}
	if f.Brand != "" && p.Brand != f.Brand {
		return false
	}
	if f.Type != "" && p.Type != f.Type {
		return false
	}
	if f.PriceRange != nil && !f.PriceRange.Contains(p.Price) {
		return false
	}
	return true
}

func (s *service) ListInStore(ctx context.Context, storeID string) ([]*Product, error) {
	if storeID == "" {
		return nil, errs.ErrNoStoreSelected
	}
	return s.repo.ListInStore(ctx, storeID)
}

func (s *service) FindInStore(ctx context.Context, storeID, name string) (*Product, error) {
	if storeID == "" {
		return nil, errs.ErrNoStoreSelected
	}
	products, err := s.repo.ListInStoreByName(ctx, storeID, name)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%q at store %s: %w", name, storeID, errs.ErrNoSuchProduct)
	}
	return products[0], nil
}

func (s *service) GetByUPC(ctx context.Context, upc string) (*Product, error) {
	return s.repo.GetByUPC(ctx, upc)
}

func (s *service) StockLevel(ctx context.Context, storeID, upc string) (int, error) {
	return s.repo.StockLevel(ctx, storeID, upc)
}

func (s *service) UpdatePriceByUPC(ctx context.Context, upc string, price decimal.Decimal) (*PriceChange, error) {
	if err := s.checkPrice(upc, price); err != nil {
		return nil, err
	}
	n, err := s.repo.UpdatePriceByUPC(ctx, upc, price)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("upc %s: %w", upc, errs.ErrNoSuchProduct)
	}
	return &PriceChange{Key: upc, Price: price, Rows: n}, nil
}

func (s *service) UpdatePriceByName(ctx context.Context, name string, price decimal.Decimal) (*PriceChange, error) {
	if err := s.checkPrice(name, price); err != nil {
		return nil, err
	}
	n, err := s.repo.UpdatePriceByName(ctx, name, price)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%q: %w", name, errs.ErrNoSuchProduct)
	}
	return &PriceChange{Key: name, Price: price, Rows: n}, nil
}

func (s *service) checkPrice(key string, price decimal.Decimal) error {
	if err := s.validate.Struct(priceUpdate{Key: key}); err != nil {
		return errs.Usagef("invalid product key: %v", err)
	}
	if price.IsNegative() {
		return errs.Usagef("price must be >= 0, got %s", price)
	}
	// product.price is NUMERIC(10,2).
	if !price.Equal(price.Truncate(2)) {
		return errs.Usagef("price %s has more than two decimal places", price)
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return errs.Usagef("price must be below %s, got %s", maxPrice, price)
	}
	return nil
}
