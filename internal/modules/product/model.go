package product

import "github.com/shopspring/decimal"

// Product is a catalog item identified by its UPC. Names are treated as unique for lookups by name.
type Product struct {
	UPC   string          `db:"upc" json:"upc"`
	Name  string          `db:"name" json:"name"`
	Brand string          `db:"brand" json:"brand"`
	Type  string          `db:"type" json:"type"`
	Price decimal.Decimal `db:"price" json:"price"`
}

// Filter holds the optional product search criteria.
type Filter struct {
	Name       string
	Brand      string
	Type       string
	PriceRange *PriceRange
}

// Empty reports whether no criterion is set.
func (f Filter) Empty() bool {
	return f.Name == "" && f.Brand == "" && f.Type == "" && f.PriceRange == nil
}

// PriceRange bounds are exclusive.
type PriceRange struct {
	Low  decimal.Decimal
	High decimal.Decimal
}

// Contains reports whether price lies strictly inside the range.
func (r PriceRange) Contains(price decimal.Decimal) bool {
	return price.GreaterThan(r.Low) && price.LessThan(r.High)
}

// PriceChange reports the outcome of a price update.
type PriceChange struct {
	Key   string
	Price decimal.Decimal
	Rows  int64
}
