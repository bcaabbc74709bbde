package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is one completed sale line. Rows are append-only.
type Order struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Product    string    `db:"product" json:"product"`
	Store      string    `db:"store" json:"store"`
	NumberSold int       `db:"numbersold" json:"number_sold"`
	SoldAt     time.Time `db:"soldat" json:"sold_at"`
}

// Metric selects what popularity is measured in.
type Metric string

const (
	Units   Metric = "units"
	Revenue Metric = "revenue"
)

// Ranked is a product with its aggregated units or revenue.
type Ranked struct {
	UPC   string          `db:"upc" json:"upc"`
	Name  string          `db:"name" json:"name"`
	Total decimal.Decimal `db:"total" json:"total"`
}

// ReportSize is how many products a popularity report returns at most.
const ReportSize = 3
