package reorder

import "time"

// Reorder is a restock request. It is unfulfilled while DeliveryDate is nil;
// fulfillment sets DeliveryDate and FulfilledBy together and never clears them.
type Reorder struct {
	OrderNumber    string     `db:"ordernumber" json:"order_number"`
	Product        string     `db:"product" json:"product"`
	Store          string     `db:"store" json:"store"`
	StockRequested int        `db:"stockrequested" json:"stock_requested"`
	DeliveryDate   *time.Time `db:"deliverydate" json:"delivery_date,omitempty"`
	FulfilledBy    *string    `db:"fulfilledby" json:"fulfilled_by,omitempty"`
}

// Fulfilled reports whether the reorder has been delivered.
func (r *Reorder) Fulfilled() bool { return r.DeliveryDate != nil }

// Fulfillment is the outcome of delivering one reorder.
type Fulfillment struct {
	OrderNumber  string    `json:"order_number"`
	Product      string    `json:"product"`
	Store        string    `json:"store"`
	Restocked    int       `json:"restocked"`
	Vendor       string    `json:"vendor"`
	DeliveryDate time.Time `json:"delivery_date"`
}

// FulfillReport lists the reorders delivered by one fulfillment run.
// Skipped counts rows another client fulfilled first. Undistributed holds
// the order numbers left pending because no vendor carries their brand.
type FulfillReport struct {
	Pending       int
	Fulfilled     []*Fulfillment
	Skipped       int
	Undistributed []string
}
