package reorder

import (
	"context"
	"time"
)

// Repository defines reorder storage.
type Repository interface {
	ListOrderNumbers(ctx context.Context) ([]string, error)
	// Insert stores an unfulfilled reorder. A duplicate order number fails
	// with an error database.IsUniqueViolation recognizes.
	Insert(ctx context.Context, r *Reorder) error
	ListUnfulfilled(ctx context.Context) ([]*Reorder, error)
	// Fulfill restocks and marks one reorder delivered in a single
	// transaction. It returns nil, nil when the row is already fulfilled.
	Fulfill(ctx context.Context, orderNumber string, deliveryDate time.Time) (*Fulfillment, error)
}
