package store

import "context"

// Repository defines read access to stores.
type Repository interface {
	// GetByID returns errs.ErrNoSuchStore when no row matches.
	GetByID(ctx context.Context, id string) (*Store, error)
	ListByState(ctx context.Context, state string) ([]*Store, error)
	// ListByHours returns stores with openTime >= open and closeTime <= close.
	ListByHours(ctx context.Context, open, close int) ([]*Store, error)
	// ListByProductName returns stores whose soldBy rows include a product with that name.
	ListByProductName(ctx context.Context, name string) ([]*Store, error)
}
