package customer

import "context"

// Repository defines customer identity lookups.
type Repository interface {
	// Exists is a presence check without loading names. Login uses GetByPhone.
	Exists(ctx context.Context, phone string) (bool, error)
	// GetByPhone returns errs.ErrNotAuthenticated when no row matches.
	GetByPhone(ctx context.Context, phone string) (*Customer, error)
}
