package customer

import (
	"context"

	"github.com/georgemunganga/wegmans2/internal/errs"
	"github.com/go-playground/validator/v10"
)

// Service defines customer identity operations.
type Service interface {
	// Authenticate returns the customer whose row matches phone, names included.
	Authenticate(ctx context.Context, phone string) (*Customer, error)
}

type credentials struct {
	Phone string `validate:"required,max=20"`
}

type service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService creates a new customer service.
func NewService(repo Repository) Service {
	return &service{repo: repo, validate: validator.New()}
}

func (s *service) Authenticate(ctx context.Context, phone string) (*Customer, error) {
	if err := s.validate.Struct(credentials{Phone: phone}); err != nil {
		return nil, errs.Usagef("phone number must be 1 to 20 characters")
	}
	return s.repo.GetByPhone(ctx, phone)
}
