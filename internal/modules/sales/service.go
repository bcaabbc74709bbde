package sales

import (
	"context"

	"github.com/georgemunganga/wegmans2/internal/errs"
	"github.com/go-playground/validator/v10"
)

// Service defines popularity reports.
type Service interface {
	// Popular returns at most ReportSize products, most popular first
	// unless req.Least is set.
	Popular(ctx context.Context, req PopularRequest) ([]*Ranked, error)
}

// PopularRequest scopes a popularity report. An empty StoreID covers all stores.
type PopularRequest struct {
	StoreID string
	Least   bool
	Metric  Metric `validate:"omitempty,oneof=units revenue"`
}

type service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService creates a new sales service.
func NewService(repo Repository) Service {
	return &service{repo: repo, validate: validator.New()}
}

func (s *service) Popular(ctx context.Context, req PopularRequest) ([]*Ranked, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, errs.Usagef("metric must be units or revenue, got %q", req.Metric)
	}

	var (
		ranked []*Ranked
		err    error
	)
	if req.Metric == Revenue {
		ranked, err = s.repo.RankRevenue(ctx, req.StoreID, !req.Least)
	} else {
		ranked, err = s.repo.RankUnits(ctx, req.StoreID, !req.Least)
	}
	if err != nil {
		return nil, err
	}
	if len(ranked) > ReportSize {
		ranked = ranked[:ReportSize]
	}
	return ranked, nil
}
