package store

import (
	"context"
	"fmt"

	"github.com/georgemunganga/wegmans2/internal/errs"
	"github.com/go-playground/validator/v10"
)

// Service defines store lookup and search.
type Service interface {
	Get(ctx context.Context, id string) (*Store, error)
	// Search intersects the results of every filter set on req.
	Search(ctx context.Context, req SearchRequest) ([]*Store, error)
}

// SearchRequest holds the optional store search filters. At least one must be set.
type SearchRequest struct {
	State string `validate:"omitempty,len=2,alpha"`
	Item  string
	Hours *Hours
}

// Hours is an opening window, both ends as 4-digit 24-hour times.
type Hours struct {
	Open  int `validate:"hhmm"`
	Close int `validate:"hhmm"`
}

type service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService creates a new store service.
func NewService(repo Repository) Service {
	v := validator.New()
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return ValidTime(int(fl.Field().Int()))
	})
	return &service{repo: repo, validate: v}
}

// ValidTime reports whether t reads as a 24-hour HHMM time.
func ValidTime(t int) bool {
	return t >= 0 && t/100 < 24 && t%100 < 60
}

func (s *service) Get(ctx context.Context, id string) (*Store, error) {
	if id == "" {
		return nil, errs.Usagef("store id is required")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Search(ctx context.Context, req SearchRequest) ([]*Store, error) {
	if req.State == "" && req.Item == "" && req.Hours == nil {
		return nil, errs.Usagef("give at least one of --state, --item or --time")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, errs.Usagef("invalid store search: %v", err)
	}

	var sets [][]*Store
	if req.State != "" {
		stores, err := s.repo.ListByState(ctx, req.State)
		if err != nil {
			return nil, err
		}
		sets = append(sets, stores)
	}
	if req.Item != "" {
		stores, err := s.repo.ListByProductName(ctx, req.Item)
		if err != nil {
			return nil, err
		}
		sets = append(sets, stores)
	}
	if req.Hours != nil {
		stores, err := s.repo.ListByHours(ctx, req.Hours.Open, req.Hours.Close)
		if err != nil {
			return nil, fmt.Errorf("search by hours: %w", err)
		}
		sets = append(sets, stores)
	}
	return intersect(sets), nil
}

// intersect keeps the stores of the first set that appear in every other set.
func intersect(sets [][]*Store) []*Store {
	result := sets[0]
	for _, other := range sets[1:] {
		ids := make(map[string]bool, len(other))
		for _, st := range other {
			ids[st.ID] = true
		}
		var kept []*Store
		for _, st := range result {
			if ids[st.ID] {
				kept = append(kept, st)
			}
		}
		result = kept
	}
	return result
}
