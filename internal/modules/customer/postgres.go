package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/wegmans2/internal/errs"
	"github.com/jmoiron/sqlx"
)

const (
	customerExistsQuery  = `SELECT EXISTS (SELECT 1 FROM customer WHERE phonenumber = $1)`
	customerByPhoneQuery = `SELECT phonenumber, firstname, lastname FROM customer WHERE phonenumber = $1`
)

type postgresRepository struct {
	db sqlx.QueryerContext
}

// NewPostgresRepository creates a new PostgreSQL customer repository.
func NewPostgresRepository(db sqlx.QueryerContext) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Exists(ctx context.Context, phone string) (bool, error) {
	var ok bool
	if err := sqlx.GetContext(ctx, r.db, &ok, customerExistsQuery, phone); err != nil {
		return false, errs.Storage("customerExists", err)
	}
	return ok, nil
}

func (r *postgresRepository) GetByPhone(ctx context.Context, phone string) (*Customer, error) {
	c := &Customer{}
	err := sqlx.GetContext(ctx, r.db, c, customerByPhoneQuery, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no customer with phone %s: %w", phone, errs.ErrNotAuthenticated)
	}
	if err != nil {
		return nil, errs.Storage("customerByPhone", err)
	}
	return c, nil
}
