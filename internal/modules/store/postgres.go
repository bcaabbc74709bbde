package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/wegmans2/internal/errs"
	"github.com/jmoiron/sqlx"
)

const storeColumns = `id, street, city, state, zip, opentime, closetime`

const (
	storeByIDQuery = `SELECT ` + storeColumns + ` FROM store WHERE id = $1`

	storesByStateQuery = `SELECT ` + storeColumns + ` FROM store WHERE state = $1 ORDER BY id`

	storesByHoursQuery = `SELECT ` + storeColumns + ` FROM store
		WHERE opentime >= $1 AND closetime <= $2 ORDER BY id`

	storesByProductQuery = `SELECT ` + storeColumns + ` FROM store
		WHERE id IN (SELECT soldby.storeid FROM soldby
		             JOIN product ON product.upc = soldby.productid
		             WHERE product.name = $1)
		ORDER BY id`
)

type postgresRepo struct{ db sqlx.QueryerContext }

// NewPostgresRepository creates a store repository over db.
func NewPostgresRepository(db sqlx.QueryerContext) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Store, error) {
	s := &Store{}
	err := sqlx.GetContext(ctx, r.db, s, storeByIDQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store %s: %w", id, errs.ErrNoSuchStore)
	}
	if err != nil {
		return nil, errs.Storage("storeByID", err)
	}
	return s, nil
}

func (r *postgresRepo) ListByState(ctx context.Context, state string) ([]*Store, error) {
	return r.list(ctx, "storesByState", storesByStateQuery, state)
}

func (r *postgresRepo) ListByHours(ctx context.Context, open, close int) ([]*Store, error) {
	return r.list(ctx, "storesByHours", storesByHoursQuery, open, close)
}

func (r *postgresRepo) ListByProductName(ctx context.Context, name string) ([]*Store, error) {
	return r.list(ctx, "storesByProduct", storesByProductQuery, name)
}

func (r *postgresRepo) list(ctx context.Context, queryID, query string, args ...interface{}) ([]*Store, error) {
	var stores []*Store
	if err := sqlx.SelectContext(ctx, r.db, &stores, query, args...); err != nil {
		return nil, errs.Storage(queryID, err)
	}
	return stores, nil
}
