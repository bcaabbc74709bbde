package reorder

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/georgemunganga/wegmans2/internal/database"
	"github.com/georgemunganga/wegmans2/internal/errs"
	"github.com/georgemunganga/wegmans2/internal/modules/vendor"
	"github.com/jmoiron/sqlx"
)

const reorderColumns = `ordernumber, product, store, stockrequested, deliverydate, fulfilledby`

const (
	orderNumbersQuery    = `SELECT ordernumber FROM reorder`
	insertReorderQuery   = `INSERT INTO reorder (ordernumber, product, store, stockrequested) VALUES ($1, $2, $3, $4)`
	unfulfilledQuery     = `SELECT ` + reorderColumns + ` FROM reorder WHERE deliverydate IS NULL ORDER BY ordernumber`
	lockUnfulfilledQuery = `SELECT ` + reorderColumns + ` FROM reorder WHERE ordernumber = $1 AND deliverydate IS NULL FOR UPDATE`

	restockQuery = `
		INSERT INTO soldby (storeid, productid, numberinstock) VALUES ($1, $2, $3)
		ON CONFLICT (storeid, productid)
		DO UPDATE SET numberinstock = soldby.numberinstock + EXCLUDED.numberinstock
	`

	markFulfilledQuery = `UPDATE reorder SET deliverydate = $1, fulfilledby = $2 WHERE ordernumber = $3 AND deliverydate IS NULL`
)

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL reorder repository.
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) ListOrderNumbers(ctx context.Context) ([]string, error) {
	var numbers []string
	if err := sqlx.SelectContext(ctx, r.db, &numbers, orderNumbersQuery); err != nil {
		return nil, errs.Storage("orderNumbers", err)
	}
	return numbers, nil
}

func (r *postgresRepository) Insert(ctx context.Context, ro *Reorder) error {
	_, err := r.db.ExecContext(ctx, insertReorderQuery, ro.OrderNumber, ro.Product, ro.Store, ro.StockRequested)
	return errs.Storage("insertReorder", err)
}

func (r *postgresRepository) ListUnfulfilled(ctx context.Context) ([]*Reorder, error) {
	var out []*Reorder
	if err := sqlx.SelectContext(ctx, r.db, &out, unfulfilledQuery); err != nil {
		return nil, errs.Storage("unfulfilled", err)
	}
	return out, nil
}

func (r *postgresRepository) Fulfill(ctx context.Context, orderNumber string, deliveryDate time.Time) (*Fulfillment, error) {
	var f *Fulfillment
	err := database.Transact(ctx, r.db, func(tx *sqlx.Tx) error {
		ro := &Reorder{}
		err := sqlx.GetContext(ctx, tx, ro, lockUnfulfilledQuery, orderNumber)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return errs.Storage("lockUnfulfilled", err)
		}

		v, err := vendor.NewPostgresRepository(tx).VendorForProduct(ctx, ro.Product)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, restockQuery, ro.Store, ro.Product, ro.StockRequested); err != nil {
			return errs.Storage("restock", err)
		}
		if _, err := tx.ExecContext(ctx, markFulfilledQuery, deliveryDate, v, orderNumber); err != nil {
			return errs.Storage("markFulfilled", err)
		}

		f = &Fulfillment{
			OrderNumber:  ro.OrderNumber,
			Product:      ro.Product,
			Store:        ro.Store,
			Restocked:    ro.StockRequested,
			Vendor:       v,
			DeliveryDate: deliveryDate,
		}
		return nil
	})
	if err != nil {
		return nil, errs.Storage("fulfill", err)
	}
	return f, nil
}
