package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/georgemunganga/wegmans2/internal/database"
	"github.com/georgemunganga/wegmans2/internal/errs"
	"github.com/georgemunganga/wegmans2/internal/modules/sales"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// decrementStockQuery only matches while enough stock remains, which
// serializes concurrent checkouts on the soldby row.
const decrementStockQuery = `
	UPDATE soldby SET numberinstock = numberinstock - $3
	WHERE storeid = $1 AND productid = $2 AND numberinstock >= $3
`

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL checkout repository.
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Checkout(ctx context.Context, storeID string, lines []Line, soldAt time.Time) ([]*sales.Order, error) {
	var orders []*sales.Order
	err := database.Transact(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, l := range lines {
			res, err := tx.ExecContext(ctx, decrementStockQuery, storeID, l.Product.UPC, l.Quantity)
			if err != nil {
				return errs.Storage("decrementStock", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return errs.Storage("decrementStock", err)
			}
			if n == 0 {
				return fmt.Errorf("%s x%d at store %s: %w", l.Product.Name, l.Quantity, storeID, errs.ErrInsufficientStock)
			}

			o := &sales.Order{
				ID:         uuid.New(),
				Product:    l.Product.UPC,
				Store:      storeID,
				NumberSold: l.Quantity,
				SoldAt:     soldAt,
			}
			if err := sales.InsertOrder(ctx, tx, o); err != nil {
				return err
			}
			orders = append(orders, o)
		}
		return nil
	})
	if err != nil {
		return nil, errs.Storage("checkout", err)
	}
	return orders, nil
}
