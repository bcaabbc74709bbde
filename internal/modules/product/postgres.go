package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/wegmans2/internal/errs"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const productColumns = `product.upc, product.name, product.brand, product.type, product.price`

const inStore = `SELECT ` + productColumns + ` FROM product
	JOIN soldby ON soldby.productid = product.upc
	WHERE soldby.storeid = $1`

const (
	productsByNameQuery = `SELECT ` + productColumns + ` FROM product WHERE name = $1 ORDER BY upc`
	productByUPCQuery   = `SELECT ` + productColumns + ` FROM product WHERE upc = $1`

	inStoreByNameQuery         = inStore + ` AND product.name = $2 ORDER BY product.name ASC, product.upc ASC`
	inStoreByPriceQuery        = inStore + ` AND product.price > $2 AND product.price < $3 ORDER BY product.name ASC, product.upc ASC`
	inStoreByPriceAndTypeQuery = inStore + ` AND product.price > $2 AND product.price < $3 AND product.type = $4 ORDER BY product.name ASC, product.upc ASC`
	inStoreByBrandQuery        = inStore + ` AND product.brand = $2 ORDER BY product.name ASC, product.upc ASC`
	inStoreByTypeQuery         = inStore + ` AND product.type = $2 ORDER BY product.name ASC, product.upc ASC`
	allInStoreQuery            = inStore + ` ORDER BY product.name ASC, product.upc ASC`

	stockLevelQuery = `SELECT numberinstock FROM soldby WHERE storeid = $1 AND productid = $2`

	updatePriceByUPCQuery  = `UPDATE product SET price = $1 WHERE upc = $2`
	updatePriceByNameQuery = `UPDATE product SET price = $1 WHERE name = $2`
)

type postgresRepo struct{ db sqlx.ExtContext }

// NewPostgresRepository creates a product repository over db.
func NewPostgresRepository(db sqlx.ExtContext) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) ListByName(ctx context.Context, name string) ([]*Product, error) {
	return r.list(ctx, "productsByName", productsByNameQuery, name)
}

func (r *postgresRepo) GetByUPC(ctx context.Context, upc string) (*Product, error) {
	p := &Product{}
	err := sqlx.GetContext(ctx, r.db, p, productByUPCQuery, upc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("upc %s: %w", upc, errs.ErrNoSuchProduct)
	}
	if err != nil {
		return nil, errs.Storage("productByUPC", err)
	}
	return p, nil
}

func (r *postgresRepo) ListInStoreByName(ctx context.Context, storeID, name string) ([]*Product, error) {
	return r.list(ctx, "inStoreByName", inStoreByNameQuery, storeID, name)
}

func (r *postgresRepo) ListInStoreByPrice(ctx context.Context, storeID string, low, high decimal.Decimal) ([]*Product, error) {
	return r.list(ctx, "inStoreByPrice", inStoreByPriceQuery, storeID, low, high)
}

func (r *postgresRepo) ListInStoreByPriceAndType(ctx context.Context, storeID string, low, high decimal.Decimal, typ string) ([]*Product, error) {
	return r.list(ctx, "inStoreByPriceAndType", inStoreByPriceAndTypeQuery, storeID, low, high, typ)
}

func (r *postgresRepo) ListInStoreByBrand(ctx context.Context, storeID, brand string) ([]*Product, error) {
	return r.list(ctx, "inStoreByBrand", inStoreByBrandQuery, storeID, brand)
}

func (r *postgresRepo) ListInStoreByType(ctx context.Context, storeID, typ string) ([]*Product, error) {
	return r.list(ctx, "inStoreByType", inStoreByTypeQuery, storeID, typ)
}

func (r *postgresRepo) ListInStore(ctx context.Context, storeID string) ([]*Product, error) {
	return r.list(ctx, "allInStore", allInStoreQuery, storeID)
}

func (r *postgresRepo) StockLevel(ctx context.Context, storeID, upc string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.db, &n, stockLevelQuery, storeID, upc)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("store %s does not carry %s: %w", storeID, upc, errs.ErrNoSuchProduct)
	}
	if err != nil {
		return 0, errs.Storage("stockLevel", err)
	}
	return n, nil
}

func (r *postgresRepo) UpdatePriceByUPC(ctx context.Context, upc string, price decimal.Decimal) (int64, error) {
	return r.exec(ctx, "updatePriceByUPC", updatePriceByUPCQuery, price, upc)
}

func (r *postgresRepo) UpdatePriceByName(ctx context.Context, name string, price decimal.Decimal) (int64, error) {
	return r.exec(ctx, "updatePriceByName", updatePriceByNameQuery, price, name)
}

func (r *postgresRepo) list(ctx context.Context, queryID, query string, args ...interface{}) ([]*Product, error) {
	var products []*Product
	if err := sqlx.SelectContext(ctx, r.db, &products, query, args...); err != nil {
		return nil, errs.Storage(queryID, err)
	}
	return products, nil
}

func (r *postgresRepo) exec(ctx context.Context, queryID, query string, args ...interface{}) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errs.Storage(queryID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errs.Storage(queryID, err)
	}
	return n, nil
}
