package sales

import (
	"context"

	"github.com/georgemunganga/wegmans2/internal/errs"
	"github.com/jmoiron/sqlx"
)

const (
	unitsSelect   = `SELECT o.product AS upc, p.name, SUM(o.numbersold) AS total`
	revenueSelect = `SELECT o.product AS upc, p.name, SUM(o.numbersold * p.price) AS total`
	rankFrom      = ` FROM orders o JOIN product p ON p.upc = o.product`
	rankAllStores = ``
	rankOneStore  = ` WHERE o.store = $1`
	rankGroup     = ` GROUP BY o.product, p.name`
	rankDesc      = ` ORDER BY total DESC, o.product ASC LIMIT 3`
	rankAsc       = ` ORDER BY total ASC, o.product ASC LIMIT 3`

	unitsAllDescQuery     = unitsSelect + rankFrom + rankAllStores + rankGroup + rankDesc
	unitsAllAscQuery      = unitsSelect + rankFrom + rankAllStores + rankGroup + rankAsc
	unitsStoreDescQuery   = unitsSelect + rankFrom + rankOneStore + rankGroup + rankDesc
	unitsStoreAscQuery    = unitsSelect + rankFrom + rankOneStore + rankGroup + rankAsc
	revenueAllDescQuery   = revenueSelect + rankFrom + rankAllStores + rankGroup + rankDesc
	revenueAllAscQuery    = revenueSelect + rankFrom + rankAllStores + rankGroup + rankAsc
	revenueStoreDescQuery = revenueSelect + rankFrom + rankOneStore + rankGroup + rankDesc
	revenueStoreAscQuery  = revenueSelect + rankFrom + rankOneStore + rankGroup + rankAsc

	insertOrderQuery = `INSERT INTO orders (id, product, store, numbersold, soldat) VALUES ($1, $2, $3, $4, $5)`
)

type rankKey struct {
	metric  Metric
	byStore bool
	desc    bool
}

type rankQuery struct{ id, text string }

var rankQueries = map[rankKey]rankQuery{
	{Units, false, true}:    {"unitsAllDesc", unitsAllDescQuery},
	{Units, false, false}:   {"unitsAllAsc", unitsAllAscQuery},
	{Units, true, true}:     {"unitsStoreDesc", unitsStoreDescQuery},
	{Units, true, false}:    {"unitsStoreAsc", unitsStoreAscQuery},
	{Revenue, false, true}:  {"revenueAllDesc", revenueAllDescQuery},
	{Revenue, false, false}: {"revenueAllAsc", revenueAllAscQuery},
	{Revenue, true, true}:   {"revenueStoreDesc", revenueStoreDescQuery},
	{Revenue, true, false}:  {"revenueStoreAsc", revenueStoreAscQuery},
}

type postgresRepository struct {
	db sqlx.QueryerContext
}

// NewPostgresRepository creates a new PostgreSQL sales repository.
func NewPostgresRepository(db sqlx.QueryerContext) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) RankUnits(ctx context.Context, storeID string, desc bool) ([]*Ranked, error) {
	return r.rank(ctx, rankKey{Units, storeID != "", desc}, storeID)
}

func (r *postgresRepository) RankRevenue(ctx context.Context, storeID string, desc bool) ([]*Ranked, error) {
	return r.rank(ctx, rankKey{Revenue, storeID != "", desc}, storeID)
}

func (r *postgresRepository) rank(ctx context.Context, key rankKey, storeID string) ([]*Ranked, error) {
	q := rankQueries[key]
	var args []interface{}
	if key.byStore {
		args = append(args, storeID)
	}
	var out []*Ranked
	if err := sqlx.SelectContext(ctx, r.db, &out, q.text, args...); err != nil {
		return nil, errs.Storage(q.id, err)
	}
	return out, nil
}

// InsertOrder appends a sale row through db, which is normally the
// checkout transaction.
func InsertOrder(ctx context.Context, db sqlx.ExecerContext, o *Order) error {
	_, err := db.ExecContext(ctx, insertOrderQuery, o.ID, o.Product, o.Store, o.NumberSold, o.SoldAt)
	return errs.Storage("insertOrder", err)
}
