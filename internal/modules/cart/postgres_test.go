package cart

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/georgemunganga/wegmans2/internal/errs"
	"github.com/georgemunganga/wegmans2/internal/modules/product"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	decrement   = regexp.QuoteMeta("UPDATE soldby SET numberinstock = numberinstock - $3 WHERE storeid = $1 AND productid = $2 AND numberinstock >= $3")
	insertOrder = regexp.QuoteMeta("INSERT INTO orders (id, product, store, numbersold, soldat)")
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func testLines() []Line {
	return []Line{
		{Product: product.Product{UPC: "00001", Name: "P1", Price: decimal.RequireFromString("2.50")}, Quantity: 3},
		{Product: product.Product{UPC: "00003", Name: "P3", Price: decimal.RequireFromString("1.00")}, Quantity: 1},
	}
}

func TestCheckoutCommits(t *testing.T) {
	repo, mock := newMockRepo(t)
	soldAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(decrement).WithArgs("S1", "00001", 3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertOrder).WithArgs(sqlmock.AnyArg(), "00001", "S1", 3, soldAt).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(decrement).WithArgs("S1", "00003", 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertOrder).WithArgs(sqlmock.AnyArg(), "00003", "S1", 1, soldAt).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	orders, err := repo.Checkout(context.Background(), "S1", testLines(), soldAt)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "00001", orders[0].Product)
	assert.Equal(t, 3, orders[0].NumberSold)
	assert.NotEqual(t, orders[0].ID, orders[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutRollsBackOnShortStock(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(decrement).WithArgs("S1", "00001", 3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertOrder).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(decrement).WithArgs("S1", "00003", 1).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	orders, err := repo.Checkout(context.Background(), "S1", testLines(), time.Now())
	assert.ErrorIs(t, err, errs.ErrInsufficientStock)
	assert.Nil(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutRollsBackOnStorageError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(decrement).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertOrder).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.Checkout(context.Background(), "S1", testLines(), time.Now())
	var se *errs.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "insertOrder", se.Query)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutCommitFailure(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(decrement).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertOrder).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	_, err := repo.Checkout(context.Background(), "S1", testLines()[:1], time.Now())
	var se *errs.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "checkout", se.Query)
}
