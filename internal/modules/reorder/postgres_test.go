package reorder

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/georgemunganga/wegmans2/internal/database"
	"github.com/georgemunganga/wegmans2/internal/errs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reorderCols = []string{"ordernumber", "product", "store", "stockrequested", "deliverydate", "fulfilledby"}

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestFulfillRestocksAndMarksRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	today := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE ordernumber = $1 AND deliverydate IS NULL FOR UPDATE")).
		WithArgs("12345678").
		WillReturnRows(sqlmock.NewRows(reorderCols).AddRow("12345678", "00002", "S1", 5, nil, nil))
	mock.ExpectQuery(regexp.QuoteMeta("JOIN product p ON d.brand = p.brand")).
		WithArgs("00002").
		WillReturnRows(sqlmock.NewRows([]string{"vendor"}).AddRow("Acme"))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (storeid, productid)")).
		WithArgs("S1", "00002", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(markFulfilledQuery)).
		WithArgs(today, "Acme", "12345678").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	f, err := repo.Fulfill(context.Background(), "12345678", today)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "Acme", f.Vendor)
	assert.Equal(t, 5, f.Restocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFulfillSkipsDeliveredRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WillReturnRows(sqlmock.NewRows(reorderCols))
	mock.ExpectCommit()

	f, err := repo.Fulfill(context.Background(), "12345678", time.Now())
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFulfillRollsBackWithoutVendor(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows(reorderCols).AddRow("12345678", "00009", "S1", 5, nil, nil))
	mock.ExpectQuery(regexp.QuoteMeta("FROM distributedby d")).
		WillReturnRows(sqlmock.NewRows([]string{"vendor"}))
	mock.ExpectRollback()

	_, err := repo.Fulfill(context.Background(), "12345678", time.Now())
	assert.ErrorIs(t, err, errs.ErrNotDistributed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertReportsDuplicateNumber(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(insertReorderQuery)).
		WithArgs("12345678", "00002", "S1", 5).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

	err := repo.Insert(context.Background(), &Reorder{OrderNumber: "12345678", Product: "00002", Store: "S1", StockRequested: 5})
	assert.True(t, database.IsUniqueViolation(err))
	var se *errs.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "insertReorder", se.Query)
}

func TestListUnfulfilled(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM reorder WHERE deliverydate IS NULL ORDER BY ordernumber")).
		WillReturnRows(sqlmock.NewRows(reorderCols).
			AddRow("11111111", "00001", "S1", 2, nil, nil).
			AddRow("22222222", "00002", "S1", 5, nil, nil))
	mock.ExpectQuery(regexp.QuoteMeta(orderNumbersQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"ordernumber"}).AddRow("11111111").AddRow("22222222"))

	pending, err := repo.ListUnfulfilled(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.False(t, pending[0].Fulfilled())

	numbers, err := repo.ListOrderNumbers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"11111111", "22222222"}, numbers)
}
