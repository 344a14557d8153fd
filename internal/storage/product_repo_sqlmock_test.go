package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-chat/internal/inventory"
)

const selectAll = `SELECT name, description, price, stock_count FROM "Product Data"`

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestProductRepo_Sqlmock_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	rows := sqlmock.NewRows([]string{"name", "description", "price", "stock_count"}).
		AddRow("Laptop X", "14-inch ultrabook", "999", 5).
		AddRow("Tablet", "10-inch", 249.5, 0)
	mock.ExpectQuery(selectAll).WillReturnRows(rows)

	products, err := NewProductRepo(db, "Product Data").FetchProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []inventory.Product{
		{Name: "Laptop X", Description: "14-inch ultrabook", Price: 999, StockCount: 5},
		{Name: "Tablet", Description: "10-inch", Price: 249.5, StockCount: 0},
	}, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_Sqlmock_QueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(selectAll).WillReturnError(errors.New("connection reset by peer"))

	products, err := NewProductRepo(db, "Product Data").FetchProducts(context.Background())
	assert.Nil(t, products)
	assert.ErrorIs(t, err, inventory.ErrFetch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_Sqlmock_NullColumn(t *testing.T) {
	db, mock := setupMockDB(t)
	rows := sqlmock.NewRows([]string{"name", "description", "price", "stock_count"}).
		AddRow("Laptop X", nil, 999, 5)
	mock.ExpectQuery(selectAll).WillReturnRows(rows)

	_, err := NewProductRepo(db, "Product Data").FetchProducts(context.Background())
	assert.ErrorIs(t, err, inventory.ErrFetch)
}

func TestProductRepo_Sqlmock_RowError(t *testing.T) {
	db, mock := setupMockDB(t)
	rows := sqlmock.NewRows([]string{"name", "description", "price", "stock_count"}).
		AddRow("Laptop X", "14-inch ultrabook", 999, 5).
		RowError(0, errors.New("stream interrupted"))
	mock.ExpectQuery(selectAll).WillReturnRows(rows)

	_, err := NewProductRepo(db, "Product Data").FetchProducts(context.Background())
	assert.ErrorIs(t, err, inventory.ErrFetch)
}
