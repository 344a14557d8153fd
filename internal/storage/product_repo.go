package storage

import (
	"context"
	"database/sql"
	"fmt"

	"inventory-chat/internal/inventory"
)

// ProductRepo reads the inventory table through database/sql.
// It implements inventory.Fetcher for both the SQLite and PostgreSQL sources.
type ProductRepo struct {
	db    *sql.DB
	table string
}

// NewProductRepo creates a new ProductRepo for the given table.
func NewProductRepo(db *sql.DB, table string) *ProductRepo {
	return &ProductRepo{db: db, table: table}
}

var _ inventory.Fetcher = (*ProductRepo)(nil)

// FetchProducts returns every row of the table. Row order is whatever the database returns.
func (r *ProductRepo) FetchProducts(ctx context.Context) ([]inventory.Product, error) {
	query := fmt.Sprintf("SELECT name, description, price, stock_count FROM %s", QuoteIdentifier(r.table))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query %s: %w", inventory.ErrFetch, r.table, err)
	}
	defer rows.Close()

	products := []inventory.Product{}
	for rows.Next() {
		var p inventory.Product
		if err := rows.Scan(&p.Name, &p.Description, &p.Price, &p.StockCount); err != nil {
			return nil, fmt.Errorf("%w: failed to scan product: %w", inventory.ErrFetch, err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read products: %w", inventory.ErrFetch, err)
	}

	return products, nil
}

// Ping checks the database connection.
func (r *ProductRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// SeedProducts inserts products into a SQLite table created by Migrate.
// All rows are inserted in one transaction.
func SeedProducts(ctx context.Context, db *sql.DB, table string, products []inventory.Product) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (name, description, price, stock_count) VALUES (?, ?, ?, ?)",
		QuoteIdentifier(table),
	))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		if _, err := stmt.ExecContext(ctx, p.Name, p.Description, p.Price, p.StockCount); err != nil {
			return fmt.Errorf("failed to insert product %q: %w", p.Name, err)
		}
	}

	return tx.Commit()
}
