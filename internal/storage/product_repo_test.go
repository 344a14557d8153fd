package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"inventory-chat/internal/inventory"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func TestProductRepo_FetchProducts(t *testing.T) {
	db := openTestDB(t)
	if err := Migrate(db, "Product Data"); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	want := []inventory.Product{
		{Name: "Laptop X", Description: "14-inch ultrabook", Price: 999, StockCount: 5},
		{Name: "Mouse", Description: "wireless", Price: 19.99, StockCount: 40},
	}
	if err := SeedProducts(context.Background(), db, "Product Data", want); err != nil {
		t.Fatalf("SeedProducts() error = %v", err)
	}

	repo := NewProductRepo(db, "Product Data")
	got, err := repo.FetchProducts(context.Background())
	if err != nil {
		t.Fatalf("FetchProducts() error = %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("FetchProducts() returned %d products, want %d", len(got), len(want))
	}

	byName := make(map[string]inventory.Product)
	for _, p := range got {
		byName[p.Name] = p
	}
	for _, w := range want {
		if byName[w.Name] != w {
			t.Errorf("FetchProducts() product %q = %+v, want %+v", w.Name, byName[w.Name], w)
		}
	}
}

func TestProductRepo_FetchProducts_EmptyTable(t *testing.T) {
	db := openTestDB(t)
	if err := Migrate(db, "Product Data"); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	got, err := NewProductRepo(db, "Product Data").FetchProducts(context.Background())
	if err != nil {
		t.Fatalf("FetchProducts() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("FetchProducts() = %v, want empty non-nil slice", got)
	}
}

func TestProductRepo_FetchProducts_MissingTable(t *testing.T) {
	db := openTestDB(t)

	_, err := NewProductRepo(db, "Product Data").FetchProducts(context.Background())
	if !errors.Is(err, inventory.ErrFetch) {
		t.Errorf("FetchProducts() error = %v, want wrapped inventory.ErrFetch", err)
	}
}

func TestProductRepo_Ping(t *testing.T) {
	db := openTestDB(t)
	if err := NewProductRepo(db, "Product Data").Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestSeedProducts_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)

	err := SeedProducts(context.Background(), db, "missing", []inventory.Product{{Name: "x"}})
	if err == nil {
		t.Fatal("SeedProducts() expected error for missing table, got nil")
	}
}
