// Command seed loads products from a JSON file into the local SQLite inventory,
// so the chat server can run with INVENTORY_SOURCE=sqlite and no hosted database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"inventory-chat/internal/inventory"
	"inventory-chat/internal/storage"
)

func main() {
	file := flag.String("file", "", "JSON file holding an array of {name, description, price, stock_count}")
	dbPath := flag.String("db", "./data/inventory.db", "SQLite database path")
	table := flag.String("table", "Product Data", "inventory table name")
	flag.Parse()

	if *file == "" {
		log.Fatalf("Usage: seed -file products.json [-db path] [-table name]")
	}

	products, err := readProducts(*file)
	if err != nil {
		log.Fatalf("Failed to read products: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	db, err := storage.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db, *table); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := storage.SeedProducts(context.Background(), db, *table, products); err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}
	slog.Info("Seeded inventory", "path", *dbPath, "table", *table, "products", len(products))
}

func readProducts(path string) ([]inventory.Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var products []inventory.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return products, nil
}
