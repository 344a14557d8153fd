package inventory

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_fetcher.go -package=mocks inventory-chat/internal/inventory Fetcher

import (
	"context"
	"errors"
	"fmt"
)

// ErrFetch is wrapped by every error returned from a Fetcher implementation.
var ErrFetch = errors.New("inventory fetch failed")

// Fetcher returns the products the prompt is grounded on.
// Current implementations return every row of a single table; a ranked or filtered
// retrieval can replace them without touching the prompt composer or the renderer.
type Fetcher interface {
	FetchProducts(ctx context.Context) ([]Product, error)
}

// FetchOrEmpty runs f and falls back to an empty inventory when it fails.
// The returned slice is never nil. The error, if any, is wrapped with ErrFetch so callers
// can still tell a failed fetch apart from an empty table.
func FetchOrEmpty(ctx context.Context, f Fetcher) ([]Product, error) {
	products, err := f.FetchProducts(ctx)
	if err != nil {
		if !errors.Is(err, ErrFetch) {
			err = fmt.Errorf("%w: %w", ErrFetch, err)
		}
		return []Product{}, err
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}
