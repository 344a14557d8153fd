package inventory_test

import (
	"context"
	"errors"
	"testing"

	"inventory-chat/internal/inventory"
	"inventory-chat/internal/inventory/mocks"

	"go.uber.org/mock/gomock"
)

func TestFetchOrEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	laptop := inventory.Product{Name: "Laptop X", Description: "14-inch ultrabook", Price: 999, StockCount: 5}

	tests := []struct {
		name      string
		mockSetup func(*mocks.MockFetcher)
		wantLen   int
		wantErr   bool
	}{
		{
			name: "returns fetched products",
			mockSetup: func(m *mocks.MockFetcher) {
				m.EXPECT().FetchProducts(gomock.Any()).Return([]inventory.Product{laptop}, nil)
			},
			wantLen: 1,
		},
		{
			name: "nil result becomes empty slice",
			mockSetup: func(m *mocks.MockFetcher) {
				m.EXPECT().FetchProducts(gomock.Any()).Return(nil, nil)
			},
			wantLen: 0,
		},
		{
			name: "plain error is swallowed into empty inventory",
			mockSetup: func(m *mocks.MockFetcher) {
				m.EXPECT().FetchProducts(gomock.Any()).Return(nil, errors.New("connection refused"))
			},
			wantLen: 0,
			wantErr: true,
		},
		{
			name: "partial rows are discarded on error",
			mockSetup: func(m *mocks.MockFetcher) {
				m.EXPECT().FetchProducts(gomock.Any()).Return([]inventory.Product{laptop}, errors.New("row 2: bad price"))
			},
			wantLen: 0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := mocks.NewMockFetcher(ctrl)
			tt.mockSetup(fetcher)

			products, err := inventory.FetchOrEmpty(context.Background(), fetcher)

			if products == nil {
				t.Fatal("FetchOrEmpty() returned nil slice")
			}
			if len(products) != tt.wantLen {
				t.Errorf("FetchOrEmpty() len = %d, want %d", len(products), tt.wantLen)
			}
			if tt.wantErr {
				if !errors.Is(err, inventory.ErrFetch) {
					t.Errorf("FetchOrEmpty() error = %v, want wrapped ErrFetch", err)
				}
			} else if err != nil {
				t.Errorf("FetchOrEmpty() unexpected error: %v", err)
			}
		})
	}
}
