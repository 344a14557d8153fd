package inventory

import "testing"

func TestProduct_Line(t *testing.T) {
	tests := []struct {
		name    string
		product Product
		want    string
	}{
		{
			name:    "whole price",
			product: Product{Name: "Laptop X", Description: "14-inch ultrabook", Price: 999, StockCount: 5},
			want:    "- Laptop X: 14-inch ultrabook ($999, 5 in stock)",
		},
		{
			name:    "fractional price is not rounded",
			product: Product{Name: "Cable", Description: "USB-C, 1m", Price: 12.345, StockCount: 120},
			want:    "- Cable: USB-C, 1m ($12.345, 120 in stock)",
		},
		{
			name:    "out of stock",
			product: Product{Name: "Phone Z", Description: "flagship", Price: 1299.99, StockCount: 0},
			want:    "- Phone Z: flagship ($1299.99, 0 in stock)",
		},
		{
			name:    "large price has no thousands separator",
			product: Product{Name: "Server", Description: "rack", Price: 25000, StockCount: 1},
			want:    "- Server: rack ($25000, 1 in stock)",
		},
		{
			name:    "empty fields",
			product: Product{},
			want:    "- :  ($0, 0 in stock)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.product.Line(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}
