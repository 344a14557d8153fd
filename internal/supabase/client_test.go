package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory-chat/internal/inventory"
)

func TestNewClient(t *testing.T) {
	client := NewClient("https://abc.supabase.co/", "anon-key")
	if client.BaseURL != "https://abc.supabase.co" {
		t.Errorf("NewClient() BaseURL = %v, want trailing slash trimmed", client.BaseURL)
	}
	if client.APIKey != "anon-key" {
		t.Errorf("NewClient() APIKey = %v, want anon-key", client.APIKey)
	}
	if client.client == nil {
		t.Error("NewClient() client should not be nil")
	}
}

func TestClient_SelectAll(t *testing.T) {
	tests := []struct {
		name       string
		serverResp func(w http.ResponseWriter, r *http.Request)
		want       []inventory.Product
		wantErr    bool
	}{
		{
			name: "all rows",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.EscapedPath() != "/rest/v1/Product%20Data" {
					t.Errorf("unexpected path %s", r.URL.EscapedPath())
				}
				if r.URL.Query().Get("select") != "*" {
					t.Errorf("select = %q, want *", r.URL.Query().Get("select"))
				}
				if r.Header.Get("apikey") != "anon-key" {
					t.Error("missing apikey header")
				}
				if r.Header.Get("Authorization") != "Bearer anon-key" {
					t.Error("missing Authorization header")
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`[
					{"id":1,"name":"Laptop X","description":"14-inch ultrabook","price":999,"stock_count":5},
					{"id":2,"name":"Mouse","description":"wireless","price":19.99,"stock_count":40}
				]`))
			},
			want: []inventory.Product{
				{Name: "Laptop X", Description: "14-inch ultrabook", Price: 999, StockCount: 5},
				{Name: "Mouse", Description: "wireless", Price: 19.99, StockCount: 40},
			},
		},
		{
			name: "empty table",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`[]`))
			},
			want: []inventory.Product{},
		},
		{
			name: "incomplete rows are skipped",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`[
					{"name":"Laptop X","description":"14-inch ultrabook","price":999,"stock_count":5},
					{"name":"Ghost","description":null,"price":1,"stock_count":1},
					{"name":"NoPrice","description":"x","stock_count":1}
				]`))
			},
			want: []inventory.Product{
				{Name: "Laptop X", Description: "14-inch ultrabook", Price: 999, StockCount: 5},
			},
		},
		{
			name: "unknown table",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"code":"42P01","message":"relation does not exist"}`))
			},
			wantErr: true,
		},
		{
			name: "bad key",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			wantErr: true,
		},
		{
			name: "malformed body",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"not":"an array"}`))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			client := NewClient(server.URL, "anon-key")
			got, err := client.SelectAll(context.Background(), "Product Data")

			if tt.wantErr {
				if !errors.Is(err, inventory.ErrFetch) {
					t.Errorf("SelectAll() error = %v, want wrapped inventory.ErrFetch", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SelectAll() unexpected error: %v", err)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("SelectAll() returned %d products, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("SelectAll()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestClient_SelectAll_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := NewClient(server.URL, "anon-key").SelectAll(context.Background(), "Product Data")
	if !errors.Is(err, inventory.ErrFetch) {
		t.Errorf("SelectAll() error = %v, want wrapped inventory.ErrFetch", err)
	}
}

func TestProductSource(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.RawQuery)
		_, _ = w.Write([]byte(`[{"name":"Laptop X","description":"14-inch ultrabook","price":999,"stock_count":5}]`))
	}))
	defer server.Close()

	source := NewProductSource(NewClient(server.URL, "anon-key"), "Product Data")

	products, err := source.FetchProducts(context.Background())
	if err != nil {
		t.Fatalf("FetchProducts() error = %v", err)
	}
	if len(products) != 1 || products[0].Line() != "- Laptop X: 14-inch ultrabook ($999, 5 in stock)" {
		t.Errorf("FetchProducts() = %+v", products)
	}

	if err := source.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if len(paths) != 2 || paths[1] != "limit=1&select=name" {
		t.Errorf("Ping() query = %v, want limit=1&select=name", paths)
	}
}
