// Package supabase reads inventory rows through a Supabase project's PostgREST endpoint.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"inventory-chat/internal/contextutil"
	"inventory-chat/internal/inventory"
)

// Client is a minimal PostgREST client authenticated with a project API key.
type Client struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

// NewClient creates a new Client for the project at baseURL (e.g. https://xyz.supabase.co).
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		client:  &http.Client{},
	}
}

// row mirrors a product row. Pointers tell a missing column apart from a zero value.
type row struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	StockCount  *int     `json:"stock_count"`
}

// SelectAll returns every row of table. Rows missing one of the four product columns
// are skipped and logged.
func (c *Client) SelectAll(ctx context.Context, table string) ([]inventory.Product, error) {
	var rows []row
	if err := c.get(ctx, table, url.Values{"select": {"*"}}, &rows); err != nil {
		return nil, err
	}

	logger := contextutil.LoggerFromContext(ctx)
	products := make([]inventory.Product, 0, len(rows))
	for i, r := range rows {
		if r.Name == nil || r.Description == nil || r.Price == nil || r.StockCount == nil {
			logger.WarnContext(ctx, "skipping incomplete product row", "table", table, "row", i)
			continue
		}
		products = append(products, inventory.Product{
			Name:        *r.Name,
			Description: *r.Description,
			Price:       *r.Price,
			StockCount:  *r.StockCount,
		})
	}
	return products, nil
}

// Ping reads at most one row of table to check the URL, key and table name.
func (c *Client) Ping(ctx context.Context, table string) error {
	var rows []json.RawMessage
	return c.get(ctx, table, url.Values{"select": {"name"}, "limit": {"1"}}, &rows)
}

func (c *Client) get(ctx context.Context, table string, query url.Values, out any) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.BaseURL, url.PathEscape(table), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", inventory.ErrFetch, err)
	}
	req.Header.Set("apikey", c.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to send request: %w", inventory.ErrFetch, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: bad status %d: %s", inventory.ErrFetch, resp.StatusCode, string(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", inventory.ErrFetch, err)
	}
	return nil
}

// ProductSource adapts a Client to inventory.Fetcher for one table.
type ProductSource struct {
	client *Client
	table  string
}

// NewProductSource creates a new ProductSource.
func NewProductSource(client *Client, table string) *ProductSource {
	return &ProductSource{client: client, table: table}
}

var _ inventory.Fetcher = (*ProductSource)(nil)

// FetchProducts returns every row of the configured table.
func (s *ProductSource) FetchProducts(ctx context.Context) ([]inventory.Product, error) {
	return s.client.SelectAll(ctx, s.table)
}

// Ping checks that the configured table is readable.
func (s *ProductSource) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, s.table)
}
