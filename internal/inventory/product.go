package inventory

import (
	"fmt"
	"strconv"
)

// Product is one row of the inventory table.
type Product struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	StockCount  int     `json:"stock_count"`
}

// Line renders the product as a single inventory line for the prompt.
// The price keeps its shortest exact decimal form, so 999 prints as "999" and 12.5 as "12.5".
func (p Product) Line() string {
	return fmt.Sprintf("- %s: %s ($%s, %d in stock)",
		p.Name, p.Description, strconv.FormatFloat(p.Price, 'f', -1, 64), p.StockCount)
}
