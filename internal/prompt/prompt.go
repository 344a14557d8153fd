// Package prompt builds the single text payload sent to the generation model.
package prompt

import (
	"strings"

	"inventory-chat/internal/inventory"
)

const header = `You are a friendly and expert AI assistant for "Makers Tech", a technology ecommerce company.
Your role is to answer user questions about our products based *only* on the inventory data provided below.
If the information is not in the data, politely state that you don't have that information.

Here is the current inventory:
`

// Compose embeds every product line, in input order, and the question into the instruction template.
// Neither the products nor the question are escaped or truncated.
func Compose(question string, products []inventory.Product) string {
	var b strings.Builder
	b.WriteString(header)
	for _, p := range products {
		b.WriteString(p.Line())
		b.WriteString("\n")
	}
	b.WriteString("---\n")
	b.WriteString("User question: ")
	b.WriteString(question)
	b.WriteString("\n")
	return b.String()
}
