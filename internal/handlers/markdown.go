package handlers

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// MarkdownRenderer turns assistant replies into HTML. Raw HTML inside a reply is
// dropped, so model output can never inject markup into the page.
type MarkdownRenderer struct {
	md goldmark.Markdown
}

// NewMarkdownRenderer creates a renderer with GitHub-flavored extensions.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
}

// Render converts content to HTML.
func (m *MarkdownRenderer) Render(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// RenderOrEscape renders content, falling back to the escaped plain text.
func (m *MarkdownRenderer) RenderOrEscape(content string) template.HTML {
	out, err := m.Render(content)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(content))
	}
	return out
}
