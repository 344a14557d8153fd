package handlers

import (
	"bytes"
	"html/template"
	"net/http"

	"inventory-chat/internal/contextutil"
	"inventory-chat/internal/service"
	"inventory-chat/internal/session"
)

// Page copy.
const (
	PageTitle    = "Makers Tech Inventory ChatBot"
	PageSubtitle = "Ask me anything about our products, prices, or stock!"
	ChatPrompt   = "What are you looking for?"
)

// PageHandler serves the chat page with the current session's scrollback rendered server-side.
type PageHandler struct {
	chatService service.ChatService
	markdown    *MarkdownRenderer
	template    *template.Template
}

// pageData holds template data for the chat page.
type pageData struct {
	Title      string
	Subtitle   string
	ChatPrompt string
	Turns      []pageTurn
	Notice     string
}

type pageTurn struct {
	Role    string
	Content template.HTML
}

// NewPageHandler creates a new PageHandler from the page template source.
// It panics if src does not parse.
func NewPageHandler(chatService service.ChatService, markdown *MarkdownRenderer, src string) *PageHandler {
	return &PageHandler{
		chatService: chatService,
		markdown:    markdown,
		template:    template.Must(template.New("index").Parse(src)),
	}
}

// ServeHTTP renders the chat page.
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	data := pageData{
		Title:      PageTitle,
		Subtitle:   PageSubtitle,
		ChatPrompt: ChatPrompt,
	}

	turns, err := h.chatService.History(ctx, contextutil.SessionIDFromContext(ctx))
	if err != nil {
		logger.WarnContext(ctx, "failed to load scrollback", "error", err)
		data.Notice = "Previous messages could not be loaded."
	}
	for _, t := range turns {
		data.Turns = append(data.Turns, h.pageTurn(t))
	}

	// Render into a buffer so a template error never leaves a half-written page.
	var buf bytes.Buffer
	if err := h.template.Execute(&buf, data); err != nil {
		logger.ErrorContext(ctx, "failed to execute page template", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *PageHandler) pageTurn(t session.Turn) pageTurn {
	if t.Role == session.RoleAssistant {
		return pageTurn{Role: t.Role, Content: h.markdown.RenderOrEscape(t.Content)}
	}
	return pageTurn{Role: t.Role, Content: template.HTML(template.HTMLEscapeString(t.Content))}
}
