package handlers

import (
	"net/http"
	"time"

	"inventory-chat/internal/contextutil"
	"inventory-chat/internal/service"
	"inventory-chat/internal/session"
)

// HistoryHandler lists and clears the current session's conversation log.
type HistoryHandler struct {
	chatService service.ChatService
	markdown    *MarkdownRenderer
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(chatService service.ChatService, markdown *MarkdownRenderer) *HistoryHandler {
	return &HistoryHandler{
		chatService: chatService,
		markdown:    markdown,
	}
}

// TurnView is one logged message as returned by the API.
type TurnView struct {
	Role        string `json:"role"`
	Content     string `json:"content"`
	ContentHTML string `json:"content_html,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// HistoryResponse represents the HTTP response payload for the history endpoint.
type HistoryResponse struct {
	Turns []TurnView `json:"turns"`
}

// ServeHTTP handles GET (list) and DELETE (clear) requests.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	sessionID := contextutil.SessionIDFromContext(ctx)

	switch r.Method {
	case http.MethodGet:
		turns, err := h.chatService.History(ctx, sessionID)
		if err != nil {
			handleServiceError(ctx, w, err, "Failed to load history")
			return
		}
		writeJSON(ctx, w, http.StatusOK, HistoryResponse{Turns: h.views(turns)})
	case http.MethodDelete:
		if err := h.chatService.Reset(ctx, sessionID); err != nil {
			handleServiceError(ctx, w, err, "Failed to clear history")
			return
		}
		logger.InfoContext(ctx, "session cleared")
		w.WriteHeader(http.StatusNoContent)
	default:
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *HistoryHandler) views(turns []session.Turn) []TurnView {
	views := make([]TurnView, 0, len(turns))
	for _, t := range turns {
		v := TurnView{
			Role:      t.Role,
			Content:   t.Content,
			CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
		}
		if t.Role == session.RoleAssistant {
			v.ContentHTML = string(h.markdown.RenderOrEscape(t.Content))
		}
		views = append(views, v)
	}
	return views
}
