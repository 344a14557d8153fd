package handlers

import (
	"encoding/json"
	"net/http"

	"inventory-chat/internal/contextutil"
	"inventory-chat/internal/service"
)

// AskHandler handles one-shot questions. Nothing is recorded in the session log.
type AskHandler struct {
	chatService service.ChatService
	markdown    *MarkdownRenderer
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(chatService service.ChatService, markdown *MarkdownRenderer) *AskHandler {
	return &AskHandler{
		chatService: chatService,
		markdown:    markdown,
	}
}

// AskRequest represents the HTTP request payload for a one-shot question.
type AskRequest struct {
	Question string `json:"question"`
}

// ServeHTTP handles HTTP requests for one-shot questions.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svcResp, err := h.chatService.Ask(ctx, service.AskRequest{Question: req.Question})
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to answer question")
		return
	}

	writeJSON(ctx, w, http.StatusOK, newTurnResponse(svcResp, h.markdown))
}
