package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"inventory-chat/internal/contextutil"
	"inventory-chat/internal/service"
)

// Notices shown next to a reply for each kind of recovered failure.
const (
	NoticeFetch      = "Error connecting to the database."
	NoticeGeneration = "Error generating AI response."
)

// ChatHandler handles HTTP requests for chat.
type ChatHandler struct {
	chatService service.ChatService
	markdown    *MarkdownRenderer
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService, markdown *MarkdownRenderer) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		markdown:    markdown,
	}
}

// ChatRequest represents the HTTP request payload for chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// TurnResponse represents the HTTP response payload for a chat or one-shot turn.
type TurnResponse struct {
	Reply        string   `json:"reply"`
	ReplyHTML    string   `json:"reply_html"`
	Failures     []string `json:"failures,omitempty"`
	Notices      []string `json:"notices,omitempty"`
	ProductCount int      `json:"product_count"`
}

// streamSummary is the final SSE event of a streamed turn.
type streamSummary struct {
	Done         bool     `json:"done"`
	ReplyHTML    string   `json:"reply_html"`
	Failures     []string `json:"failures,omitempty"`
	Notices      []string `json:"notices,omitempty"`
	ProductCount int      `json:"product_count"`
}

// ServeHTTP handles HTTP requests for chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svcReq := service.ChatRequest{
		SessionID: contextutil.SessionIDFromContext(ctx),
		Message:   req.Message,
	}

	if r.URL.Query().Get("stream") == "true" {
		h.handleStreamingChat(ctx, w, svcReq)
		return
	}

	svcResp, err := h.chatService.ProcessChat(ctx, svcReq)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to process chat request")
		return
	}

	writeJSON(ctx, w, http.StatusOK, h.turnResponse(svcResp))
}

// handleStreamingChat handles streaming chat requests using Server-Sent Events.
// Each chunk is sent as a JSON-encoded string so newlines survive the SSE framing.
func (h *ChatHandler) handleStreamingChat(ctx context.Context, w http.ResponseWriter, req service.ChatRequest) {
	logger := contextutil.LoggerFromContext(ctx)

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.ErrorContext(ctx, "streaming not supported by response writer")
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	// Headers are only committed once the first chunk arrives, so a validation error
	// can still be reported as a normal JSON response.
	started := false
	start := func() {
		if started {
			return
		}
		started = true
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
	}

	svcResp, err := h.chatService.StreamChat(ctx, req, func(chunk string) error {
		start()
		encoded, err := json.Marshal(chunk)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", encoded); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})

	if err != nil {
		if !started {
			handleServiceError(ctx, w, err, "Failed to process chat request")
			return
		}
		logger.ErrorContext(ctx, "error streaming chat", "error", err)
		return
	}

	start()
	turn := h.turnResponse(svcResp)
	summary, _ := json.Marshal(streamSummary{
		Done:         true,
		ReplyHTML:    turn.ReplyHTML,
		Failures:     turn.Failures,
		Notices:      turn.Notices,
		ProductCount: turn.ProductCount,
	})
	_, _ = fmt.Fprintf(w, "data: %s\n\n", summary)
	_, _ = fmt.Fprintf(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func (h *ChatHandler) turnResponse(resp service.ChatResponse) TurnResponse {
	return newTurnResponse(resp, h.markdown)
}

func newTurnResponse(resp service.ChatResponse, markdown *MarkdownRenderer) TurnResponse {
	out := TurnResponse{
		Reply:        resp.Reply,
		ReplyHTML:    string(markdown.RenderOrEscape(resp.Reply)),
		ProductCount: resp.ProductCount,
	}
	for _, kind := range resp.Failures {
		out.Failures = append(out.Failures, string(kind))
		if notice := noticeFor(kind); notice != "" {
			out.Notices = append(out.Notices, notice)
		}
	}
	return out
}

func noticeFor(kind service.FailureKind) string {
	switch kind {
	case service.FailureFetch:
		return NoticeFetch
	case service.FailureGeneration:
		return NoticeGeneration
	default:
		return ""
	}
}
