package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks inventory-chat/internal/service LLMClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService inventory-chat/internal/service ChatService

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inventory-chat/internal/contextutil"
	"inventory-chat/internal/inventory"
	"inventory-chat/internal/metrics"
	"inventory-chat/internal/prompt"
	"inventory-chat/internal/session"
)

// LLMClient is an interface for interacting with the generation model.
// This interface is defined from the service layer's perspective (consumer-first).
type LLMClient interface {
	// Generate sends a prompt to the model and returns the generated text.
	Generate(ctx context.Context, prompt string) (string, error)
	// StreamGenerate sends a prompt to the model and streams the text via callback.
	StreamGenerate(ctx context.Context, prompt string, callback func(chunk string) error) error
}

// ChatRequest represents a chat turn in the domain layer.
type ChatRequest struct {
	SessionID string
	Message   string
}

// AskRequest represents a one-shot question that is not recorded in any session.
type AskRequest struct {
	Question string
}

// ChatResponse represents the outcome of one turn.
// Failures lists, in the order they happened, the failures the turn recovered from.
type ChatResponse struct {
	Reply        string
	Failures     []FailureKind
	ProductCount int
}

// Failed reports whether kind occurred during the turn.
func (r ChatResponse) Failed(kind FailureKind) bool {
	for _, f := range r.Failures {
		if f == kind {
			return true
		}
	}
	return false
}

// ChatService provides the question-answering pipeline.
type ChatService interface {
	// ProcessChat answers a chat turn and records it in the session log.
	ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error)
	// Ask answers a single question without touching any session log.
	Ask(ctx context.Context, req AskRequest) (ChatResponse, error)
	// StreamChat answers a chat turn, streaming the reply via callback, and records it.
	StreamChat(ctx context.Context, req ChatRequest, callback func(chunk string) error) (ChatResponse, error)
	// History returns the session's turns in order.
	History(ctx context.Context, sessionID string) ([]session.Turn, error)
	// Reset ends the session and drops its log.
	Reset(ctx context.Context, sessionID string) error
}

// chatService implements ChatService.
type chatService struct {
	fetcher   inventory.Fetcher
	llmClient LLMClient
	sessions  session.Store
}

// NewChatService creates a new ChatService.
func NewChatService(fetcher inventory.Fetcher, llmClient LLMClient, sessions session.Store) ChatService {
	return &chatService{
		fetcher:   fetcher,
		llmClient: llmClient,
		sessions:  sessions,
	}
}

// ProcessChat processes a chat request.
func (s *chatService) ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := validateChat(req); err != nil {
		logger.WarnContext(ctx, "invalid chat request", "error", err)
		return ChatResponse{}, err
	}

	composed, resp := s.compose(ctx, req.Message)

	start := time.Now()
	reply, err := s.llmClient.Generate(ctx, composed)
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		logger.ErrorContext(ctx, "error generating AI response", "error", err)
		reply = FallbackReply
		resp.fail(FailureGeneration)
	}
	resp.Reply = reply

	s.record(ctx, req, reply)
	metrics.ChatTurns.WithLabelValues(metrics.VariantChat).Inc()

	logger.InfoContext(ctx, "chat turn answered",
		"message_length", len(req.Message),
		"reply_length", len(reply),
		"products", resp.ProductCount,
		"failures", resp.Failures,
	)
	return resp, nil
}

// Ask processes a one-shot question.
func (s *chatService) Ask(ctx context.Context, req AskRequest) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(req.Question) == "" {
		logger.WarnContext(ctx, "empty question in ask request")
		return ChatResponse{}, &ValidationError{Field: "question", Message: "cannot be empty"}
	}

	composed, resp := s.compose(ctx, req.Question)

	start := time.Now()
	reply, err := s.llmClient.Generate(ctx, composed)
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		logger.ErrorContext(ctx, "error generating AI response", "error", err)
		reply = FallbackReply
		resp.fail(FailureGeneration)
	}
	resp.Reply = reply

	metrics.ChatTurns.WithLabelValues(metrics.VariantOneShot).Inc()
	logger.InfoContext(ctx, "question answered", "question_length", len(req.Question), "reply_length", len(reply))
	return resp, nil
}

// StreamChat processes a chat request and streams the reply.
// If the model fails before sending anything, the fallback reply is streamed instead.
// If it fails part way, the fallback is appended after the partial text.
func (s *chatService) StreamChat(ctx context.Context, req ChatRequest, callback func(chunk string) error) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := validateChat(req); err != nil {
		logger.WarnContext(ctx, "invalid streaming chat request", "error", err)
		return ChatResponse{}, err
	}

	composed, resp := s.compose(ctx, req.Message)

	var (
		reply       strings.Builder
		callbackErr error
	)
	start := time.Now()
	err := s.llmClient.StreamGenerate(ctx, composed, func(chunk string) error {
		if err := callback(chunk); err != nil {
			callbackErr = err
			return err
		}
		reply.WriteString(chunk)
		return nil
	})
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())

	if callbackErr != nil {
		logger.WarnContext(ctx, "client stopped receiving stream", "error", callbackErr)
		return ChatResponse{}, WrapError(callbackErr, "failed to write reply chunk")
	}

	if err != nil {
		logger.ErrorContext(ctx, "error streaming AI response", "error", err)
		resp.fail(FailureGeneration)
		fallback := FallbackReply
		if reply.Len() > 0 {
			fallback = "\n\n" + FallbackReply
		}
		if cbErr := callback(fallback); cbErr != nil {
			return ChatResponse{}, WrapError(cbErr, "failed to write fallback reply")
		}
		reply.WriteString(fallback)
	}
	resp.Reply = reply.String()

	s.record(ctx, req, resp.Reply)
	metrics.ChatTurns.WithLabelValues(metrics.VariantStream).Inc()

	logger.InfoContext(ctx, "streaming chat turn answered", "message_length", len(req.Message), "reply_length", reply.Len())
	return resp, nil
}

// History returns the session's turns.
func (s *chatService) History(ctx context.Context, sessionID string) ([]session.Turn, error) {
	if sessionID == "" {
		return nil, &ValidationError{Field: "session_id", Message: "cannot be empty"}
	}
	turns, err := s.sessions.List(ctx, sessionID)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to load session history", "error", err)
		return nil, fmt.Errorf("%w: failed to load history: %w", ErrExternalService, err)
	}
	return turns, nil
}

// Reset drops the session's log.
func (s *chatService) Reset(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return &ValidationError{Field: "session_id", Message: "cannot be empty"}
	}
	if err := s.sessions.Clear(ctx, sessionID); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to clear session", "error", err)
		return fmt.Errorf("%w: failed to clear session: %w", ErrExternalService, err)
	}
	return nil
}

// compose fetches a fresh inventory snapshot and builds the prompt for question.
// A failed fetch is recorded on the response and the prompt is built from an empty inventory.
func (s *chatService) compose(ctx context.Context, question string) (string, ChatResponse) {
	logger := contextutil.LoggerFromContext(ctx)
	var resp ChatResponse

	start := time.Now()
	products, err := inventory.FetchOrEmpty(ctx, s.fetcher)
	metrics.InventoryFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		logger.ErrorContext(ctx, "error connecting to the database", "error", err)
		resp.fail(FailureFetch)
	} else {
		metrics.InventoryProducts.Set(float64(len(products)))
	}
	resp.ProductCount = len(products)

	composed := prompt.Compose(question, products)
	logger.DebugContext(ctx, "prompt composed", "products", len(products), "prompt_length", len(composed))
	return composed, resp
}

// record appends the question and reply to the session log. The log is display-only,
// so a failure here is logged and does not fail the turn.
func (s *chatService) record(ctx context.Context, req ChatRequest, reply string) {
	err := s.sessions.Append(ctx, req.SessionID, session.UserTurn(req.Message), session.AssistantTurn(reply))
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to record turn", "session_id", req.SessionID, "error", err)
	}
}

func (r *ChatResponse) fail(kind FailureKind) {
	r.Failures = append(r.Failures, kind)
	metrics.ChatFailures.WithLabelValues(string(kind)).Inc()
}

func validateChat(req ChatRequest) error {
	if strings.TrimSpace(req.Message) == "" {
		return &ValidationError{Field: "message", Message: "cannot be empty"}
	}
	if req.SessionID == "" {
		return &ValidationError{Field: "session_id", Message: "cannot be empty"}
	}
	return nil
}
