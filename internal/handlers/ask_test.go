package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory-chat/internal/service"
	"inventory-chat/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

func TestAskHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		body          any
		mockSetup     func(*mocks.MockChatService)
		wantStatus    int
		checkResponse func(TurnResponse) bool
	}{
		{
			name:   "successful question",
			method: http.MethodPost,
			body:   AskRequest{Question: "How much is Laptop X?"},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					Ask(gomock.Any(), service.AskRequest{Question: "How much is Laptop X?"}).
					Return(service.ChatResponse{Reply: "It costs $999.", ProductCount: 2}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(resp TurnResponse) bool {
				return resp.Reply == "It costs $999." && resp.ReplyHTML == "<p>It costs $999.</p>\n" && resp.ProductCount == 2
			},
		},
		{
			name:   "generation failure still answers",
			method: http.MethodPost,
			body:   AskRequest{Question: "Hello"},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					Ask(gomock.Any(), gomock.Any()).
					Return(service.ChatResponse{Reply: service.FallbackReply, Failures: []service.FailureKind{service.FailureGeneration}}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(resp TurnResponse) bool {
				return resp.Reply == service.FallbackReply && len(resp.Notices) == 1 && resp.Notices[0] == NoticeGeneration
			},
		},
		{
			name:       "method not allowed",
			method:     http.MethodGet,
			mockSetup:  func(m *mocks.MockChatService) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "invalid JSON body",
			method:     http.MethodPost,
			body:       "{",
			mockSetup:  func(m *mocks.MockChatService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "empty question",
			method: http.MethodPost,
			body:   AskRequest{},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					Ask(gomock.Any(), service.AskRequest{}).
					Return(service.ChatResponse{}, &service.ValidationError{Field: "question", Message: "cannot be empty"})
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "unexpected error",
			method: http.MethodPost,
			body:   AskRequest{Question: "Hello"},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().Ask(gomock.Any(), gomock.Any()).Return(service.ChatResponse{}, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockChatService := mocks.NewMockChatService(ctrl)
			tt.mockSetup(mockChatService)
			handler := NewAskHandler(mockChatService, NewMarkdownRenderer())

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, newRequest(tt.method, "/api/ask", tt.body))

			if w.Code != tt.wantStatus {
				t.Errorf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.checkResponse == nil {
				return
			}
			var resp TurnResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if !tt.checkResponse(resp) {
				t.Errorf("ServeHTTP() response check failed: %+v", resp)
			}
		})
	}
}
