package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sgd-labs/docintel/internal/domain"
	"github.com/sgd-labs/docintel/internal/rag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Chat(ctx context.Context, input rag.ChatInput) (*domain.ChatAnswer, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatAnswer), args.Error(1)
}

func TestChatHandler_Chat_Success(t *testing.T) {
	mockSvc := new(MockChatService)
	mockAudit := new(MockAuditStore)
	handler := NewChatHandler(mockSvc, NewAuditRecorder(mockAudit))

	answer := &domain.ChatAnswer{
		Answer: "The contract expires in June.",
		Sources: []domain.ChatSource{
			{DocumentID: "doc-1", Title: "Contract", Excerpt: "The term ends...", Relevance: 0.92},
		},
		Confidence:     0.2,
		ConversationID: "conv-1",
		Timestamp:      time.Now().UTC(),
	}
	mockSvc.On("Chat", mock.Anything, rag.ChatInput{Query: "When does the contract expire?"}).
		Return(answer, nil)
	mockAudit.On("Create", mock.Anything, mock.MatchedBy(func(entry *domain.AuditLog) bool {
		return entry.Action == domain.AuditActionChat && entry.Details["sources"] == 1
	})).Return(nil)

	body := `{"query":"When does the contract expire?"}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Chat(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "The contract expires in June.", data["response"])
	assert.Equal(t, "conv-1", data["conversation_id"])
	assert.Len(t, data["sources"], 1)
	mockSvc.AssertExpectations(t)
	mockAudit.AssertExpectations(t)
}

func TestChatHandler_Chat_DocumentScoped(t *testing.T) {
	mockSvc := new(MockChatService)
	handler := NewChatHandler(mockSvc, nil)

	answer := &domain.ChatAnswer{Answer: "Yes.", ConversationID: "conv-2", Timestamp: time.Now().UTC()}
	mockSvc.On("Chat", mock.Anything, rag.ChatInput{Query: "Is it signed?", DocumentID: "doc-9", ContextLimit: 3}).
		Return(answer, nil)

	body := `{"query":"Is it signed?","document_id":"doc-9","context_limit":3}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Chat(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestChatHandler_Chat_EmptyQuery(t *testing.T) {
	mockSvc := new(MockChatService)
	handler := NewChatHandler(mockSvc, nil)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"query":"  "}`))
	w := httptest.NewRecorder()

	handler.Chat(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything)
}

func TestChatHandler_Chat_InvalidJSON(t *testing.T) {
	handler := NewChatHandler(new(MockChatService), nil)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{invalid`))
	w := httptest.NewRecorder()

	handler.Chat(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatHandler_Chat_ServiceFailure(t *testing.T) {
	mockSvc := new(MockChatService)
	handler := NewChatHandler(mockSvc, nil)

	mockSvc.On("Chat", mock.Anything, mock.Anything).Return(nil, domain.ErrEmptyQuery)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"query":"hello"}`))
	w := httptest.NewRecorder()

	handler.Chat(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
