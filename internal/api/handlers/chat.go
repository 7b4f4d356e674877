package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sgd-labs/docintel/internal/api"
	"github.com/sgd-labs/docintel/internal/domain"
	"github.com/sgd-labs/docintel/internal/rag"
)

// ChatService answers questions over the document index.
type ChatService interface {
	Chat(ctx context.Context, input rag.ChatInput) (*domain.ChatAnswer, error)
}

type ChatHandler struct {
	svc   ChatService
	audit *AuditRecorder
}

func NewChatHandler(svc ChatService, audit *AuditRecorder) *ChatHandler {
	return &ChatHandler{svc: svc, audit: audit}
}

type ChatRequest struct {
	Query        string `json:"query"`
	DocumentID   string `json:"document_id,omitempty"`
	ContextLimit int    `json:"context_limit,omitempty"`
}

type ChatResponse struct {
	Response       string              `json:"response"`
	Sources        []domain.ChatSource `json:"sources"`
	Confidence     float64             `json:"confidence"`
	ConversationID string              `json:"conversation_id"`
	Timestamp      string              `json:"timestamp"`
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		api.Error(w, http.StatusBadRequest, "query is required")
		return
	}

	answer, err := h.svc.Chat(r.Context(), rag.ChatInput{
		Query:        req.Query,
		DocumentID:   req.DocumentID,
		ContextLimit: req.ContextLimit,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	h.audit.Record(r, domain.AuditActionChat, req.DocumentID, map[string]any{
		"query":           req.Query,
		"conversation_id": answer.ConversationID,
		"sources":         len(answer.Sources),
	})

	api.Success(w, http.StatusOK, ChatResponse{
		Response:       answer.Answer,
		Sources:        answer.Sources,
		Confidence:     answer.Confidence,
		ConversationID: answer.ConversationID,
		Timestamp:      answer.Timestamp.Format(time.RFC3339),
	})
}
