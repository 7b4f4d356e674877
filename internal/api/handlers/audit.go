package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/sgd-labs/docintel/internal/api"
	"github.com/sgd-labs/docintel/internal/domain"
)

// AuditStore persists and lists audit records.
type AuditStore interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	List(ctx context.Context, limit int) ([]*domain.AuditLog, error)
}

// AuditRecorder writes audit entries for handler actions. Writes are best
// effort: failures are logged and swallowed so they never fail the request.
type AuditRecorder struct {
	store AuditStore
}

func NewAuditRecorder(store AuditStore) *AuditRecorder {
	return &AuditRecorder{store: store}
}

func (a *AuditRecorder) Record(r *http.Request, action, resourceID string, details map[string]any) {
	if a == nil || a.store == nil {
		return
	}

	entry := &domain.AuditLog{
		Action:       action,
		ResourceType: "document",
		ResourceID:   resourceID,
		Details:      details,
		IPAddress:    r.RemoteAddr,
		UserAgent:    r.UserAgent(),
		CreatedAt:    time.Now().UTC(),
	}

	if err := a.store.Create(r.Context(), entry); err != nil {
		log.Printf("audit write failed for action %s: %v", action, err)
	}
}

type AuditHandler struct {
	store AuditStore
}

func NewAuditHandler(store AuditStore) *AuditHandler {
	return &AuditHandler{store: store}
}

type AuditLogResponse struct {
	ID           string         `json:"id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	IPAddress    string         `json:"ip_address,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`
	CreatedAt    string         `json:"created_at"`
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			api.Error(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = parsed
	}

	entries, err := h.store.List(r.Context(), limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	items := make([]*AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, &AuditLogResponse{
			ID:           entry.ID,
			Action:       entry.Action,
			ResourceType: entry.ResourceType,
			ResourceID:   entry.ResourceID,
			Details:      entry.Details,
			IPAddress:    entry.IPAddress,
			UserAgent:    entry.UserAgent,
			CreatedAt:    entry.CreatedAt.Format(time.RFC3339),
		})
	}

	api.Success(w, http.StatusOK, items)
}
