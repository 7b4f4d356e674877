package handlers

import (
	"context"
	"net/http"

	"github.com/sgd-labs/docintel/internal/api"
)

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports readiness of the service's components.
type HealthHandler struct {
	db         Pinger
	hasStorage bool
	hasOpenAI  bool
	hasTika    bool
}

func NewHealthHandler(db Pinger, hasStorage, hasOpenAI, hasTika bool) *HealthHandler {
	return &HealthHandler{db: db, hasStorage: hasStorage, hasOpenAI: hasOpenAI, hasTika: hasTika}
}

type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	components := map[string]string{
		"database": "up",
		"storage":  configured(h.hasStorage),
		"models":   configured(h.hasOpenAI),
		"parser":   configured(h.hasTika),
	}

	status := "healthy"
	code := http.StatusOK

	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			components["database"] = "down"
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
	}

	api.JSON(w, code, HealthResponse{Status: status, Components: components})
}

func configured(ok bool) string {
	if ok {
		return "up"
	}
	return "not_configured"
}
