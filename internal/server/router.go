package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sgd-labs/docintel/internal/api/handlers"
	"github.com/sgd-labs/docintel/internal/api/middleware"
)

type RouterConfig struct {
	AuthValidator   middleware.KeyValidator
	MaxBodyBytes    int64
	DocumentHandler *handlers.DocumentHandler
	ChatHandler     *handlers.ChatHandler
	AnalyzeHandler  *handlers.AnalyzeHandler
	AuditHandler    *handlers.AuditHandler
	HealthHandler   *handlers.HealthHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = 50 * 1024 * 1024
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", cfg.HealthHandler.Health)

	r.Group(func(r chi.Router) {
		if cfg.AuthValidator != nil {
			r.Use(middleware.APIKeyAuth(cfg.AuthValidator))
		}

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", cfg.DocumentHandler.Upload)
			r.Get("/", cfg.DocumentHandler.List)
			r.Get("/{id}", cfg.DocumentHandler.Get)
			r.Get("/{id}/download", cfg.DocumentHandler.Download)
			r.Delete("/{id}", cfg.DocumentHandler.Delete)
			r.Post("/{id}/process", cfg.DocumentHandler.Process)
		})

		r.Post("/chat", cfg.ChatHandler.Chat)
		r.Post("/analyze", cfg.AnalyzeHandler.Analyze)
		r.Get("/audit", cfg.AuditHandler.List)
	})

	return r
}
