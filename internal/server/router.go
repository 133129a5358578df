package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/reviewloop/reviewloop/internal/config"
	"github.com/reviewloop/reviewloop/internal/core"
	"github.com/reviewloop/reviewloop/internal/server/handler"
	"github.com/reviewloop/reviewloop/internal/storage"
)

// NewRouter creates and configures a new HTTP router with middleware and API routes.
func NewRouter(cfg *config.Config, reviewer core.Reviewer, dispatcher core.JobDispatcher, store storage.Store, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Configure middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Matches the server's write timeout; a webhook request carries a full
	// synchronous review cycle.
	r.Use(middleware.Timeout(120 * time.Second))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		webhookHandler := handler.NewWebhookHandler(cfg, reviewer, logger)
		r.Post("/webhooks/github", webhookHandler.Handle)

		conversationHandler := handler.NewConversationHandler(dispatcher, store, logger)
		r.Post("/conversations/{conversationID}/review", conversationHandler.HandleReviewCompleted)
	})

	return r
}
