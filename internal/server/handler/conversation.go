package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reviewloop/reviewloop/internal/core"
	"github.com/reviewloop/reviewloop/internal/storage"
)

// reviewCompletedRequest is the body the conversation engine delivers when a
// review is finished.
type reviewCompletedRequest struct {
	ReviewText string `json:"review_text"`
}

// ConversationHandler receives finished-review callbacks from the
// conversation engine and hands them to the publish pipeline. This is the
// asynchronous half of the review protocol; it is connected to the webhook
// half only by the conversation id.
type ConversationHandler struct {
	dispatcher core.JobDispatcher
	store      storage.Store
	logger     *slog.Logger
}

// NewConversationHandler creates a new conversation callback handler.
func NewConversationHandler(dispatcher core.JobDispatcher, store storage.Store, logger *slog.Logger) *ConversationHandler {
	return &ConversationHandler{
		dispatcher: dispatcher,
		store:      store,
		logger:     logger,
	}
}

// HandleReviewCompleted queues publication of a finished review.
func (h *ConversationHandler) HandleReviewCompleted(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	var req reviewCompletedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Invalid JSON payload"})
		return
	}
	if req.ReviewText == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "review_text is required"})
		return
	}

	if _, err := h.store.GetCycleByConversationID(r.Context(), conversationID); err != nil {
		if errors.Is(err, storage.ErrCycleNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Detail: "Unknown conversation"})
			return
		}
		h.logger.Error("failed to look up review cycle", "conversation_id", conversationID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "Failed to look up conversation"})
		return
	}

	event := &core.PublishEvent{ConversationID: conversationID, ReviewText: req.ReviewText}
	if err := h.dispatcher.Dispatch(r.Context(), event); err != nil {
		h.logger.Error("failed to dispatch publish job", "conversation_id", conversationID, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Detail: "Failed to queue review publication"})
		return
	}

	h.logger.Info("publish job dispatched", "conversation_id", conversationID)
	writeJSON(w, http.StatusAccepted, webhookResponse{
		Message:        "Review publication queued",
		ConversationID: conversationID,
	})
}
