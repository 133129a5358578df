package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v73/github"

	"github.com/reviewloop/reviewloop/internal/config"
	"github.com/reviewloop/reviewloop/internal/core"
)

const (
	eventTypePing        = "ping"
	eventTypePullRequest = "pull_request"

	actionOpened      = "opened"
	actionSynchronize = "synchronize"
)

// webhookResponse is the JSON body returned for accepted, ignored, and
// processed deliveries. Orchestration failures are reported here too; the
// webhook sender never sees a 5xx for a downstream failure.
type webhookResponse struct {
	Message        string `json:"message"`
	PRNumber       int    `json:"pr_number,omitempty"`
	Repo           string `json:"repo,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// errorResponse is the JSON body for transport-adjacent failures, the only
// ones that produce a non-200 status.
type errorResponse struct {
	Detail string `json:"detail"`
}

// WebhookHandler processes incoming webhooks from GitHub: it verifies the
// payload signature, classifies the event, applies the repository
// allow-list, and drives the review orchestrator for qualifying deliveries.
type WebhookHandler struct {
	cfg      *config.Config
	reviewer core.Reviewer
	logger   *slog.Logger
}

// NewWebhookHandler creates a new webhook handler with the given
// configuration and review orchestrator.
func NewWebhookHandler(cfg *config.Config, reviewer core.Reviewer, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		cfg:      cfg,
		reviewer: reviewer,
		logger:   logger,
	}
}

// Handle processes one GitHub webhook delivery.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("failed to read webhook body", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Invalid JSON payload"})
		return
	}

	eventType := r.Header.Get("X-GitHub-Event")
	if eventType == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Missing X-GitHub-Event header"})
		return
	}

	// The signature covers the raw bytes and is checked before anything in
	// the payload is trusted.
	if signature := r.Header.Get("X-Hub-Signature-256"); h.cfg.WebhookSecret != "" && signature != "" {
		if !VerifySignature(payload, signature, h.cfg.WebhookSecret) {
			h.logger.Warn("invalid webhook signature", "event", eventType)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: "Invalid signature"})
			return
		}
	}

	if !json.Valid(payload) {
		h.logger.Error("invalid JSON payload in webhook", "event", eventType)
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Invalid JSON payload"})
		return
	}

	switch eventType {
	case eventTypePing:
		writeJSON(w, http.StatusOK, webhookResponse{Message: "Webhook received successfully"})

	case eventTypePullRequest:
		parsed, err := github.ParseWebHook(eventType, payload)
		if err != nil {
			h.logger.Error("could not parse pull_request payload", "error", err)
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Invalid JSON payload"})
			return
		}
		h.handlePullRequest(r.Context(), w, parsed.(*github.PullRequestEvent))

	default:
		h.logger.Info("unhandled GitHub event", "event", eventType)
		writeJSON(w, http.StatusOK, webhookResponse{Message: fmt.Sprintf("Event type %s not handled", eventType)})
	}
}

// handlePullRequest routes a pull_request delivery: only opened and
// synchronize actions on allow-listed repositories reach the orchestrator.
func (h *WebhookHandler) handlePullRequest(ctx context.Context, w http.ResponseWriter, prEvent *github.PullRequestEvent) {
	action := prEvent.GetAction()
	if action != actionOpened && action != actionSynchronize {
		writeJSON(w, http.StatusOK, webhookResponse{Message: fmt.Sprintf("PR action %s not handled", action)})
		return
	}

	repoName := prEvent.GetRepo().GetFullName()
	if !h.cfg.IsRepoAllowed(repoName) {
		// Repositories outside the configured set are a normal case, not a failure.
		h.logger.Info("repository not in allowed list", "repo", repoName)
		writeJSON(w, http.StatusOK, webhookResponse{Message: fmt.Sprintf("Repository %s not configured for PR reviews", repoName)})
		return
	}

	event, err := core.EventFromPullRequest(prEvent)
	if err != nil {
		h.logger.Error("malformed pull_request payload", "repo", repoName, "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Invalid pull_request payload"})
		return
	}

	h.logger.Info("processing pull request", "pr", event.Ref.String(), "action", action, "title", event.Title)

	outcome, err := h.reviewer.ReviewPullRequest(ctx, event)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateDelivery) {
			writeJSON(w, http.StatusOK, webhookResponse{
				Message:  "PR review already in progress",
				PRNumber: event.Ref.Number,
				Repo:     repoName,
			})
			return
		}
		h.logger.Error("error processing PR review", "pr", event.Ref.String(), "error", err)
		writeJSON(w, http.StatusOK, webhookResponse{
			Message:  fmt.Sprintf("Error processing PR review: %v", err),
			PRNumber: event.Ref.Number,
			Repo:     repoName,
		})
		return
	}

	writeJSON(w, http.StatusOK, webhookResponse{
		Message:        "PR review initiated",
		PRNumber:       event.Ref.Number,
		Repo:           repoName,
		ConversationID: outcome.ConversationID,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
