package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/reviewloop/reviewloop/internal/config"
	"github.com/reviewloop/reviewloop/internal/core"
	"github.com/reviewloop/reviewloop/internal/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pullRequestPayload(action, repoFullName string, number int) []byte {
	payload := map[string]any{
		"action": action,
		"number": number,
		"pull_request": map[string]any{
			"number": number,
			"title":  "Add retry logic",
			"body":   "Retries transient failures.",
			"head":   map[string]any{"ref": "feature/retry", "sha": "abc123"},
			"base":   map[string]any{"ref": "main"},
			"user":   map[string]any{"login": "octocat"},
			"html_url": "https://github.com/acme/widgets/pull/7",
		},
		"repository": map[string]any{"full_name": repoFullName},
	}
	raw, _ := json.Marshal(payload)
	return raw
}

func postWebhook(t *testing.T, h *WebhookHandler, eventType string, body []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/github", bytes.NewReader(body))
	req.Header.Set("X-GitHub-Event", eventType)
	if signature != "" {
		req.Header.Set("X-Hub-Signature-256", signature)
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandlePing(t *testing.T) {
	ctrl := gomock.NewController(t)
	reviewer := mocks.NewMockReviewer(ctrl)
	h := NewWebhookHandler(&config.Config{}, reviewer, testLogger())

	rec := postWebhook(t, h, "ping", []byte(`{"zen":"Keep it simple."}`), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Webhook received successfully", decodeBody(t, rec)["message"])
}

func TestHandleUnknownEventType(t *testing.T) {
	ctrl := gomock.NewController(t)
	reviewer := mocks.NewMockReviewer(ctrl)
	h := NewWebhookHandler(&config.Config{}, reviewer, testLogger())

	rec := postWebhook(t, h, "issues", []byte(`{}`), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Event type issues not handled", decodeBody(t, rec)["message"])
}

func TestHandleInvalidJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	reviewer := mocks.NewMockReviewer(ctrl)
	h := NewWebhookHandler(&config.Config{}, reviewer, testLogger())

	rec := postWebhook(t, h, "pull_request", []byte(`{"action":`), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON payload", decodeBody(t, rec)["detail"])
}

func TestHandleInvalidSignature(t *testing.T) {
	// The reviewer mock has no expectations: any gateway activity after a
	// failed signature check fails the test.
	ctrl := gomock.NewController(t)
	reviewer := mocks.NewMockReviewer(ctrl)
	cfg := &config.Config{WebhookSecret: "right-secret"}
	h := NewWebhookHandler(cfg, reviewer, testLogger())

	payload := pullRequestPayload("opened", "acme/widgets", 7)
	rec := postWebhook(t, h, "pull_request", payload, signFor(payload, "wrong-secret"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid signature", decodeBody(t, rec)["detail"])
}

func TestHandleValidSignature(t *testing.T) {
	ctrl := gomock.NewController(t)
	reviewer := mocks.NewMockReviewer(ctrl)
	reviewer.EXPECT().
		ReviewPullRequest(gomock.Any(), gomock.Any()).
		Return(&core.Outcome{ConversationID: "conv-1"}, nil)

	cfg := &config.Config{WebhookSecret: "right-secret"}
	h := NewWebhookHandler(cfg, reviewer, testLogger())

	payload := pullRequestPayload("opened", "acme/widgets", 7)
	rec := postWebhook(t, h, "pull_request", payload, signFor(payload, "right-secret"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "conv-1", decodeBody(t, rec)["conversation_id"])
}

func TestHandleUnhandledAction(t *testing.T) {
	ctrl := gomock.NewController(t)
	reviewer := mocks.NewMockReviewer(ctrl)
	h := NewWebhookHandler(&config.Config{}, reviewer, testLogger())

	rec := postWebhook(t, h, "pull_request", pullRequestPayload("closed", "acme/widgets", 7), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PR action closed not handled", decodeBody(t, rec)["message"])
}

func TestHandleRepoNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	reviewer := mocks.NewMockReviewer(ctrl)
	cfg := &config.Config{AllowedRepos: []string{"acme/allowed"}}
	h := NewWebhookHandler(cfg, reviewer, testLogger())

	rec := postWebhook(t, h, "pull_request", pullRequestPayload("opened", "acme/widgets", 7), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Repository acme/widgets not configured for PR reviews", decodeBody(t, rec)["message"])
}

func TestHandlePullRequestInitiatesReview(t *testing.T) {
	ctrl := gomock.NewController(t)
	reviewer := mocks.NewMockReviewer(ctrl)
	reviewer.EXPECT().
		ReviewPullRequest(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, event *core.ReviewEvent) (*core.Outcome, error) {
			assert.Equal(t, "acme/widgets", event.Ref.RepoFullName)
			assert.Equal(t, 7, event.Ref.Number)
			assert.Equal(t, "opened", event.Action)
			assert.Equal(t, "abc123", event.HeadSHA)
			return &core.Outcome{ConversationID: "conv-42", Ref: event.Ref}, nil
		})

	cfg := &config.Config{AllowedRepos: []string{"acme/widgets"}}
	h := NewWebhookHandler(cfg, reviewer, testLogger())

	rec := postWebhook(t, h, "pull_request", pullRequestPayload("opened", "acme/widgets", 7), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "PR review initiated", body["message"])
	assert.Equal(t, float64(7), body["pr_number"])
	assert.Equal(t, "acme/widgets", body["repo"])
	assert.Equal(t, "conv-42", body["conversation_id"])
}

func TestHandleOrchestrationErrorIsReportedAs200(t *testing.T) {
	ctrl := gomock.NewController(t)
	reviewer := mocks.NewMockReviewer(ctrl)
	reviewer.EXPECT().
		ReviewPullRequest(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("PR metadata unreachable"))

	h := NewWebhookHandler(&config.Config{}, reviewer, testLogger())

	rec := postWebhook(t, h, "pull_request", pullRequestPayload("synchronize", "acme/widgets", 7), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Error processing PR review: PR metadata unreachable", body["message"])
	assert.Equal(t, "acme/widgets", body["repo"])
}

func TestHandleDuplicateDelivery(t *testing.T) {
	ctrl := gomock.NewController(t)
	reviewer := mocks.NewMockReviewer(ctrl)
	reviewer.EXPECT().
		ReviewPullRequest(gomock.Any(), gomock.Any()).
		Return(nil, core.ErrDuplicateDelivery)

	h := NewWebhookHandler(&config.Config{}, reviewer, testLogger())

	rec := postWebhook(t, h, "pull_request", pullRequestPayload("synchronize", "acme/widgets", 7), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PR review already in progress", decodeBody(t, rec)["message"])
}

func TestHandleMissingEventHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	reviewer := mocks.NewMockReviewer(ctrl)
	h := NewWebhookHandler(&config.Config{}, reviewer, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/github", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
