// Package conversation provides the gateway to the external conversation
// engine that produces review text. The engine owns conversations once they
// are created; this package only creates them and feeds them events.
package conversation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// CreateRequest seeds a new conversation. The conversation id is generated by
// the caller, not by the engine.
type CreateRequest struct {
	ConversationID string `json:"conversation_id"`
	Repository     string `json:"repository"`
	InitialMessage string `json:"initial_message"`
}

type messageEvent struct {
	Type string      `json:"type"`
	Data messageData `json:"data"`
}

type messageData struct {
	Content string `json:"content"`
}

// Gateway defines the operations the review pipeline needs from the
// conversation engine.
//
//go:generate mockgen -destination=../mocks/mock_conversation_gateway.go -package=mocks . Gateway
type Gateway interface {
	// CreateConversation creates a conversation seeded with an initial
	// message. Ownership of the conversation transfers to the engine;
	// the caller never deletes it.
	CreateConversation(ctx context.Context, req *CreateRequest) error

	// SendMessage appends a message event to an existing conversation.
	SendMessage(ctx context.Context, conversationID, content string) error
}

type httpGateway struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPGateway creates a Gateway talking to the conversation engine over
// HTTP. The engine can take a while to accept large diff messages, so the
// client gets more generous timeouts than the default transport.
func NewHTTPGateway(baseURL string, logger *slog.Logger) Gateway {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &httpGateway{
		baseURL: baseURL,
		client: &http.Client{
			Transport: transport,
			Timeout:   2 * time.Minute,
		},
		logger: logger,
	}
}

func (g *httpGateway) CreateConversation(ctx context.Context, req *CreateRequest) error {
	url := fmt.Sprintf("%s/api/conversations", g.baseURL)
	if err := g.post(ctx, url, req); err != nil {
		return fmt.Errorf("failed to create conversation %s: %w", req.ConversationID, err)
	}
	g.logger.Info("conversation created", "conversation_id", req.ConversationID, "repo", req.Repository)
	return nil
}

func (g *httpGateway) SendMessage(ctx context.Context, conversationID, content string) error {
	url := fmt.Sprintf("%s/api/conversations/%s/events", g.baseURL, conversationID)
	event := messageEvent{Type: "message", Data: messageData{Content: content}}
	if err := g.post(ctx, url, event); err != nil {
		return fmt.Errorf("failed to send event to conversation %s: %w", conversationID, err)
	}
	return nil
}

func (g *httpGateway) post(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		// Keep a short excerpt of the body for diagnostics.
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("conversation engine returned status %d: %s", resp.StatusCode, string(excerpt))
	}
	return nil
}
