package conversation

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGateway(baseURL string) Gateway {
	return NewHTTPGateway(baseURL, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreateConversation(t *testing.T) {
	var gotPath string
	var gotBody CreateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := testGateway(srv.URL).CreateConversation(context.Background(), &CreateRequest{
		ConversationID: "conv-1",
		Repository:     "acme/widgets",
		InitialMessage: "# PR Review: hello",
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/conversations", gotPath)
	assert.Equal(t, "conv-1", gotBody.ConversationID)
	assert.Equal(t, "acme/widgets", gotBody.Repository)
	assert.Equal(t, "# PR Review: hello", gotBody.InitialMessage)
}

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := testGateway(srv.URL).SendMessage(context.Background(), "conv-1", "File: a.go (modified)")
	require.NoError(t, err)

	assert.Equal(t, "/api/conversations/conv-1/events", gotPath)
	assert.Equal(t, "message", gotBody["type"])
	data, ok := gotBody["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "File: a.go (modified)", data["content"])
}

func TestGatewayReportsEngineError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("engine overloaded"))
	}))
	defer srv.Close()

	err := testGateway(srv.URL).SendMessage(context.Background(), "conv-1", "content")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.Contains(t, err.Error(), "engine overloaded")
	assert.Contains(t, err.Error(), "conv-1")
}

func TestGatewayReportsConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	err := testGateway(srv.URL).CreateConversation(context.Background(), &CreateRequest{ConversationID: "conv-1"})
	require.Error(t, err)
}
