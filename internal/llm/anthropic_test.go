package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "page-assistant/backend/internal/errors"
	"page-assistant/backend/internal/model"
)

func TestAnthropicProvider_Stream(t *testing.T) {
	t.Run("Success - System prompt moves to the top-level field", func(t *testing.T) {
		var capturedKey, capturedVersion string
		var capturedBody anthropicRequest

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			capturedKey = r.Header.Get("x-api-key")
			capturedVersion = r.Header.Get("anthropic-version")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&capturedBody))

			w.Header().Set("Content-Type", "text/event-stream")
			_, _ = io.WriteString(w, "event: message_start\ndata: {\"type\":\"message_start\"}\n\n")
			_, _ = io.WriteString(w, `data: {"type":"content_block_delta","delta":{"text":"Hi "}}`+"\n\n")
			_, _ = io.WriteString(w, `data: {"type":"content_block_delta","delta":{"text":"there"}}`+"\n\n")
			_, _ = io.WriteString(w, "event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n")
		}))
		defer server.Close()

		provider := &anthropicProvider{client: server.Client()}
		deltas, full, err := collectStream(t, provider, &Request{
			BaseURL:   server.URL,
			APIKey:    "sk-ant-test",
			Model:     "claude-3-5-haiku-latest",
			MaxTokens: 1024,
			Messages: []model.Message{
				{Role: model.RoleSystem, Content: "be brief"},
				{Role: model.RoleUser, Content: "hello"},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"Hi ", "there"}, deltas)
		assert.Equal(t, "Hi there", full)

		assert.Equal(t, "sk-ant-test", capturedKey)
		assert.Equal(t, anthropicVersion, capturedVersion)
		assert.Equal(t, "be brief", capturedBody.System)
		require.Len(t, capturedBody.Messages, 1)
		assert.Equal(t, "hello", capturedBody.Messages[0].Content)
	})

	t.Run("Failure - Non-2xx embeds status and body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = io.WriteString(w, `{"error":{"message":"rate limited"}}`)
		}))
		defer server.Close()

		provider := &anthropicProvider{client: server.Client()}
		_, _, err := collectStream(t, provider, &Request{BaseURL: server.URL})

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrProvider)
		assert.ErrorContains(t, err, "429")
		assert.ErrorContains(t, err, "rate limited")
	})
}

func TestAnthropicProvider_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"content":[{"type":"text","text":"the answer"}]}`)
	}))
	defer server.Close()

	provider := &anthropicProvider{client: server.Client()}
	answer, err := provider.Complete(context.Background(), &Request{BaseURL: server.URL})

	require.NoError(t, err)
	assert.Equal(t, "the answer", answer)
}

func TestSplitSystem(t *testing.T) {
	system, chat := splitSystem([]model.Message{
		{Role: model.RoleSystem, Content: "rules"},
		{Role: model.RoleUser, Content: "q1"},
		{Role: model.RoleAssistant, Content: "a1"},
	})

	assert.Equal(t, "rules", system)
	require.Len(t, chat, 2)
	assert.Equal(t, "q1", chat[0].Content)
	assert.Equal(t, "a1", chat[1].Content)
}
