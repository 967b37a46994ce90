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

// collectStream runs one Stream call and gathers the forwarded deltas in
// arrival order alongside the returned accumulated answer.
func collectStream(t *testing.T, p Provider, req *Request) ([]string, string, error) {
	t.Helper()

	ch := make(chan string)
	done := make(chan struct{})
	var deltas []string
	go func() {
		defer close(done)
		for delta := range ch {
			deltas = append(deltas, delta)
		}
	}()

	full, err := p.Stream(context.Background(), req, ch)
	<-done
	return deltas, full, err
}

func TestOpenAIProvider_Stream(t *testing.T) {
	t.Run("Success - Deltas arrive in order and accumulate", func(t *testing.T) {
		var capturedAuth string
		var capturedBody openAIRequest

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			capturedAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&capturedBody))

			w.Header().Set("Content-Type", "text/event-stream")
			_, _ = io.WriteString(w, `data: {"choices":[{"delta":{"content":"Hel"}}]}`+"\n\n")
			_, _ = io.WriteString(w, `data: {"choices":[{"delta":{"content":"lo"}}]}`+"\n\n")
			_, _ = io.WriteString(w, "data: [DONE]\n\n")
		}))
		defer server.Close()

		provider := &openAIProvider{client: server.Client()}
		deltas, full, err := collectStream(t, provider, &Request{
			BaseURL:     server.URL,
			APIKey:      "sk-test",
			Model:       "gpt-4o-mini",
			Temperature: 0.3,
			MaxTokens:   4096,
			Messages: []model.Message{
				{Role: model.RoleSystem, Content: "system"},
				{Role: model.RoleUser, Content: "question", DisplayText: "short form"},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"Hel", "lo"}, deltas)
		assert.Equal(t, "Hello", full)

		assert.Equal(t, "Bearer sk-test", capturedAuth)
		assert.True(t, capturedBody.Stream)
		assert.Equal(t, "gpt-4o-mini", capturedBody.Model)
		// The system message stays inline for this wire format.
		require.Len(t, capturedBody.Messages, 2)
		assert.Equal(t, "system", capturedBody.Messages[0].Content)
	})

	t.Run("Success - Malformed frame is skipped, stream continues", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `data: {"choices":[{"delta":{"content":"a"}}]}`+"\n\n")
			_, _ = io.WriteString(w, "data: {not json}\n\n")
			_, _ = io.WriteString(w, `data: {"choices":[{"delta":{"content":"b"}}]}`+"\n\n")
			_, _ = io.WriteString(w, "data: [DONE]\n\n")
		}))
		defer server.Close()

		provider := &openAIProvider{client: server.Client()}
		deltas, full, err := collectStream(t, provider, &Request{BaseURL: server.URL})

		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, deltas)
		assert.Equal(t, "ab", full)
	})

	t.Run("Failure - Non-2xx embeds status and body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":{"message":"bad key"}}`)
		}))
		defer server.Close()

		provider := &openAIProvider{client: server.Client()}
		_, _, err := collectStream(t, provider, &Request{BaseURL: server.URL})

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrProvider)
		assert.ErrorContains(t, err, "401")
		assert.ErrorContains(t, err, "bad key")
	})
}

func TestOpenAIProvider_Complete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"  full answer  "}}]}`)
		}))
		defer server.Close()

		provider := &openAIProvider{client: server.Client()}
		answer, err := provider.Complete(context.Background(), &Request{BaseURL: server.URL})

		require.NoError(t, err)
		assert.Equal(t, "full answer", answer)
	})

	t.Run("Failure - Missing content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"choices":[]}`)
		}))
		defer server.Close()

		provider := &openAIProvider{client: server.Client()}
		_, err := provider.Complete(context.Background(), &Request{BaseURL: server.URL})

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrProvider)
	})
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("openai")
	require.NoError(t, err)
	assert.Equal(t, KindOpenAI, kind)

	kind, err = ParseKind("anthropic")
	require.NoError(t, err)
	assert.Equal(t, KindAnthropic, kind)

	_, err = ParseKind("ollama")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConfig)
}

func TestFactory(t *testing.T) {
	factory := NewFactory()

	openai, err := factory.Provider(KindOpenAI)
	require.NoError(t, err)
	assert.IsType(t, &openAIProvider{}, openai)

	anthropic, err := factory.Provider(KindAnthropic)
	require.NoError(t, err)
	assert.IsType(t, &anthropicProvider{}, anthropic)

	_, err = factory.Provider(Kind("other"))
	assert.Error(t, err)
}
