package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "page-assistant/backend/internal/errors"
)

const anthropicVersion = "2023-06-01"

// anthropicProvider speaks the Anthropic messages wire format, which takes the
// system prompt as a dedicated top-level field instead of an inline message.
type anthropicProvider struct {
	client *http.Client
}

type anthropicRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	System      string        `json:"system,omitempty"`
	Messages    []wireMessage `json:"messages"`
	Stream      bool          `json:"stream"`
}

func (p *anthropicProvider) post(ctx context.Context, req *Request, stream bool) (*http.Response, error) {
	system, chat := splitSystem(req.Messages)
	body, err := json.Marshal(anthropicRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		System:      system,
		Messages:    chat,
		Stream:      stream,
	})
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.BaseURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("could not create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", req.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: Anthropic API error (%d): %s", apperrors.ErrProvider, resp.StatusCode, string(raw))
	}
	return resp, nil
}

func (p *anthropicProvider) Complete(ctx context.Context, req *Request) (string, error) {
	resp, err := p.post(ctx, req, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var envelope struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("%w: could not decode Anthropic response: %v", apperrors.ErrProvider, err)
	}
	if len(envelope.Content) == 0 || envelope.Content[0].Text == "" {
		return "", fmt.Errorf("%w: no content returned from Anthropic API", apperrors.ErrProvider)
	}
	return trimmed(envelope.Content[0].Text), nil
}

func (p *anthropicProvider) Stream(ctx context.Context, req *Request, ch chan<- string) (string, error) {
	defer close(ch)

	resp, err := p.post(ctx, req, true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	return decodeStream(resp.Body, extractAnthropicDelta, ch)
}

// extractAnthropicDelta pulls `delta.text` out of one stream frame.
func extractAnthropicDelta(payload []byte) (string, error) {
	var frame struct {
		Delta struct {
			Text string `json:"text"`
		} `json:"delta"`
	}
	if err := json.Unmarshal(payload, &frame); err != nil {
		return "", err
	}
	return frame.Delta.Text, nil
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
