package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "page-assistant/backend/internal/errors"
)

// openAIProvider speaks the OpenAI chat-completions wire format. The system
// message stays inline in the messages array.
type openAIProvider struct {
	client *http.Client
}

type openAIRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
	Messages    []wireMessage `json:"messages"`
}

func (p *openAIProvider) post(ctx context.Context, req *Request, stream bool) (*http.Response, error) {
	body, err := json.Marshal(openAIRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      stream,
		Messages:    toWireMessages(req.Messages),
	})
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.BaseURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("could not create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: OpenAI-style API error (%d): %s", apperrors.ErrProvider, resp.StatusCode, string(raw))
	}
	return resp, nil
}

func (p *openAIProvider) Complete(ctx context.Context, req *Request) (string, error) {
	resp, err := p.post(ctx, req, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var envelope struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("%w: could not decode OpenAI-style response: %v", apperrors.ErrProvider, err)
	}
	if len(envelope.Choices) == 0 || envelope.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no content returned from OpenAI-style API", apperrors.ErrProvider)
	}
	return trimmed(envelope.Choices[0].Message.Content), nil
}

func (p *openAIProvider) Stream(ctx context.Context, req *Request, ch chan<- string) (string, error) {
	defer close(ch)

	resp, err := p.post(ctx, req, true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	return decodeStream(resp.Body, extractOpenAIDelta, ch)
}

// extractOpenAIDelta pulls `choices[0].delta.content` out of one stream frame.
func extractOpenAIDelta(payload []byte) (string, error) {
	var frame struct {
		Choices []struct {
			Delta struct {
				Content string `json:"content"`
			} `json:"delta"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(payload, &frame); err != nil {
		return "", err
	}
	if len(frame.Choices) == 0 {
		return "", nil
	}
	return frame.Choices[0].Delta.Content, nil
}
