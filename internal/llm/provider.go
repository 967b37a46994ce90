package llm

import (
	"context"
	"fmt"
	"net/http"

	apperrors "page-assistant/backend/internal/errors"
	"page-assistant/backend/internal/model"
)

// Kind selects one of the supported provider wire formats. Adding a provider
// means adding a new Provider implementation and a new Kind, not branching
// existing code.
type Kind string

const (
	KindOpenAI    Kind = "openai"
	KindAnthropic Kind = "anthropic"
)

// ParseKind maps the stored provider setting onto a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindOpenAI, KindAnthropic:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: unknown provider %q", apperrors.ErrConfig, s)
	}
}

// Request is the normalized input both adapters accept. Messages includes the
// system message; each adapter decides itself whether the target wire format
// wants it inline or split out.
type Request struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Messages    []model.Message
}

// Provider is the uniform contract over the two wire formats.
//
// Complete issues a non-streaming request and extracts the single completion
// string from the provider's JSON envelope.
//
// Stream issues a streaming request and forwards each decoded delta to ch in
// arrival order; ch is closed by the adapter when the stream ends, so the
// caller sees a lazy, finite sequence of deltas terminated by the returned
// accumulated string. Both methods return the full trimmed text so callers
// have one return-value contract regardless of mode.
type Provider interface {
	Complete(ctx context.Context, req *Request) (string, error)
	Stream(ctx context.Context, req *Request, ch chan<- string) (string, error)
}

// Factory resolves a Kind to its adapter.
type Factory interface {
	Provider(kind Kind) (Provider, error)
}

type httpFactory struct {
	openai    Provider
	anthropic Provider
}

// NewFactory builds the default factory with both adapters sharing one HTTP
// client.
func NewFactory() Factory {
	client := &http.Client{}
	return &httpFactory{
		openai:    &openAIProvider{client: client},
		anthropic: &anthropicProvider{client: client},
	}
}

func (f *httpFactory) Provider(kind Kind) (Provider, error) {
	switch kind {
	case KindOpenAI:
		return f.openai, nil
	case KindAnthropic:
		return f.anthropic, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", apperrors.ErrConfig, kind)
	}
}

// wireMessage is the role/content pair actually sent over the wire. Viewer-only
// fields such as DisplayText never leave the process.
type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func toWireMessages(messages []model.Message) []wireMessage {
	out := make([]wireMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, wireMessage{Role: m.Role, Content: m.Content})
	}
	return out
}

// splitSystem separates the system turn from the chat turns for providers that
// take the system prompt as a dedicated request field.
func splitSystem(messages []model.Message) (string, []wireMessage) {
	var system string
	chat := make([]wireMessage, 0, len(messages))
	for _, m := range messages {
		if m.Role == model.RoleSystem {
			if system == "" {
				system = m.Content
			}
			continue
		}
		chat = append(chat, wireMessage{Role: m.Role, Content: m.Content})
	}
	return system, chat
}
