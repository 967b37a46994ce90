package api

import (
	"time"

	"page-assistant/backend/internal/model"
	"page-assistant/backend/internal/render"
)

// MessageView is one message as presented to a viewer. Assistant turns carry
// the final rendered form: sanitized markdown HTML plus the collapsible
// reasoning block when the raw answer contained reasoning markers. User turns
// expose DisplayText so the viewer can show the short question instead of the
// constructed prompt.
type MessageView struct {
	Role          string `json:"role"`
	Content       string `json:"content"`
	DisplayText   string `json:"displayText,omitempty"`
	HTML          string `json:"html,omitempty"`
	ReasoningHTML string `json:"reasoningHtml,omitempty"`
}

// ConversationView is the conversation record plus per-message rendering.
type ConversationView struct {
	Source      model.Source  `json:"source"`
	URL         string        `json:"url"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   *time.Time    `json:"updatedAt,omitempty"`
	Provider    string        `json:"provider"`
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"maxTokens"`
	BaseURL     string        `json:"baseUrl"`
	Messages    []MessageView `json:"messages"`
}

func newConversationView(c *model.Conversation) *ConversationView {
	if c == nil {
		return nil
	}

	view := &ConversationView{
		Source:      c.Source,
		URL:         c.URL,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Provider:    c.Provider,
		Model:       c.Model,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		BaseURL:     c.BaseURL,
		Messages:    make([]MessageView, 0, len(c.Messages)),
	}

	for _, m := range c.Messages {
		mv := MessageView{Role: m.Role, Content: m.Content, DisplayText: m.DisplayText}
		if m.Role == model.RoleAssistant {
			answer := render.Answer(m.Content)
			mv.HTML = answer.HTML
			mv.ReasoningHTML = answer.ReasoningHTML
		}
		view.Messages = append(view.Messages, mv)
	}
	return view
}
