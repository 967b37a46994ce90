package model

import (
	"time"
)

// Role identifies the author of a message.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Source records what a conversation was started from.
type Source string

const (
	SourceSelection Source = "selection"
	SourcePage      Source = "page"
)

// Message is a single turn in a conversation. Content is what is sent to and
// received from the model; DisplayText, when set on a user turn, is what the
// viewer shows instead (e.g. a short question standing in for a long
// constructed prompt). Messages are immutable once appended.
type Message struct {
	Role        string `json:"role"`
	Content     string `json:"content"`
	DisplayText string `json:"displayText,omitempty"`
}

// Conversation is the single live conversation: provenance, a snapshot of the
// generation settings it was started with, and the ordered message list.
// Messages[0] is always the system message. The record is replaced wholesale
// on every new menu action; there is no history.
type Conversation struct {
	Source      Source     `json:"source"`
	URL         string     `json:"url"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	Provider    string     `json:"provider"`
	Model       string     `json:"model"`
	Temperature float64    `json:"temperature"`
	MaxTokens   int        `json:"maxTokens"`
	BaseURL     string     `json:"baseUrl"`
	Messages    []Message  `json:"messages"`
}

// EventType discriminates the events fanned out to connected viewers.
type EventType string

const (
	EventConversation EventType = "conversation"
	EventToken        EventType = "token"
	EventError        EventType = "error"
)

// Event is one broadcast unit delivered to a viewer channel. Exactly one of
// Conversation, Chunk or Message is populated, depending on Type.
type Event struct {
	Type         EventType     `json:"type"`
	Conversation *Conversation `json:"conversation,omitempty"`
	Chunk        string        `json:"chunk,omitempty"`
	Message      string        `json:"message,omitempty"`
}
