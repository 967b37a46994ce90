package repository

import (
	"context"

	"page-assistant/backend/internal/model"
)

// Repository is the single-slot conversation store. Exactly one conversation
// is live at a time: SaveConversation replaces the whole record
// (last-write-wins, no versioning), and GetConversation of an empty slot
// yields (nil, nil), never an error.
type Repository interface {
	SaveConversation(ctx context.Context, conversation *model.Conversation) error
	GetConversation(ctx context.Context) (*model.Conversation, error)
}
