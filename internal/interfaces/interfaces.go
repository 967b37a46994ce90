package interfaces

import (
	"context"

	"page-assistant/backend/internal/model"
	"page-assistant/backend/internal/service"
)

// This file defines the interfaces for our core services.
// Depending on these interfaces, instead of concrete implementations, allows for
// decoupling (e.g., API layer from Service layer) and easier testing via mocking.

// ChatService defines the contract for conversation orchestration.
type ChatService interface {
	HandleMenuAction(ctx context.Context, req *service.AskRequest) (*model.Conversation, error)
	HandleFollowUp(ctx context.Context, prompt string) (*model.Conversation, error)
	GetConversation(ctx context.Context) (*model.Conversation, error)
}

// SettingsService defines the contract for managing generation settings.
type SettingsService interface {
	Get(ctx context.Context) (*service.Settings, error)
	Save(ctx context.Context, settings *service.Settings) error
}
