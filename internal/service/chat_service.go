package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"page-assistant/backend/internal/broadcast"
	apperrors "page-assistant/backend/internal/errors"
	"page-assistant/backend/internal/llm"
	"page-assistant/backend/internal/model"
	"page-assistant/backend/internal/notify"
	"page-assistant/backend/internal/repository"
)

// ChatService is the conversation orchestrator: it builds prompts, seeds or
// extends the single live conversation, drives the provider call with token
// fan-out, and persists the final state.
type ChatService struct {
	repo      repository.Repository
	providers llm.Factory
	settings  *SettingsService
	hub       *broadcast.Hub
	notifier  notify.Notifier
}

// AskRequest is a menu-triggered request: the selected text (for the
// selection menu entry) plus the extracted page context.
type AskRequest struct {
	Source    model.Source
	Selection string
	PageTitle string
	PageURL   string
	PageText  string
}

func NewChatService(
	repo repository.Repository,
	providers llm.Factory,
	settings *SettingsService,
	hub *broadcast.Hub,
	notifier notify.Notifier,
) *ChatService {
	return &ChatService{repo: repo, providers: providers, settings: settings, hub: hub, notifier: notifier}
}

// GetConversation is the viewer pull for the latest persisted state. An empty
// slot yields (nil, nil).
func (s *ChatService) GetConversation(ctx context.Context) (*model.Conversation, error) {
	return s.repo.GetConversation(ctx)
}

// HandleMenuAction starts a fresh conversation from a context-menu action.
// The loading state (system + user message) is persisted and broadcast before
// the network call so viewers immediately show the user's turn; the final
// state is persisted and broadcast after the full answer arrived. Failures
// past the API-key check additionally raise a host notification.
func (s *ChatService) HandleMenuAction(ctx context.Context, req *AskRequest) (*model.Conversation, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings.APIKey == "" {
		// Nothing is created; the user is pointed at the settings form.
		return nil, fmt.Errorf("%w: add your API key in the settings to send prompts", apperrors.ErrConfig)
	}

	p := buildPrompt(req)
	conversation := &model.Conversation{
		Source:      req.Source,
		URL:         req.PageURL,
		CreatedAt:   time.Now().UTC(),
		Provider:    settings.Provider,
		Model:       settings.Model,
		Temperature: settings.Temperature,
		MaxTokens:   settings.MaxTokens,
		BaseURL:     settings.BaseURL,
		Messages: []model.Message{
			{Role: model.RoleSystem, Content: systemPrompt},
			{Role: model.RoleUser, Content: p.content, DisplayText: p.displayText},
		},
	}

	if err := s.runTurn(ctx, conversation, settings.APIKey); err != nil {
		slog.Error("Menu action failed", "source", req.Source, "error", err)
		s.notifier.Notify("AI request failed", err.Error())
		return nil, err
	}
	return conversation, nil
}

// HandleFollowUp extends the stored conversation with one more turn. The
// conversation's own settings snapshot wins over the currently saved defaults
// so a conversation stays internally consistent even if settings change
// mid-conversation.
func (s *ChatService) HandleFollowUp(ctx context.Context, promptText string) (*model.Conversation, error) {
	question := strings.TrimSpace(promptText)
	if question == "" {
		return nil, fmt.Errorf("%w: please enter a prompt to continue the conversation", apperrors.ErrInput)
	}

	conversation, err := s.repo.GetConversation(ctx)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, fmt.Errorf("%w: no previous conversation found", apperrors.ErrInput)
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings.APIKey == "" {
		return nil, fmt.Errorf("%w: add your API key in the settings to continue", apperrors.ErrConfig)
	}

	conversation.Messages = append(conversation.Messages, model.Message{
		Role:        model.RoleUser,
		Content:     question,
		DisplayText: question,
	})

	if err := s.runTurn(ctx, conversation, settings.APIKey); err != nil {
		slog.Error("Follow-up failed", "error", err)
		return nil, err
	}
	return conversation, nil
}

// runTurn is the shared persist -> broadcast -> stream -> persist sequence.
// The API key for the call always comes from the saved settings; everything
// else is the conversation's snapshot. An error after the loading persist
// leaves that state in place: the user sees what was sent, plus the error.
func (s *ChatService) runTurn(ctx context.Context, conversation *model.Conversation, apiKey string) error {
	if err := s.repo.SaveConversation(ctx, conversation); err != nil {
		return err
	}
	s.hub.BroadcastConversation(conversation)

	kind, err := llm.ParseKind(conversation.Provider)
	if err != nil {
		s.hub.BroadcastError(err.Error())
		return err
	}

	answer, err := s.generate(ctx, kind, &llm.Request{
		BaseURL:     conversation.BaseURL,
		APIKey:      apiKey,
		Model:       conversation.Model,
		Temperature: conversation.Temperature,
		MaxTokens:   conversation.MaxTokens,
		Messages:    conversation.Messages,
	})
	if err != nil {
		s.hub.BroadcastError(err.Error())
		return err
	}

	conversation.Messages = append(conversation.Messages, model.Message{
		Role:    model.RoleAssistant,
		Content: answer,
	})
	now := time.Now().UTC()
	conversation.UpdatedAt = &now

	if err := s.repo.SaveConversation(ctx, conversation); err != nil {
		return err
	}
	// The second full-conversation broadcast is the durable source of truth;
	// the per-token broadcasts are best-effort.
	s.hub.BroadcastConversation(conversation)
	return nil
}

// generate streams one provider call, forwarding every delta to the hub in
// arrival order, and returns the accumulated answer.
func (s *ChatService) generate(ctx context.Context, kind llm.Kind, req *llm.Request) (string, error) {
	provider, err := s.providers.Provider(kind)
	if err != nil {
		return "", err
	}

	deltas := make(chan string)
	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		for delta := range deltas {
			s.hub.BroadcastToken(delta)
		}
	}()

	answer, err := provider.Stream(ctx, req, deltas)
	<-forwarded
	return answer, err
}
