package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperrors "page-assistant/backend/internal/errors"
	"page-assistant/backend/internal/interfaces"
	"page-assistant/backend/internal/model"
	"page-assistant/backend/internal/service"
)

// ChatHandler handles the conversation endpoints: menu-triggered requests,
// follow-ups, the conversation pull, and the viewer event stream.
type ChatHandler struct {
	service interfaces.ChatService
	hub     EventSource
}

// AskRequestDTO is the wire form of a menu-triggered request. The page fields
// come from the host's content-extraction step; Selection is only meaningful
// for the selection source.
type AskRequestDTO struct {
	Source    string `json:"source" validate:"required,oneof=selection page" example:"selection"`
	Selection string `json:"selection,omitempty"`
	PageTitle string `json:"pageTitle"`
	PageURL   string `json:"pageUrl"`
	PageText  string `json:"pageText"`
}

// FollowUpRequest is the wire form of a follow-up submission.
type FollowUpRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

func NewChatHandler(svc interfaces.ChatService, hub EventSource) *ChatHandler {
	return &ChatHandler{service: svc, hub: hub}
}

// HandleAsk godoc
// @Summary      Ask about a selection or page
// @Description  Starts a fresh conversation from a context-menu action. The loading and final states are also broadcast to /events subscribers.
// @Tags         Conversation
// @Accept       json
// @Produce      json
// @Param        askRequest  body      AskRequestDTO  true  "Menu action payload"
// @Success      200         {object}  ConversationView
// @Failure      400         {object}  ErrorResponse
// @Failure      412         {object}  ErrorResponse "No API key configured"
// @Failure      502         {object}  ErrorResponse "Provider call failed"
// @Router       /v1/ask [post]
func (h *ChatHandler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	var dto AskRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	if err := validateRequest(dto); err != nil {
		respondWithError(w, err)
		return
	}
	req, err := dto.toAskRequest()
	if err != nil {
		respondWithError(w, err)
		return
	}

	conversation, err := h.service.HandleMenuAction(r.Context(), req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newConversationView(conversation))
}

// GetConversation godoc
// @Summary      Get the current conversation
// @Description  Returns the single persisted conversation, or null when none has been saved yet.
// @Tags         Conversation
// @Produce      json
// @Success      200  {object}  ConversationView
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/conversation [get]
func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	conversation, err := h.service.GetConversation(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	// An empty slot is not an error; the viewer renders its placeholder.
	respondWithJSON(w, http.StatusOK, newConversationView(conversation))
}

// HandleFollowUp godoc
// @Summary      Continue the conversation
// @Description  Appends one user turn to the stored conversation and streams the answer to /events subscribers.
// @Tags         Conversation
// @Accept       json
// @Produce      json
// @Param        followUp  body      FollowUpRequest  true  "Follow-up prompt"
// @Success      200       {object}  ConversationView
// @Failure      400       {object}  ErrorResponse "Empty prompt or no stored conversation"
// @Failure      412       {object}  ErrorResponse "No API key configured"
// @Failure      502       {object}  ErrorResponse "Provider call failed"
// @Router       /v1/conversation/followup [post]
func (h *ChatHandler) HandleFollowUp(w http.ResponseWriter, r *http.Request) {
	var req FollowUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}

	// The service trims and rejects whitespace-only prompts itself so that the
	// rule lives in one place; no validateRequest here on purpose.
	conversation, err := h.service.HandleFollowUp(r.Context(), req.Prompt)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newConversationView(conversation))
}

func (dto *AskRequestDTO) toAskRequest() (*service.AskRequest, error) {
	source := model.Source(dto.Source)
	// A selection menu action without any selected text is dropped by the
	// host; a request that still carries none is unusable.
	if source == model.SourceSelection && strings.TrimSpace(dto.Selection) == "" {
		return nil, fmt.Errorf("%w: no selection text provided", apperrors.ErrInput)
	}
	return &service.AskRequest{
		Source:    source,
		Selection: dto.Selection,
		PageTitle: dto.PageTitle,
		PageURL:   dto.PageURL,
		PageText:  dto.PageText,
	}, nil
}
