package api

import (
	"log/slog"
	"net/http"

	"page-assistant/backend/internal/model"
	"page-assistant/backend/internal/render"
)

// EventSource is the broadcaster seam the handler depends on.
type EventSource interface {
	Subscribe() (string, <-chan model.Event)
	Unsubscribe(id string)
}

// TokenEvent is one classified delta pushed over the event stream. Chunk is
// either visible answer text or reasoning text, discriminated by Reasoning.
type TokenEvent struct {
	Type      model.EventType `json:"type"`
	Chunk     string          `json:"chunk"`
	Reasoning bool            `json:"reasoning,omitempty"`
}

// ConversationEvent carries a full-conversation replace, pre-rendered for the
// viewer.
type ConversationEvent struct {
	Type         model.EventType   `json:"type"`
	Conversation *ConversationView `json:"conversation"`
}

// ErrorEvent surfaces a failed turn to watching viewers.
type ErrorEvent struct {
	Type    model.EventType `json:"type"`
	Message string          `json:"message"`
}

// HandleEvents godoc
// @Summary      Viewer event stream
// @Description  Server-sent events: conversation replaces, classified token deltas and errors. No replay; pull /v1/conversation for the latest state after connecting.
// @Tags         Conversation
// @Produce      text/event-stream
// @Success      200  {object}  TokenEvent "Stream of events"
// @Router       /v1/events [get]
func (h *ChatHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	id, events := h.hub.Subscribe()
	defer h.hub.Unsubscribe(id)

	// Each connection owns its own parse state; a disconnect simply stops this
	// loop, in-flight provider calls are unaffected.
	scanner := render.NewScanner()

	for {
		select {
		case <-r.Context().Done():
			slog.Debug("Viewer disconnected", "subscriber", id)
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := h.writeEvent(w, scanner, ev); err != nil {
				slog.Warn("Could not write to event stream, client likely disconnected", "subscriber", id, "error", err)
				return
			}
		}
	}
}

func (h *ChatHandler) writeEvent(w http.ResponseWriter, scanner *render.Scanner, ev model.Event) error {
	switch ev.Type {
	case model.EventConversation:
		// A conversation replace starts a fresh turn: flush what the scanner
		// still withholds and reset its state.
		for _, seg := range scanner.Flush() {
			if err := writeStreamEvent(w, TokenEvent{Type: model.EventToken, Chunk: seg.Text, Reasoning: seg.Reasoning}); err != nil {
				return err
			}
		}
		scanner.Reset()
		return writeStreamEvent(w, ConversationEvent{Type: model.EventConversation, Conversation: newConversationView(ev.Conversation)})
	case model.EventToken:
		for _, seg := range scanner.Feed(ev.Chunk) {
			if err := writeStreamEvent(w, TokenEvent{Type: model.EventToken, Chunk: seg.Text, Reasoning: seg.Reasoning}); err != nil {
				return err
			}
		}
		return nil
	case model.EventError:
		return writeStreamEvent(w, ErrorEvent{Type: model.EventError, Message: ev.Message})
	default:
		return nil
	}
}
