package broadcast

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"page-assistant/backend/internal/model"
)

// eventBuffer is how many undelivered events a single viewer may lag behind
// before further events are dropped for it.
const eventBuffer = 64

// Hub owns the set of currently connected viewer channels and fans events out
// to them. Delivery is independent per channel: a viewer that cannot accept an
// event is skipped with a log line and the rest still receive it. There is no
// queuing or replay; a viewer that subscribes after a broadcast pulls the
// latest state itself via get-conversation.
type Hub struct {
	mu   sync.Mutex
	subs map[string]chan model.Event
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]chan model.Event)}
}

// Subscribe registers a new viewer channel and returns its id together with
// the receive side of the channel.
func (h *Hub) Subscribe() (string, <-chan model.Event) {
	id := uuid.NewString()
	ch := make(chan model.Event, eventBuffer)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	slog.Debug("Viewer subscribed", "subscriber", id)
	return id, ch
}

// Unsubscribe removes a viewer channel and closes it. Calling it for an
// unknown or already removed id is a no-op.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.subs[id]
	if !ok {
		return
	}
	delete(h.subs, id)
	close(ch)
	slog.Debug("Viewer unsubscribed", "subscriber", id)
}

// BroadcastConversation sends a full-conversation event to every viewer. The
// event carries a snapshot, not the live pointer: the caller keeps mutating
// the conversation after the loading-state broadcast while viewers may still
// be serializing the event.
func (h *Hub) BroadcastConversation(conversation *model.Conversation) {
	h.broadcast(model.Event{Type: model.EventConversation, Conversation: snapshot(conversation)})
}

func snapshot(conversation *model.Conversation) *model.Conversation {
	if conversation == nil {
		return nil
	}
	copied := *conversation
	copied.Messages = append([]model.Message(nil), conversation.Messages...)
	return &copied
}

// BroadcastToken sends one text delta to every viewer. An empty chunk is a
// no-op: no channel receives anything.
func (h *Hub) BroadcastToken(chunk string) {
	if chunk == "" {
		return
	}
	h.broadcast(model.Event{Type: model.EventToken, Chunk: chunk})
}

// BroadcastError sends an error event to every viewer.
func (h *Hub) BroadcastError(message string) {
	h.broadcast(model.Event{Type: model.EventError, Message: message})
}

func (h *Hub) broadcast(ev model.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			// One stalled viewer must not block or fail the rest.
			slog.Warn("Dropping event for slow viewer", "subscriber", id, "type", ev.Type)
		}
	}
}
