package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"page-assistant/backend/internal/model"
)

func TestHub_BroadcastConversation(t *testing.T) {
	hub := NewHub()
	id, events := hub.Subscribe()
	defer hub.Unsubscribe(id)

	conversation := &model.Conversation{
		Source:   model.SourcePage,
		Messages: []model.Message{{Role: model.RoleUser, Content: "q"}},
	}
	hub.BroadcastConversation(conversation)

	ev := <-events
	assert.Equal(t, model.EventConversation, ev.Type)
	require.Len(t, ev.Conversation.Messages, 1)

	// The event holds a snapshot: later mutation of the live conversation
	// must not leak into an already-broadcast event.
	conversation.Messages = append(conversation.Messages, model.Message{Role: model.RoleAssistant, Content: "a"})
	assert.Len(t, ev.Conversation.Messages, 1)
}

func TestHub_BroadcastToken(t *testing.T) {
	hub := NewHub()
	id, events := hub.Subscribe()
	defer hub.Unsubscribe(id)

	hub.BroadcastToken("")
	hub.BroadcastToken("delta")

	// The empty chunk was a no-op, so the first received event is the delta.
	ev := <-events
	assert.Equal(t, model.EventToken, ev.Type)
	assert.Equal(t, "delta", ev.Chunk)
	assert.Empty(t, events)
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub()
	id, events := hub.Subscribe()

	hub.Unsubscribe(id)
	// A second call for the same id, or an unknown id, is a no-op.
	hub.Unsubscribe(id)
	hub.Unsubscribe("never-subscribed")

	_, ok := <-events
	assert.False(t, ok)

	// Broadcasts after removal reach nobody and do not panic.
	hub.BroadcastError("gone")
}

func TestHub_SlowViewerDoesNotBlockOthers(t *testing.T) {
	hub := NewHub()

	slowID, slow := hub.Subscribe()
	defer hub.Unsubscribe(slowID)

	// Overrun the viewer's buffer without ever draining it. The loop
	// finishing at all proves a full channel does not block the broadcast;
	// the overflow is dropped.
	for i := 0; i < eventBuffer+8; i++ {
		hub.BroadcastToken("x")
	}
	assert.Len(t, slow, eventBuffer)

	// A broadcast keeps working for viewers that do drain.
	otherID, other := hub.Subscribe()
	defer hub.Unsubscribe(otherID)
	hub.BroadcastError("still delivered")

	ev := <-other
	assert.Equal(t, model.EventError, ev.Type)
	assert.Equal(t, "still delivered", ev.Message)
}
