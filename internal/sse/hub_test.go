package sse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/storefront/internal/notify"
)

func decode(t *testing.T, msg Message) Event {
	t.Helper()
	var ev Event
	require.NoError(t, json.Unmarshal(msg.Data, &ev))
	return ev
}

func TestHubNotifier_PublishesToasts(t *testing.T) {
	hub := NewHub()
	sub, backlog := hub.Subscribe("ui-1", 0)
	defer hub.Unsubscribe("ui-1")
	assert.Empty(t, backlog)

	var n notify.Notifier = NewHubNotifier(hub)
	n.Error("Failed to load wishlist")

	msg := <-sub.Messages
	ev := decode(t, msg)
	assert.Equal(t, uint64(1), msg.ID)
	assert.Equal(t, EventToast, ev.Event)
	assert.Equal(t, "error", ev.Level)
	assert.Equal(t, "Failed to load wishlist", ev.Message)
}

func TestHubNotifier_AuthRequired(t *testing.T) {
	hub := NewHub()
	sub, _ := hub.Subscribe("ui-1", 0)
	defer hub.Unsubscribe("ui-1")

	NewHubNotifier(hub).NotifyAuthRequired("/login?redirect=%2Fcart")

	ev := decode(t, <-sub.Messages)
	assert.Equal(t, EventAuthRequired, ev.Event)
	assert.Equal(t, "/login?redirect=%2Fcart", ev.Redirect)
}

func TestHub_ReplaysMissedMessages(t *testing.T) {
	hub := NewHub()
	n := NewHubNotifier(hub)
	n.Success("Added to wishlist")
	n.Success("Dune added to cart")
	n.Info("Price alert removed")

	_, backlog := hub.Subscribe("ui-2", 1)
	defer hub.Unsubscribe("ui-2")

	require.Len(t, backlog, 2)
	assert.Equal(t, uint64(2), backlog[0].ID)
	assert.Equal(t, "Price alert removed", decode(t, backlog[1]).Message)
}

func TestHub_ReplayWindowIsBounded(t *testing.T) {
	hub := NewHub()
	for i := 0; i < replaySize+5; i++ {
		hub.Publish(&Event{Event: EventToast, Message: "x"})
	}

	_, backlog := hub.Subscribe("ui-3", 1)
	defer hub.Unsubscribe("ui-3")

	require.Len(t, backlog, replaySize)
	assert.Equal(t, uint64(6), backlog[0].ID)
}

func TestHub_DropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	sub, _ := hub.Subscribe("slow", 0)

	for i := 0; i < subscriberBuffer+10; i++ {
		hub.Publish(&Event{Event: EventToast, Message: "x"})
	}
	assert.Len(t, sub.Messages, subscriberBuffer)

	hub.Unsubscribe("slow")
	assert.Zero(t, hub.ClientCount())
	hub.Unsubscribe("slow")
}
