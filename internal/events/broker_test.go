package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestBrokerDeliversInOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := NewBroker[ChatPayload]()
	defer b.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := b.Subscribe(ctx)

	b.Publish(ChatUserMessage, ChatPayload{ChatID: "c1", Content: "one"})
	b.Publish(ChatAssistantMessage, ChatPayload{ChatID: "c1", Content: "two"})

	first := <-ch
	second := <-ch
	assert.Equal(t, ChatUserMessage, first.Type)
	assert.Equal(t, "one", first.Payload.Content)
	assert.Equal(t, ChatAssistantMessage, second.Type)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestBrokerFilters(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewBus()
	defer bus.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := bus.SubscribeChat(ctx, ForSession("c2"), OfType(ChatError))

	bus.PublishChat(ChatError, ChatPayload{ChatID: "c1", Content: "wrong chat"})
	bus.PublishChat(ChatTyping, ChatPayload{ChatID: "c2"})
	bus.PublishChat(ChatError, ChatPayload{ChatID: "c2", Content: "match"})

	ev := <-ch
	assert.Equal(t, "match", ev.Payload.Content)
	assert.Equal(t, "c2", ev.SessionID)
	assert.Len(t, bus.ChatHistory(ForSession("c1")), 1)
}

func TestSubscriptionClosesOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := NewBroker[ReminderPayload]()
	defer b.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	ch := b.Subscribe(ctx)
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
}

func TestShutdownClosesSubscribersAndDropsPublishes(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := NewBroker[ReminderPayload]()
	ch := b.Subscribe(context.Background())
	b.Shutdown()
	b.Shutdown()

	_, ok := <-ch
	require.False(t, ok)

	b.Publish(ReminderFired, ReminderPayload{Name: "الظهر"})
	assert.Empty(t, b.History())

	late := b.Subscribe(context.Background())
	_, ok = <-late
	assert.False(t, ok)
}

func TestHistoryIsBounded(t *testing.T) {
	b := NewBrokerWithOptions[ChatPayload](1, 3)
	defer b.Shutdown()

	for _, c := range []string{"a", "b", "c", "d", "e"} {
		b.Publish(ChatTyping, ChatPayload{Content: c})
	}
	h := b.History()
	require.Len(t, h, 3)
	assert.Equal(t, "c", h[0].Payload.Content)
	assert.Equal(t, "e", h[2].Payload.Content)
}
