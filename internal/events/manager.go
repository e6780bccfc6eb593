package events

import (
	"context"
	"sync"
)

// Bus bundles the typed brokers the client components publish to
type Bus struct {
	chat      *Broker[ChatPayload]
	reminders *Broker[ReminderPayload]

	once sync.Once
}

// NewBus creates a bus with default-sized brokers
func NewBus() *Bus {
	return &Bus{
		chat:      NewBroker[ChatPayload](),
		reminders: NewBroker[ReminderPayload](),
	}
}

// PublishChat publishes a chat event tagged with the chat id
func (b *Bus) PublishChat(eventType EventType, payload ChatPayload) {
	b.chat.Publish(eventType, payload, WithSessionID(payload.ChatID))
}

// SubscribeChat subscribes to chat events
func (b *Bus) SubscribeChat(ctx context.Context, filters ...EventFilter) <-chan Event[ChatPayload] {
	return b.chat.Subscribe(ctx, filters...)
}

// PublishReminder publishes a reminder event
func (b *Bus) PublishReminder(eventType EventType, payload ReminderPayload) {
	b.reminders.Publish(eventType, payload)
}

// SubscribeReminders subscribes to reminder events
func (b *Bus) SubscribeReminders(ctx context.Context, filters ...EventFilter) <-chan Event[ReminderPayload] {
	return b.reminders.Subscribe(ctx, filters...)
}

// ChatHistory returns retained chat events
func (b *Bus) ChatHistory(filters ...EventFilter) []Event[ChatPayload] {
	return b.chat.History(filters...)
}

// Shutdown shuts every broker down
func (b *Bus) Shutdown() {
	b.once.Do(func() {
		b.chat.Shutdown()
		b.reminders.Shutdown()
	})
}
