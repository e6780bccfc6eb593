package events

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Assistant events, in the order a single ask produces them
	ChatUserMessage      EventType = "chat.message.user"
	ChatTyping           EventType = "chat.typing"
	ChatAssistantMessage EventType = "chat.message.assistant"
	ChatError            EventType = "chat.error"

	// Reminder events
	ReminderNextPrayer EventType = "reminder.next_prayer"
	ReminderFired      EventType = "reminder.fired"
)

// Event represents a generic event in the system
type Event[T any] struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Payload   T         `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id,omitempty"`
}

// EventFilter defines a filter function for events
type EventFilter func(EventType, string) bool

// OfType accepts events whose type is one of types.
func OfType(types ...EventType) EventFilter {
	return func(t EventType, _ string) bool {
		for _, want := range types {
			if t == want {
				return true
			}
		}
		return false
	}
}

// ForSession accepts events tagged with sessionID.
func ForSession(sessionID string) EventFilter {
	return func(_ EventType, sid string) bool { return sid == sessionID }
}

// PublishOption defines options for publishing events
type PublishOption func(*PublishOptions)

// PublishOptions contains options for publishing events
type PublishOptions struct {
	SessionID string
}

// WithSessionID sets the session ID for the event
func WithSessionID(sessionID string) PublishOption {
	return func(opts *PublishOptions) {
		opts.SessionID = sessionID
	}
}

// ChatPayload carries a chat turn or status change for the UI surface
type ChatPayload struct {
	ChatID  string `json:"chat_id"`
	Role    string `json:"role,omitempty"`
	Content string `json:"content"`
}

// ReminderPayload carries the next-prayer label or a fired reminder
type ReminderPayload struct {
	Name  string    `json:"name"`
	Time  time.Time `json:"time"`
	Title string    `json:"title,omitempty"`
	Body  string    `json:"body,omitempty"`
}
