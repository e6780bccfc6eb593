package events

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const (
	defaultBufferSize = 64
	defaultMaxEvents  = 256
)

// Broker implements a generic publish-subscribe broker with type safety
type Broker[T any] struct {
	subs         map[chan Event[T]]SubscriberInfo
	mu           sync.RWMutex
	done         chan struct{}
	maxEvents    int
	bufferSize   int
	eventHistory []Event[T]
	historyMu    sync.RWMutex
	shutdownOnce sync.Once
}

// SubscriberInfo contains metadata about a subscriber
type SubscriberInfo struct {
	ID      string
	Filters []EventFilter
	Created time.Time
}

// NewBroker creates a new broker with default settings
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithOptions[T](defaultBufferSize, defaultMaxEvents)
}

// NewBrokerWithOptions creates a new broker with custom settings
func NewBrokerWithOptions[T any](channelBufferSize, maxEvents int) *Broker[T] {
	return &Broker[T]{
		subs:         make(map[chan Event[T]]SubscriberInfo),
		done:         make(chan struct{}),
		maxEvents:    maxEvents,
		bufferSize:   channelBufferSize,
		eventHistory: make([]Event[T], 0, maxEvents),
	}
}

// Publish publishes an event to all subscribers. It never blocks: a
// subscriber whose buffer is full misses the event.
func (b *Broker[T]) Publish(eventType EventType, payload T, opts ...PublishOption) {
	select {
	case <-b.done:
		return
	default:
	}

	options := &PublishOptions{}
	for _, opt := range opts {
		opt(options)
	}

	event := Event[T]{
		ID:        uuid.New().String(),
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
		SessionID: options.SessionID,
	}

	b.addToHistory(event)

	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch, info := range b.subs {
		if !matches(event, info.Filters) {
			continue
		}
		select {
		case ch <- event:
		default:
			log.Warn("event channel full, dropping event", "subscriber", info.ID, "type", event.Type)
		}
	}
}

// Subscribe creates a new subscription with optional filters. The channel
// is closed when ctx is done or the broker shuts down.
func (b *Broker[T]) Subscribe(ctx context.Context, filters ...EventFilter) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event[T], b.bufferSize)
	select {
	case <-b.done:
		close(ch)
		return ch
	default:
	}

	b.subs[ch] = SubscriberInfo{
		ID:      uuid.New().String(),
		Filters: filters,
		Created: time.Now(),
	}

	go func() {
		select {
		case <-ctx.Done():
		case <-b.done:
		}
		b.unsubscribe(ch)
	}()

	return ch
}

func (b *Broker[T]) unsubscribe(ch chan Event[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subs[ch]; exists {
		delete(b.subs, ch)
		close(ch)
	}
}

func matches[T any](event Event[T], filters []EventFilter) bool {
	for _, filter := range filters {
		if !filter(event.Type, event.SessionID) {
			return false
		}
	}
	return true
}

func (b *Broker[T]) addToHistory(event Event[T]) {
	b.historyMu.Lock()
	defer b.historyMu.Unlock()

	b.eventHistory = append(b.eventHistory, event)
	if len(b.eventHistory) > b.maxEvents {
		b.eventHistory = append(b.eventHistory[:0], b.eventHistory[len(b.eventHistory)-b.maxEvents:]...)
	}
}

// History returns recent events matching the given filters
func (b *Broker[T]) History(filters ...EventFilter) []Event[T] {
	b.historyMu.RLock()
	defer b.historyMu.RUnlock()

	var result []Event[T]
	for _, event := range b.eventHistory {
		if matches(event, filters) {
			result = append(result, event)
		}
	}
	return result
}

// Shutdown closes every subscriber channel. Later publishes are dropped.
func (b *Broker[T]) Shutdown() {
	b.shutdownOnce.Do(func() {
		close(b.done)

		b.mu.Lock()
		defer b.mu.Unlock()

		for ch := range b.subs {
			delete(b.subs, ch)
			close(ch)
		}
	})
}
