package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sevencode7/rafiq/internal/chat"
	"github.com/sevencode7/rafiq/internal/completion"
	"github.com/sevencode7/rafiq/internal/events"
	"github.com/sevencode7/rafiq/internal/storage"
)

var (
	// ErrNoActiveChat is returned by Ask when no chat session is active.
	ErrNoActiveChat = errors.New("no active chat")
	// ErrAssistantUnavailable is returned when every completion strategy failed.
	ErrAssistantUnavailable = errors.New("assistant unavailable")
	// ErrEmptyMessage is returned by Ask for blank input.
	ErrEmptyMessage = errors.New("empty message")
)

// UnavailableMessage is shown to the user when no strategy could answer.
const UnavailableMessage = "تعذّر الاتصال بالمساعد حالياً."

const DefaultRequestTimeout = 60 * time.Second

// Reply is the outcome of a successful Ask.
type Reply struct {
	ChatID   string `json:"chat_id"`
	Text     string `json:"text"`
	Strategy string `json:"strategy"`
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithBus publishes chat events for the UI.
func WithBus(b *events.Bus) Option {
	return func(o *Orchestrator) { o.bus = b }
}

// WithRequestTimeout bounds each strategy attempt.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// Orchestrator coordinates the chat repository, the context builder and the
// ordered completion strategies.
type Orchestrator struct {
	repo       *chat.Repository
	builder    *Builder
	store      storage.Store
	strategies []completion.Strategy
	bus        *events.Bus
	timeout    time.Duration

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New creates an orchestrator. Strategies are tried in order; the first
// success wins. store supplies the user profile and location.
func New(repo *chat.Repository, builder *Builder, store storage.Store, strategies []completion.Strategy, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		repo:       repo,
		builder:    builder,
		store:      store,
		strategies: strategies,
		timeout:    DefaultRequestTimeout,
		locks:      make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) lockFor(chatID string) *sync.Mutex {
	o.locksMu.Lock()
	defer o.locksMu.Unlock()

	m, ok := o.locks[chatID]
	if !ok {
		m = &sync.Mutex{}
		o.locks[chatID] = m
	}
	return m
}

func (o *Orchestrator) publish(t events.EventType, chatID string, role chat.Role, content string) {
	if o.bus == nil {
		return
	}
	o.bus.PublishChat(t, events.ChatPayload{ChatID: chatID, Role: string(role), Content: content})
}

// profile returns the stored profile merged with the last location.
func (o *Orchestrator) profile() map[string]any {
	p := storage.Get(o.store, storage.KeyProfile, map[string]any{})
	if p == nil {
		p = map[string]any{}
	}
	p["location"] = storage.LoadLocation(o.store)
	return p
}

// Ask appends text as a user turn to the active chat, asks each strategy in
// turn and appends the first successful reply. Calls on the same chat are
// serialized.
func (o *Orchestrator) Ask(ctx context.Context, text string) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, ErrEmptyMessage
	}

	active, ok := o.repo.Active()
	if !ok {
		return Reply{}, ErrNoActiveChat
	}

	lock := o.lockFor(active.ID)
	lock.Lock()
	defer lock.Unlock()

	o.repo.Append(active.ID, chat.RoleUser, text)
	o.publish(events.ChatUserMessage, active.ID, chat.RoleUser, text)
	o.publish(events.ChatTyping, active.ID, chat.RoleAssistant, "")

	session, ok := o.repo.Get(active.ID)
	if !ok {
		return Reply{}, fmt.Errorf("chat %s was deleted: %w", active.ID, ErrNoActiveChat)
	}
	meta := completion.Meta{Profile: o.profile(), Context: o.builder.Build()}

	var lastErr error
	for _, s := range o.strategies {
		answer, err := o.attempt(ctx, s, session.Messages, meta)
		if err == nil {
			o.repo.Append(active.ID, chat.RoleAssistant, answer)
			o.publish(events.ChatAssistantMessage, active.ID, chat.RoleAssistant, answer)
			return Reply{ChatID: active.ID, Text: answer, Strategy: s.Name()}, nil
		}

		log.Warn("completion strategy failed", "strategy", s.Name(), "chat", active.ID, "err", err)
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	o.publish(events.ChatError, active.ID, chat.RoleAssistant, UnavailableMessage)
	if lastErr == nil {
		return Reply{ChatID: active.ID}, ErrAssistantUnavailable
	}
	return Reply{ChatID: active.ID}, fmt.Errorf("%w: %w", ErrAssistantUnavailable, lastErr)
}

func (o *Orchestrator) attempt(ctx context.Context, s completion.Strategy, msgs []chat.Message, meta completion.Meta) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	return s.Complete(ctx, msgs, meta)
}
