package notifications

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ErrNotPermitted is returned by Notify when the user has not granted
// notification permission.
var ErrNotPermitted = errors.New("notifications not permitted")

// Kind classifies a notification
type Kind string

const (
	KindPrayer Kind = "prayer"
	KindAzkar  Kind = "azkar"
	KindTest   Kind = "test"
)

// Status represents the current status of a notification
type Status string

const (
	StatusPending   Status = "pending"
	StatusDismissed Status = "dismissed"
	StatusExpired   Status = "expired"
)

// Notification represents a single notification
type Notification struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Kind        Kind       `json:"kind"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	DismissedAt *time.Time `json:"dismissed_at,omitempty"`
}

// Sink receives every notification as it is raised, e.g. to print or log it.
type Sink func(Notification)

// Option configures a Center
type Option func(*Center)

// WithPermission sets the initial permission state.
func WithPermission(granted bool) Option {
	return func(c *Center) { c.permitted = granted }
}

// WithTTL sets how long a notification stays active. Zero keeps it until dismissed.
func WithTTL(ttl time.Duration) Option {
	return func(c *Center) { c.ttl = ttl }
}

// WithMaxItems bounds how many notifications are retained.
func WithMaxItems(n int) Option {
	return func(c *Center) { c.maxItems = n }
}

// WithSink adds a delivery sink.
func WithSink(s Sink) Option {
	return func(c *Center) { c.sinks = append(c.sinks, s) }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Center) { c.now = now }
}

// Center is the in-process notification surface: it gates delivery on a
// permission flag, fans out to sinks and keeps a bounded inbox.
type Center struct {
	mu        sync.RWMutex
	permitted bool
	items     []*Notification
	maxItems  int
	ttl       time.Duration
	sinks     []Sink
	now       func() time.Time
}

// NewCenter creates a notification center. Permission starts denied.
func NewCenter(opts ...Option) *Center {
	c := &Center{
		maxItems: 100,
		ttl:      10 * time.Minute,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LogSink delivers notifications to the structured logger.
func LogSink(n Notification) {
	log.Info("notification", "kind", n.Kind, "title", n.Title, "body", n.Body)
}

// Permitted reports whether notifications may be shown.
func (c *Center) Permitted() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.permitted
}

// SetPermission grants or revokes notification permission.
func (c *Center) SetPermission(granted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.permitted = granted
}

// Notify raises a prayer notification.
func (c *Center) Notify(title, body string) error {
	_, err := c.Raise(KindPrayer, title, body)
	return err
}

// Raise records a notification of the given kind and delivers it to every sink.
func (c *Center) Raise(kind Kind, title, body string) (Notification, error) {
	c.mu.Lock()
	if !c.permitted {
		c.mu.Unlock()
		return Notification{}, ErrNotPermitted
	}

	n := &Notification{
		ID:        uuid.New().String(),
		Title:     title,
		Body:      body,
		Kind:      kind,
		Status:    StatusPending,
		CreatedAt: c.now(),
	}
	if c.ttl > 0 {
		expires := n.CreatedAt.Add(c.ttl)
		n.ExpiresAt = &expires
	}

	c.items = append(c.items, n)
	if c.maxItems > 0 && len(c.items) > c.maxItems {
		c.items = append(c.items[:0], c.items[len(c.items)-c.maxItems:]...)
	}
	out := *n
	sinks := c.sinks
	c.mu.Unlock()

	for _, s := range sinks {
		s(out)
	}
	return out, nil
}

// Active returns pending notifications that have not expired, oldest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var active []Notification
	for _, n := range c.items {
		if n.Status == StatusPending && n.ExpiresAt != nil && !n.ExpiresAt.After(now) {
			n.Status = StatusExpired
		}
		if n.Status == StatusPending {
			active = append(active, *n)
		}
	}
	return active
}

// Dismiss marks a notification as dismissed
func (c *Center) Dismiss(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, n := range c.items {
		if n.ID != id {
			continue
		}
		now := c.now()
		n.Status = StatusDismissed
		n.DismissedAt = &now
		return nil
	}
	return fmt.Errorf("notification not found: %s", id)
}
