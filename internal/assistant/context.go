// Package assistant turns a user message into a persisted exchange with the
// model, grounded in a snapshot of the user's current state.
package assistant

import (
	"time"

	"github.com/sevencode7/rafiq/internal/reminder"
	"github.com/sevencode7/rafiq/internal/storage"
)

// Context is the grounding snapshot sent with every completion request.
// It is derived on demand and never stored.
type Context struct {
	Now          time.Time            `json:"now"`
	Settings     storage.Settings     `json:"settings"`
	Memory       storage.Memory       `json:"memory"`
	Location     *storage.Location    `json:"location"`
	NextPrayer   *reminder.NextPrayer `json:"nextPrayer"`
	StreakPoints int                  `json:"streakPoints"`
}

// NextPrayerSource reports the upcoming prayer, if one is known.
type NextPrayerSource interface {
	Snapshot() (reminder.NextPrayer, bool)
}

// Builder assembles a Context from the store, the clock and the prayer
// schedule. Build has no side effects.
type Builder struct {
	store   storage.Store
	prayers NextPrayerSource
	now     func() time.Time
}

// NewBuilder creates a context builder. prayers may be nil; now defaults
// to time.Now.
func NewBuilder(store storage.Store, prayers NextPrayerSource, now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{store: store, prayers: prayers, now: now}
}

// Build returns the current snapshot.
func (b *Builder) Build() Context {
	c := Context{
		Now:          b.now(),
		Settings:     storage.LoadSettings(b.store),
		Memory:       storage.LoadMemory(b.store),
		Location:     storage.LoadLocation(b.store),
		StreakPoints: storage.Get(b.store, storage.KeyPoints, 0),
	}
	if b.prayers != nil {
		if next, ok := b.prayers.Snapshot(); ok {
			c.NextPrayer = &next
		}
	}
	return c
}
