// Package tasbih keeps the dhikr counter, reward points and the user profile.
package tasbih

import (
	"strings"
	"sync"

	"github.com/sevencode7/rafiq/internal/storage"
)

// Activity levels by total points.
const (
	LevelBeginner     = "مبتدئ"
	LevelAdvanced     = "متقدم"
	LevelExperienced  = "متمرس"
	advancedThreshold = 100
	expertThreshold   = 300
)

// Level returns the activity badge for a point total.
func Level(points int) string {
	switch {
	case points > expertThreshold:
		return LevelExperienced
	case points > advancedThreshold:
		return LevelAdvanced
	default:
		return LevelBeginner
	}
}

// Profile is the user's self-description shared with the assistant.
type Profile struct {
	Name string `json:"name"`
}

// Counter is the tasbih counter. Each tap earns one point; resetting the
// count keeps the points.
type Counter struct {
	store storage.Store
	mu    sync.Mutex
}

// NewCounter creates a counter backed by store.
func NewCounter(store storage.Store) *Counter {
	return &Counter{store: store}
}

// Tap increments the count and the points and returns both.
func (c *Counter) Tap() (count, points int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	count = storage.Get(c.store, storage.KeyTasbihCount, 0) + 1
	points = storage.Get(c.store, storage.KeyPoints, 0) + 1
	storage.Set(c.store, storage.KeyTasbihCount, count)
	storage.Set(c.store, storage.KeyPoints, points)
	return count, points
}

// Reset zeroes the count.
func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	storage.Set(c.store, storage.KeyTasbihCount, 0)
}

// Count returns the current count.
func (c *Counter) Count() int {
	return storage.Get(c.store, storage.KeyTasbihCount, 0)
}

// Points returns the total points.
func (c *Counter) Points() int {
	return storage.Get(c.store, storage.KeyPoints, 0)
}

// LoadProfile returns the stored profile, empty if none.
func LoadProfile(s storage.Store) Profile {
	return storage.Get(s, storage.KeyProfile, Profile{})
}

// SaveProfile stores the profile with a trimmed name.
func SaveProfile(s storage.Store, p Profile) Profile {
	p.Name = strings.TrimSpace(p.Name)
	storage.Set(s, storage.KeyProfile, p)
	return p
}
