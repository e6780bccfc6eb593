package tasbih

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevencode7/rafiq/internal/storage"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		points int
		want   string
	}{
		{0, LevelBeginner},
		{100, LevelBeginner},
		{101, LevelAdvanced},
		{300, LevelAdvanced},
		{301, LevelExperienced},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Level(tt.points), "points=%d", tt.points)
	}
}

func TestCounterTapAndReset(t *testing.T) {
	store := storage.NewMemoryStore()
	c := NewCounter(store)

	for i := 0; i < 3; i++ {
		c.Tap()
	}
	count, points := c.Tap()
	assert.Equal(t, 4, count)
	assert.Equal(t, 4, points)

	c.Reset()
	assert.Equal(t, 0, c.Count())
	assert.Equal(t, 4, c.Points(), "reset keeps points")

	count, points = c.Tap()
	assert.Equal(t, 1, count)
	assert.Equal(t, 5, points)
}

func TestCounterConcurrentTaps(t *testing.T) {
	c := NewCounter(storage.NewMemoryStore())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Tap()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, c.Count())
	assert.Equal(t, 50, c.Points())
}

func TestProfile(t *testing.T) {
	store := storage.NewMemoryStore()
	assert.Equal(t, Profile{}, LoadProfile(store))

	saved := SaveProfile(store, Profile{Name: "  ليث  "})
	assert.Equal(t, "ليث", saved.Name)
	assert.Equal(t, saved, LoadProfile(store))

	asMap := storage.Get(store, storage.KeyProfile, map[string]any{})
	assert.Equal(t, "ليث", asMap["name"])
}
