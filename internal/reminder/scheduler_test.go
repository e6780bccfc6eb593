package reminder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/sevencode7/rafiq/internal/events"
	"github.com/sevencode7/rafiq/internal/notifications"
	"github.com/sevencode7/rafiq/internal/prayer"
	"github.com/sevencode7/rafiq/internal/storage"
)

type countingNotifier struct {
	mu        sync.Mutex
	permitted bool
	bodies    []string
}

func (n *countingNotifier) Permitted() bool { return n.permitted }

func (n *countingNotifier) Notify(_, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bodies = append(n.bodies, body)
	return nil
}

func (n *countingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.bodies)
}

var day = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

func dhuhr() time.Time { return day.Add(12 * time.Hour) }

func TestNext(t *testing.T) {
	times := prayer.Approx(0, 0, day)

	next, ok := Next(times, dhuhr().Add(-time.Second))
	require.True(t, ok)
	assert.Equal(t, prayer.Dhuhr, next.Name)
	assert.True(t, dhuhr().Equal(next.Time))

	next, ok = Next(times, dhuhr())
	require.True(t, ok)
	assert.Equal(t, prayer.Asr, next.Name, "a time equal to now is not upcoming")

	_, ok = Next(times, day.Add(21*time.Hour))
	assert.False(t, ok, "nothing left today")

	_, ok = Next(nil, dhuhr())
	assert.False(t, ok)

	next, ok = Next([]prayer.Time{{Name: "bad", Time: "xx"}, {Name: prayer.Isha, Time: "٢٠:٠٠"}}, dhuhr())
	require.True(t, ok)
	assert.Equal(t, prayer.Isha, next.Name)
}

func TestLatest(t *testing.T) {
	times := prayer.Approx(0, 0, day)

	got, ok := Latest(times, dhuhr().Add(10*time.Second))
	require.True(t, ok)
	assert.Equal(t, prayer.Dhuhr, got.Name)

	_, ok = Latest(times, day.Add(4*time.Hour))
	assert.False(t, ok)
}

func TestTickFiresOncePerBoundary(t *testing.T) {
	store := storage.NewMemoryStore()
	n := &countingNotifier{permitted: true}
	s := NewScheduler(store, n)
	s.SetTimes(prayer.Approx(0, 0, day))

	T := dhuhr()
	assert.False(t, s.Tick(T.Add(-time.Second)), "no reminder before the boundary")
	assert.Equal(t, 0, n.count())

	assert.True(t, s.Tick(T.Add(2*time.Second)))
	for _, off := range []time.Duration{7, 12, 17, 22, 27} {
		assert.False(t, s.Tick(T.Add(off*time.Second)), "repeat within cooldown at +%ds", off)
	}
	assert.False(t, s.Tick(T.Add(30*time.Second)), "outside the grace window")
	require.Equal(t, 1, n.count())
	assert.Contains(t, n.bodies[0], prayer.Dhuhr)

	last := storage.Get(store, storage.KeyLastPrayerReminder, time.Time{})
	assert.True(t, T.Add(2*time.Second).Equal(last))

	assert.True(t, s.Tick(day.Add(15*time.Hour+time.Second)), "next boundary fires again")
	assert.Equal(t, 2, n.count())
}

func TestTickCooldownSurvivesRestart(t *testing.T) {
	store := storage.NewMemoryStore()
	T := dhuhr()
	storage.Set(store, storage.KeyLastPrayerReminder, T.Add(-40*time.Second))

	n := &countingNotifier{permitted: true}
	s := NewScheduler(store, n)
	s.SetTimes(prayer.Approx(0, 0, day))

	assert.False(t, s.Tick(T.Add(time.Second)))
	assert.True(t, s.Tick(T.Add(29*time.Second)), "cooldown elapsed since the stored firing")
}

func TestTickDisabledIsNoop(t *testing.T) {
	store := storage.NewMemoryStore()
	storage.SaveSettings(store, storage.Settings{})
	n := &countingNotifier{permitted: true}
	s := NewScheduler(store, n)
	s.SetTimes(prayer.Approx(0, 0, day))

	assert.False(t, s.Tick(dhuhr()))
	assert.Equal(t, 0, n.count())
	assert.True(t, storage.Get(store, storage.KeyLastPrayerReminder, time.Time{}).IsZero())
}

func TestTickPublishesEvents(t *testing.T) {
	bus := events.NewBus()
	defer bus.Shutdown()

	s := NewScheduler(storage.NewMemoryStore(), &countingNotifier{permitted: true}, WithBus(bus))
	s.SetTimes(prayer.Approx(0, 0, day))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := bus.SubscribeReminders(ctx, events.OfType(events.ReminderFired))

	require.True(t, s.Tick(dhuhr()))
	ev := <-ch
	assert.Equal(t, prayer.Dhuhr, ev.Payload.Name)
	assert.Equal(t, notifyTitle, ev.Payload.Title)
}

func TestStartPreconditions(t *testing.T) {
	times := prayer.Approx(0, 0, day)

	t.Run("permission denied", func(t *testing.T) {
		s := NewScheduler(storage.NewMemoryStore(), notifications.NewCenter())
		assert.ErrorIs(t, s.Start(times), ErrPermissionDenied)
		assert.Equal(t, Idle, s.State())
	})

	t.Run("reminders disabled", func(t *testing.T) {
		store := storage.NewMemoryStore()
		storage.SaveSettings(store, storage.Settings{})
		s := NewScheduler(store, &countingNotifier{permitted: true})
		assert.ErrorIs(t, s.Start(times), ErrRemindersDisabled)
		assert.Equal(t, Idle, s.State())
	})

	t.Run("no times", func(t *testing.T) {
		s := NewScheduler(storage.NewMemoryStore(), &countingNotifier{permitted: true})
		assert.ErrorIs(t, s.Start(nil), ErrNoPrayerTimes)
		assert.Equal(t, Idle, s.State())
	})
}

func TestPollingLoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := dhuhr().Add(time.Second)
	center := notifications.NewCenter(notifications.WithPermission(true))
	s := NewScheduler(storage.NewMemoryStore(), center,
		WithInterval(5*time.Millisecond),
		WithClock(func() time.Time { return clock }),
	)

	times := prayer.Approx(0, 0, day)
	require.NoError(t, s.Start(times))
	require.NoError(t, s.Start(times), "restart replaces the running loop")
	assert.Equal(t, Polling, s.State())

	require.Eventually(t, func() bool { return len(center.Active()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Len(t, center.Active(), 1, "one reminder for one boundary")

	next, ok := s.Snapshot()
	require.True(t, ok)
	assert.Equal(t, prayer.Asr, next.Name)

	s.Stop()
	s.Stop()
	assert.Equal(t, Idle, s.State())
}
