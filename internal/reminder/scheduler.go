package reminder

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sevencode7/rafiq/internal/events"
	"github.com/sevencode7/rafiq/internal/prayer"
	"github.com/sevencode7/rafiq/internal/storage"
)

var (
	// ErrPermissionDenied means the notifier may not show notifications.
	ErrPermissionDenied = errors.New("notification permission denied")
	// ErrRemindersDisabled means prayer reminders are switched off in settings.
	ErrRemindersDisabled = errors.New("prayer reminders are disabled")
	// ErrNoPrayerTimes means no prayer times have been computed yet.
	ErrNoPrayerTimes = errors.New("no prayer times available")
)

const (
	DefaultInterval = 5 * time.Second
	DefaultGrace    = 30 * time.Second
	DefaultCooldown = 60 * time.Second

	notifyTitle = "حان وقت الصلاة"
)

// Notifier shows a notification to the user.
type Notifier interface {
	Permitted() bool
	Notify(title, body string) error
}

// State is the scheduler's lifecycle state.
type State int

const (
	Idle State = iota
	Polling
)

func (s State) String() string {
	if s == Polling {
		return "polling"
	}
	return "idle"
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.interval = d }
}

// WithClock overrides the time source used by the polling loop and Snapshot.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithBus publishes next-prayer and fired events to the bus.
func WithBus(b *events.Bus) Option {
	return func(s *Scheduler) { s.bus = b }
}

// Scheduler polls prayer times and notifies once per prayer boundary.
type Scheduler struct {
	store    storage.Store
	notifier Notifier
	bus      *events.Bus

	interval time.Duration
	grace    time.Duration
	cooldown time.Duration
	now      func() time.Time

	// lifecycle serializes Start and Stop.
	lifecycle sync.Mutex

	mu    sync.Mutex
	state State
	times []prayer.Time
	stop  chan struct{}
	done  chan struct{}
}

// NewScheduler creates an idle scheduler.
func NewScheduler(store storage.Store, notifier Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:    store,
		notifier: notifier,
		interval: DefaultInterval,
		grace:    DefaultGrace,
		cooldown: DefaultCooldown,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetTimes replaces the prayer-time list without changing state.
func (s *Scheduler) SetTimes(times []prayer.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.times = append([]prayer.Time(nil), times...)
}

// Start enters Polling for the given prayer times. Any previous polling
// loop is stopped first, so at most one ticker is ever live.
func (s *Scheduler) Start(times []prayer.Time) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.halt()
	s.SetTimes(times)

	switch {
	case !s.notifier.Permitted():
		return ErrPermissionDenied
	case !storage.LoadSettings(s.store).Reminders.Prayers:
		return ErrRemindersDisabled
	case len(times) == 0:
		return ErrNoPrayerTimes
	}

	stop := make(chan struct{})
	done := make(chan struct{})

	s.mu.Lock()
	s.state = Polling
	s.stop, s.done = stop, done
	s.mu.Unlock()

	s.publishNext(s.now())

	ticker := time.NewTicker(s.interval)
	go s.loop(ticker, stop, done)

	log.Debug("reminder scheduler polling", "interval", s.interval, "prayers", len(times))
	return nil
}

// Stop returns the scheduler to Idle and waits for the loop to exit.
func (s *Scheduler) Stop() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	s.halt()
}

func (s *Scheduler) halt() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.state = Idle
	s.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
}

func (s *Scheduler) loop(ticker *time.Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.Tick(s.now())
		}
	}
}

// State reports whether the scheduler is polling.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns the upcoming prayer as of the scheduler's clock.
func (s *Scheduler) Snapshot() (NextPrayer, bool) {
	s.mu.Lock()
	times := s.times
	s.mu.Unlock()
	return Next(times, s.now())
}

// Tick runs one polling step at now and reports whether a notification
// was raised. It is a no-op while prayer reminders are disabled.
func (s *Scheduler) Tick(now time.Time) bool {
	if !storage.LoadSettings(s.store).Reminders.Prayers {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.publishNextLocked(now)

	due, ok := Latest(s.times, now)
	if !ok || now.Before(due.Time) || now.Sub(due.Time) >= s.grace {
		return false
	}

	last := storage.Get(s.store, storage.KeyLastPrayerReminder, time.Time{})
	if !last.IsZero() && now.Sub(last) <= s.cooldown {
		return false
	}

	body := fmt.Sprintf("حان وقت %s. أسأل الله لك القبول.", due.Name)
	if err := s.notifier.Notify(notifyTitle, body); err != nil {
		log.Warn("failed to show prayer reminder", "prayer", due.Name, "err", err)
		return false
	}
	storage.Set(s.store, storage.KeyLastPrayerReminder, now)

	if s.bus != nil {
		s.bus.PublishReminder(events.ReminderFired, events.ReminderPayload{
			Name:  due.Name,
			Time:  due.Time,
			Title: notifyTitle,
			Body:  body,
		})
	}
	log.Info("prayer reminder fired", "prayer", due.Name, "at", due.Time.Format("15:04"))
	return true
}

func (s *Scheduler) publishNext(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishNextLocked(now)
}

func (s *Scheduler) publishNextLocked(now time.Time) {
	if s.bus == nil {
		return
	}
	next, ok := Next(s.times, now)
	if !ok {
		return
	}
	s.bus.PublishReminder(events.ReminderNextPrayer, events.ReminderPayload{
		Name:  next.Name,
		Time:  next.Time,
		Title: next.Label(),
	})
}
