package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevencode7/rafiq/internal/api"
	"github.com/sevencode7/rafiq/internal/chat"
	"github.com/sevencode7/rafiq/internal/completion"
	"github.com/sevencode7/rafiq/internal/config"
	"github.com/sevencode7/rafiq/internal/gemini"
	"github.com/sevencode7/rafiq/internal/notifications"
	"github.com/sevencode7/rafiq/internal/reminder"
	"github.com/sevencode7/rafiq/internal/storage"
)

var now = time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

type recordingCompleter struct {
	mu        sync.Mutex
	grounding []string
}

func (r *recordingCompleter) Generate(_ context.Context, msgs []chat.Message, grounding []string) (gemini.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grounding = grounding
	return gemini.Result{Text: "وعليكم السلام ورحمة الله", Raw: json.RawMessage(`{}`)}, nil
}

func newApp(t *testing.T, cfg *config.Config, opts Options) *App {
	t.Helper()
	if opts.Store == nil {
		opts.Store = storage.NewMemoryStore()
	}
	opts.Now = clock
	a, err := New(context.Background(), cfg, opts)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestStrategies(t *testing.T) {
	cfg := config.Default()

	got, err := Strategies(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "proxy", got[0].Name())

	cfg.Assistant.GeminiAPIKey = "user-key"
	got, err = Strategies(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"direct", "proxy"}, []string{got[0].Name(), got[1].Name()})
	assert.IsType(t, &completion.Direct{}, got[0])
}

func TestAskThroughBackend(t *testing.T) {
	upstream := &recordingCompleter{}
	backendCfg := config.Default()
	backendCfg.Gemini.APIKey = "server-key"
	backendCfg.Server.StaticDir = t.TempDir()
	backend := httptest.NewServer(api.NewServer(backendCfg, api.WithCompleter(upstream)).Router())
	defer backend.Close()

	cfg := config.Default()
	cfg.Assistant.BackendURL = backend.URL
	a := newApp(t, cfg, Options{})

	storage.Set(a.Store, storage.KeyProfile, map[string]any{"name": "ليث"})
	a.Locate(21.42, 39.82)
	a.Chats.EnsureActive()

	reply, err := a.Assistant.Ask(context.Background(), "السلام عليكم")
	require.NoError(t, err)
	assert.Equal(t, "proxy", reply.Strategy)
	assert.Equal(t, "وعليكم السلام ورحمة الله", reply.Text)

	session, ok := a.Chats.Get(reply.ChatID)
	require.True(t, ok)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, chat.RoleAssistant, session.Messages[1].Role)

	upstream.mu.Lock()
	defer upstream.mu.Unlock()
	require.Len(t, upstream.grounding, 4)
	assert.Contains(t, upstream.grounding[0], `"name":"ليث"`)
	assert.Contains(t, upstream.grounding[0], `"lat":21.42`)
	assert.Contains(t, upstream.grounding[1], `"streakPoints":0`)
}

func TestReminders(t *testing.T) {
	t.Run("needs a location", func(t *testing.T) {
		a := newApp(t, config.Default(), Options{})
		assert.ErrorIs(t, a.StartReminders(), reminder.ErrNoPrayerTimes)
	})

	t.Run("needs permission", func(t *testing.T) {
		cfg := config.Default()
		cfg.Reminders.Notifications = false
		a := newApp(t, cfg, Options{})
		a.Locate(0, 0)
		assert.ErrorIs(t, a.StartReminders(), reminder.ErrPermissionDenied)
		assert.Equal(t, reminder.Idle, a.Scheduler.State())
	})

	t.Run("polls and notifies at the boundary", func(t *testing.T) {
		var (
			mu     sync.Mutex
			raised []notifications.Notification
		)
		cfg := config.Default()
		cfg.Reminders.Interval = time.Hour
		a := newApp(t, cfg, Options{Sinks: []notifications.Sink{func(n notifications.Notification) {
			mu.Lock()
			defer mu.Unlock()
			raised = append(raised, n)
		}}})

		times := a.Locate(21.42, 39.82)
		require.Len(t, times, 5)
		require.NoError(t, a.StartReminders())
		assert.Equal(t, reminder.Polling, a.Scheduler.State())

		next := a.Context.Build().NextPrayer
		require.NotNil(t, next)
		assert.Equal(t, "الظهر", next.Name)

		assert.True(t, a.Scheduler.Tick(now.Add(time.Hour+10*time.Second)))

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, raised, 1)
		assert.Contains(t, raised[0].Body, "الظهر")
	})
}

func TestOpenStoreFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Driver = storage.DriverSQLite
	cfg.Storage.Path = filepath.Join(t.TempDir(), "state.db")

	a, err := New(context.Background(), cfg, Options{Now: clock})
	require.NoError(t, err)
	a.Tasbih.Tap()
	require.NoError(t, a.Close())

	b, err := New(context.Background(), cfg, Options{Now: clock})
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, 1, b.Tasbih.Points())
}

func TestProxyFailureSurfacesUnavailable(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer backend.Close()

	cfg := config.Default()
	cfg.Assistant.BackendURL = backend.URL
	a := newApp(t, cfg, Options{})
	a.Chats.EnsureActive()

	_, err := a.Assistant.Ask(context.Background(), "مرحبا")
	assert.Error(t, err)

	active, ok := a.Chats.Active()
	require.True(t, ok)
	assert.Len(t, active.Messages, 1, "only the user turn is kept")
}
