// Package app wires the client-side components of rafiq around one local
// store: chats, the assistant, prayer reminders, notifications and the
// tasbih counter.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sevencode7/rafiq/internal/assistant"
	"github.com/sevencode7/rafiq/internal/chat"
	"github.com/sevencode7/rafiq/internal/completion"
	"github.com/sevencode7/rafiq/internal/config"
	"github.com/sevencode7/rafiq/internal/events"
	"github.com/sevencode7/rafiq/internal/gemini"
	"github.com/sevencode7/rafiq/internal/notifications"
	"github.com/sevencode7/rafiq/internal/prayer"
	"github.com/sevencode7/rafiq/internal/reminder"
	"github.com/sevencode7/rafiq/internal/storage"
	"github.com/sevencode7/rafiq/internal/tasbih"
)

// App holds the client components built from one configuration
type App struct {
	Config        *config.Config
	Store         storage.Store
	Chats         *chat.Repository
	Bus           *events.Bus
	Notifications *notifications.Center
	Scheduler     *reminder.Scheduler
	Context       *assistant.Builder
	Assistant     *assistant.Orchestrator
	Tasbih        *tasbih.Counter

	clock  func() time.Time
	closer io.Closer
}

// Options overrides the defaults New derives from configuration
type Options struct {
	// Store replaces the on-disk store.
	Store storage.Store
	// HTTPClient is used by the proxy strategy.
	HTTPClient *http.Client
	// Now is the clock shared by every component.
	Now func() time.Time
	// Sinks receive raised notifications in addition to the log.
	Sinks []notifications.Sink
}

// New builds the client application.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	app := &App{Config: cfg, Store: opts.Store, clock: opts.Now}
	if app.Store == nil {
		store, err := openStore(cfg.Storage)
		if err != nil {
			return nil, err
		}
		app.Store = store
		app.closer = store
	}

	app.Bus = events.NewBus()
	app.Chats = chat.NewRepository(app.Store)
	app.Tasbih = tasbih.NewCounter(app.Store)

	centerOpts := []notifications.Option{
		notifications.WithPermission(cfg.Reminders.Notifications),
		notifications.WithSink(notifications.LogSink),
		notifications.WithClock(opts.Now),
	}
	for _, s := range opts.Sinks {
		centerOpts = append(centerOpts, notifications.WithSink(s))
	}
	app.Notifications = notifications.NewCenter(centerOpts...)

	app.Scheduler = reminder.NewScheduler(app.Store, app.Notifications,
		reminder.WithInterval(cfg.Reminders.Interval),
		reminder.WithClock(opts.Now),
		reminder.WithBus(app.Bus),
	)

	strategies, err := Strategies(ctx, cfg, opts.HTTPClient)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Context = assistant.NewBuilder(app.Store, app.Scheduler, opts.Now)
	app.Assistant = assistant.New(app.Chats, app.Context, app.Store, strategies,
		assistant.WithBus(app.Bus),
		assistant.WithRequestTimeout(cfg.Assistant.RequestTimeout),
	)

	log.Debug("Client initialized", "strategies", len(strategies), "driver", cfg.Storage.Driver)
	return app, nil
}

func openStore(sc config.StorageConfig) (*storage.SQLStore, error) {
	path := sc.Path
	if path == "" {
		p, err := storage.NewPathManager().StateDatabasePath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve state database path: %w", err)
		}
		path = p
	}
	store, err := storage.Open(sc.Driver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	return store, nil
}

// Strategies returns the ordered completion strategies for cfg. The backend
// proxy is always present; calling Gemini directly is added in front of it
// only when the user configured their own key.
func Strategies(ctx context.Context, cfg *config.Config, hc *http.Client) ([]completion.Strategy, error) {
	var out []completion.Strategy

	if key := cfg.Assistant.GeminiAPIKey; key != "" {
		var c gemini.Completer
		if cfg.Gemini.Backend == config.BackendSDK {
			sdk, err := gemini.NewSDKClient(ctx, key, cfg.Gemini.Model)
			if err != nil {
				return nil, err
			}
			c = sdk
		} else {
			restOpts := []gemini.Option{gemini.WithBaseURL(cfg.Gemini.BaseURL), gemini.WithModel(cfg.Gemini.Model)}
			if hc != nil {
				restOpts = append(restOpts, gemini.WithHTTPClient(hc))
			}
			c = gemini.NewRESTClient(key, restOpts...)
		}
		out = append(out, completion.NewDirect(c))
	}

	return append(out, completion.NewProxy(cfg.Assistant.BackendURL, hc)), nil
}

// Locate stores the user's location and returns the day's prayer times
// for it.
func (app *App) Locate(lat, lon float64) []prayer.Time {
	now := app.clock()
	storage.SaveLocation(app.Store, storage.Location{Lat: lat, Lon: lon, At: now})
	return prayer.Approx(lat, lon, now)
}

// PrayerTimes returns today's times for the stored location.
func (app *App) PrayerTimes() ([]prayer.Time, bool) {
	loc := storage.LoadLocation(app.Store)
	if loc == nil {
		return nil, false
	}
	return prayer.Approx(loc.Lat, loc.Lon, app.clock()), true
}

// StartReminders starts polling for the stored location.
func (app *App) StartReminders() error {
	times, ok := app.PrayerTimes()
	if !ok {
		return reminder.ErrNoPrayerTimes
	}
	return app.Scheduler.Start(times)
}

// Close closes all app resources
func (app *App) Close() error {
	var errs []error

	if app.Scheduler != nil {
		app.Scheduler.Stop()
	}
	if app.Bus != nil {
		app.Bus.Shutdown()
	}
	if app.closer != nil {
		if err := app.closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		}
	}

	return errors.Join(errs...)
}
