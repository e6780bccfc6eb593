package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevencode7/rafiq/internal/storage"
)

const envPrefix = "RAFIQ"

// ErrMissingConfig reports that a required setting has no value.
var ErrMissingConfig = errors.New("missing configuration")

// Backends for the Gemini completer.
const (
	BackendREST = "rest"
	BackendSDK  = "sdk"
)

// Config is the application-wide configuration structure
type Config struct {
	Server    ServerConfig    `mapstructure:"server" toml:"server"`
	Auth      AuthConfig      `mapstructure:"auth" toml:"auth"`
	Gemini    GeminiConfig    `mapstructure:"gemini" toml:"gemini"`
	Assistant AssistantConfig `mapstructure:"assistant" toml:"assistant"`
	Storage   StorageConfig   `mapstructure:"storage" toml:"storage"`
	Reminders ReminderConfig  `mapstructure:"reminders" toml:"reminders"`
	Log       LogConfig       `mapstructure:"log" toml:"log"`
	Debug     bool            `mapstructure:"debug" toml:"debug"`

	v    *viper.Viper
	file string
}

// ServerConfig configures the backend HTTP server.
type ServerConfig struct {
	Port            int           `mapstructure:"port" toml:"port"`
	StaticDir       string        `mapstructure:"static_dir" toml:"static_dir"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins" toml:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" toml:"shutdown_timeout"`
}

// AuthConfig configures Google sign-in and the session cookie.
type AuthConfig struct {
	SessionSecret  string `mapstructure:"session_secret" toml:"session_secret"`
	GoogleClientID string `mapstructure:"google_client_id" toml:"google_client_id"`
	SecureCookie   bool   `mapstructure:"secure_cookie" toml:"secure_cookie"`
}

// Validate reports ErrMissingConfig when sign-in cannot work.
func (a AuthConfig) Validate() error {
	var missing []string
	if a.SessionSecret == "" {
		missing = append(missing, "auth.session_secret")
	}
	if a.GoogleClientID == "" {
		missing = append(missing, "auth.google_client_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

// GeminiConfig configures the upstream model used by the backend.
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key" toml:"api_key"`
	Model   string `mapstructure:"model" toml:"model"`
	BaseURL string `mapstructure:"base_url" toml:"base_url"`
	Backend string `mapstructure:"backend" toml:"backend"`
}

// AssistantConfig configures the client-side completion strategies.
type AssistantConfig struct {
	BackendURL     string        `mapstructure:"backend_url" toml:"backend_url"`
	GeminiAPIKey   string        `mapstructure:"gemini_api_key" toml:"gemini_api_key"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" toml:"request_timeout"`
}

// StorageConfig selects the key-value driver.
type StorageConfig struct {
	Driver string `mapstructure:"driver" toml:"driver"`
	Path   string `mapstructure:"path" toml:"path"`
}

// ReminderConfig configures the prayer reminder loop.
type ReminderConfig struct {
	Interval      time.Duration `mapstructure:"interval" toml:"interval"`
	Notifications bool          `mapstructure:"notifications" toml:"notifications"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `mapstructure:"level" toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5174,
			StaticDir:       "public",
			ShutdownTimeout: 10 * time.Second,
		},
		Gemini: GeminiConfig{
			Model:   "gemini-2.0-flash",
			BaseURL: "https://generativelanguage.googleapis.com/v1beta",
			Backend: BackendREST,
		},
		Assistant: AssistantConfig{
			BackendURL:     "http://localhost:5174",
			RequestTimeout: 60 * time.Second,
		},
		Storage: StorageConfig{
			Driver: storage.DriverLibSQL,
		},
		Reminders: ReminderConfig{
			Interval:      5 * time.Second,
			Notifications: true,
		},
		Log: LogConfig{Level: "info"},
	}
}

// legacyEnv maps keys to the environment variables the web app has always read.
var legacyEnv = map[string]string{
	"server.port":           "PORT",
	"auth.session_secret":   "SESSION_SECRET",
	"auth.google_client_id": "GOOGLE_CLIENT_ID",
	"gemini.api_key":        "GEMINI_API_KEY",
}

// Options controls where Load looks for configuration.
type Options struct {
	// File is an explicit config file. When empty, config.toml is looked up
	// in Dir.
	File string
	// Dir is the rafiq directory. Defaults to ~/.rafiq.
	Dir   string
	Debug bool
}

// Load merges defaults, the config file and the environment. The environment
// wins over the file.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	if err := configureViper(v, opts); err != nil {
		return nil, err
	}
	setDefaults(v, opts.Debug)

	found, err := readConfig(v)
	if err != nil {
		return nil, err
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if found {
		cfg.file = v.ConfigFileUsed()
	}
	if opts.Debug {
		cfg.Debug = true
	}
	return cfg, nil
}

func configureViper(v *viper.Viper, opts Options) error {
	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		dir := opts.Dir
		if dir == "" {
			d, err := storage.NewPathManager().Dir()
			if err != nil {
				return fmt.Errorf("failed to resolve config directory: %w", err)
			}
			dir = d
		}
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		name := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, name, legacy); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper, debug bool) {
	d := Default()

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.static_dir", d.Server.StaticDir)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	v.SetDefault("auth.session_secret", "")
	v.SetDefault("auth.google_client_id", "")
	v.SetDefault("auth.secure_cookie", false)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", d.Gemini.Model)
	v.SetDefault("gemini.base_url", d.Gemini.BaseURL)
	v.SetDefault("gemini.backend", d.Gemini.Backend)

	v.SetDefault("assistant.backend_url", d.Assistant.BackendURL)
	v.SetDefault("assistant.gemini_api_key", "")
	v.SetDefault("assistant.request_timeout", d.Assistant.RequestTimeout)

	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.path", "")

	v.SetDefault("reminders.interval", d.Reminders.Interval)
	v.SetDefault("reminders.notifications", d.Reminders.Notifications)

	if debug {
		v.SetDefault("log.level", "debug")
	} else {
		v.SetDefault("log.level", d.Log.Level)
	}
	v.SetDefault("debug", debug)
}

// readConfig tolerates a missing file; defaults and environment still apply.
func readConfig(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{v: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	switch cfg.Gemini.Backend {
	case BackendREST, BackendSDK:
	default:
		return nil, fmt.Errorf("unknown gemini backend %q", cfg.Gemini.Backend)
	}
	return cfg, nil
}

// FileUsed returns the config file that was read, or "" when none was found.
func (c *Config) FileUsed() string {
	return c.file
}
