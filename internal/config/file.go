package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// ErrConfigExists is returned by WriteDefault when the file is already there.
var ErrConfigExists = errors.New("config file already exists")

// ErrNoConfigFile is returned by Watch when no file was loaded.
var ErrNoConfigFile = errors.New("no config file loaded")

// WriteDefault writes the built-in configuration to path as TOML.
func WriteDefault(path string, overwrite bool) error {
	return Write(path, Default(), overwrite)
}

// Write encodes cfg to path as TOML.
func Write(path string, cfg *Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file %s: %w", path, err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := toml.NewEncoder(writer).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config to %s: %w", path, err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush config file %s: %w", path, err)
	}

	log.Debug("Config written", "file", path)
	return nil
}

// Watch reloads the configuration whenever its file changes and passes the
// new value to onChange. Decode failures are logged and the change skipped.
func (c *Config) Watch(onChange func(*Config)) error {
	if c.FileUsed() == "" {
		return ErrNoConfigFile
	}

	c.v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Config file changed", "file", e.Name, "op", e.Op.String())
		next, err := decode(c.v)
		if err != nil {
			log.Warn("Ignoring invalid config", "error", err)
			return
		}
		next.Debug = next.Debug || c.Debug
		next.file = c.file
		onChange(next)
	})
	c.v.WatchConfig()
	return nil
}
