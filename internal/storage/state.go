package storage

import "time"

// Settings are the user's assistant toggles.
type Settings struct {
	Reminders ReminderSettings `json:"reminders"`
}

// ReminderSettings selects which reminders are enabled.
type ReminderSettings struct {
	Prayers bool `json:"prayers"`
	Azkar   bool `json:"azkar"`
}

// Memory holds free-text notes the user asked the assistant to remember.
type Memory struct {
	Notes string `json:"notes"`
}

// Location is the last captured position.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	// At is when the position was captured.
	At time.Time `json:"at"`
}

// DefaultSettings enables prayer reminders only.
func DefaultSettings() Settings {
	return Settings{Reminders: ReminderSettings{Prayers: true, Azkar: false}}
}

func LoadSettings(s Store) Settings    { return Get(s, KeySettings, DefaultSettings()) }
func SaveSettings(s Store, v Settings) { Set(s, KeySettings, v) }

func LoadMemory(s Store) Memory    { return Get(s, KeyMemory, Memory{}) }
func SaveMemory(s Store, m Memory) { Set(s, KeyMemory, m) }

// LoadLocation returns nil when no location has been captured.
func LoadLocation(s Store) *Location     { return Get[*Location](s, KeyLocation, nil) }
func SaveLocation(s Store, loc Location) { Set(s, KeyLocation, loc) }
