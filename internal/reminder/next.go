// Package reminder polls the day's prayer times and raises a notification
// once when each prayer time is reached.
package reminder

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/sevencode7/rafiq/internal/prayer"
)

// NextPrayer is a named prayer at an absolute time.
type NextPrayer struct {
	Name string    `json:"name"`
	Time time.Time `json:"time"`
}

// Label renders the prayer name followed by its HH:MM time.
func (n NextPrayer) Label() string {
	return n.Name + " — " + n.Time.Format("15:04")
}

// Next returns the first prayer in times that falls strictly after now on
// now's calendar day. Entries that do not parse are skipped.
func Next(times []prayer.Time, now time.Time) (NextPrayer, bool) {
	for _, t := range times {
		at, err := prayer.ParseOnDay(t.Time, now)
		if err != nil {
			log.Debug("skipping unparsable prayer time", "name", t.Name, "time", t.Time)
			continue
		}
		if at.After(now) {
			return NextPrayer{Name: t.Name, Time: at}, true
		}
	}
	return NextPrayer{}, false
}

// Latest returns the most recent prayer at or before now on now's calendar
// day: the boundary that was last crossed.
func Latest(times []prayer.Time, now time.Time) (NextPrayer, bool) {
	var (
		found NextPrayer
		ok    bool
	)
	for _, t := range times {
		at, err := prayer.ParseOnDay(t.Time, now)
		if err != nil {
			continue
		}
		if !at.After(now) && (!ok || at.After(found.Time)) {
			found, ok = NextPrayer{Name: t.Name, Time: at}, true
		}
	}
	return found, ok
}
