// Package prayer provides placeholder prayer-time estimation and calendar
// helpers. Times are not astronomically accurate.
package prayer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Time is a named prayer at a wall-clock time of day ("HH:MM").
type Time struct {
	Name string `json:"name"`
	Time string `json:"time"`
}

// Prayer names in daily order.
const (
	Fajr    = "الفجر"
	Dhuhr   = "الظهر"
	Asr     = "العصر"
	Maghrib = "المغرب"
	Isha    = "العشاء"
)

var offsets = []struct {
	name  string
	hours int
}{
	{Fajr, 0}, {Dhuhr, 7}, {Asr, 10}, {Maghrib, 13}, {Isha, 15},
}

// Approx returns the day's prayer times for a location. The estimate
// ignores the coordinates: it anchors Fajr at 05:00 and offsets the rest.
func Approx(lat, lon float64, date time.Time) []Time {
	base := time.Date(date.Year(), date.Month(), date.Day(), 5, 0, 0, 0, date.Location())
	out := make([]Time, 0, len(offsets))
	for _, o := range offsets {
		t := base.Add(time.Duration(o.hours) * time.Hour)
		out = append(out, Time{Name: o.name, Time: t.Format("15:04")})
	}
	return out
}

// latinDigits maps Arabic-Indic and Extended Arabic-Indic digits to ASCII.
var latinDigits = runes.Map(func(r rune) rune {
	switch {
	case r >= '٠' && r <= '٩':
		return '0' + (r - '٠')
	case r >= '۰' && r <= '۹':
		return '0' + (r - '۰')
	}
	return r
})

// NormalizeDigits rewrites any Arabic-Indic digits in s as ASCII digits.
func NormalizeDigits(s string) string {
	out, _, err := transform.String(latinDigits, s)
	if err != nil {
		return s
	}
	return out
}

// ParseOnDay places an "HH:MM" time of day on ref's calendar day, in ref's
// location. Arabic-Indic digits and stray non-digit characters around the
// numbers are accepted.
func ParseOnDay(hhmm string, ref time.Time) (time.Time, error) {
	parts := strings.SplitN(NormalizeDigits(hhmm), ":", 2)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid time of day %q", hhmm)
	}

	h, err := atoiDigits(parts[0])
	if err != nil || h > 23 {
		return time.Time{}, fmt.Errorf("invalid hour in %q", hhmm)
	}
	m, err := atoiDigits(parts[1])
	if err != nil || m > 59 {
		return time.Time{}, fmt.Errorf("invalid minute in %q", hhmm)
	}

	return time.Date(ref.Year(), ref.Month(), ref.Day(), h, m, 0, 0, ref.Location()), nil
}

func atoiDigits(s string) (int, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	return strconv.Atoi(digits)
}
