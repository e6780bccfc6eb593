package prayer

import (
	"strings"
	"time"

	"github.com/hablullah/go-hijri"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// HijriDate is a date in the Islamic calendar.
type HijriDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

const (
	// Ramadan is the ninth Hijri month.
	Ramadan = 9

	// Years covered by the Umm al-Qura tables (1937 to 2077).
	ummAlQuraFirstYear = 1356
	ummAlQuraLastYear  = 1499

	ramadanScanDays  = 420
	ramadanFallbackD = 355
)

var hijriMonths = [...]string{
	"محرم", "صفر", "ربيع الأول", "ربيع الآخر", "جمادى الأولى", "جمادى الآخرة",
	"رجب", "شعبان", "رمضان", "شوال", "ذو القعدة", "ذو الحجة",
}

var gregorianMonths = [...]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

var weekdays = [...]string{"الأحد", "الاثنين", "الثلاثاء", "الأربعاء", "الخميس", "الجمعة", "السبت"}

// ToHijri converts the calendar day of t using the Umm al-Qura calendar.
// Days outside its tables use the arithmetic Islamic calendar.
func ToHijri(t time.Time) HijriDate {
	// go-hijri converts to UTC first; noon keeps the local calendar day.
	day := time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)

	if uq, err := hijri.CreateUmmAlQuraDate(day); err == nil {
		return HijriDate{Year: int(uq.Year), Month: int(uq.Month), Day: int(uq.Day)}
	}
	h, err := hijri.CreateHijriDate(day, hijri.Default)
	if err != nil {
		return HijriDate{}
	}
	return HijriDate{Year: int(h.Year), Month: int(h.Month), Day: int(h.Day)}
}

// FromHijri returns midnight (in loc) of the Gregorian day matching h.
func FromHijri(h HijriDate, loc *time.Location) time.Time {
	var g time.Time
	if h.Year >= ummAlQuraFirstYear && h.Year <= ummAlQuraLastYear {
		g = hijri.UmmAlQuraDate{Year: int64(h.Year), Month: int64(h.Month), Day: int64(h.Day)}.ToGregorian()
	} else {
		g = hijri.HijriDate{Year: int64(h.Year), Month: int64(h.Month), Day: int64(h.Day)}.ToGregorian()
	}
	g = g.UTC()
	return time.Date(g.Year(), g.Month(), g.Day(), 0, 0, 0, 0, loc)
}

// NextRamadanStart returns midnight of the next day, on or after from's
// calendar day, that falls on 1 Ramadan. It scans day by day and falls back
// to roughly a lunar year ahead if none is found.
func NextRamadanStart(from time.Time) time.Time {
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	for i := 0; i < ramadanScanDays; i++ {
		d := day.AddDate(0, 0, i)
		if h := ToHijri(d); h.Month == Ramadan && h.Day == 1 {
			return d
		}
	}
	return day.AddDate(0, 0, ramadanFallbackD)
}

func printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// FormatHijri renders t as a full Arabic Hijri date, e.g. "الجمعة، ١ رمضان ١٤٤٦ هـ".
func FormatHijri(t time.Time, tag language.Tag) string {
	h := ToHijri(t)
	p := printer(tag)
	return p.Sprintf("%s، %v %s %v هـ", weekdays[t.Weekday()], h.Day, hijriMonths[h.Month-1], plainYear(p, h.Year))
}

// FormatGregorian renders t as a full Arabic Gregorian date.
func FormatGregorian(t time.Time, tag language.Tag) string {
	p := printer(tag)
	return p.Sprintf("%s، %v %s %v", weekdays[t.Weekday()], t.Day(), gregorianMonths[t.Month()-1], plainYear(p, t.Year()))
}

// plainYear formats a year without digit grouping.
func plainYear(p *message.Printer, year int) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ',', '.', '\u066c', ' ', '\u00a0', '\u202f':
			return -1
		}
		return r
	}, p.Sprintf("%d", year))
}

// Countdown renders the time remaining until target as days, hours, minutes
// and seconds. It returns the Ramadan greeting once target has been reached.
func Countdown(now, target time.Time, tag language.Tag) string {
	diff := target.Sub(now)
	if diff <= 0 {
		return "رمضان مبارك!"
	}
	d := int(diff / (24 * time.Hour))
	h := int(diff % (24 * time.Hour) / time.Hour)
	m := int(diff % time.Hour / time.Minute)
	s := int(diff % time.Minute / time.Second)
	return printer(tag).Sprintf("%d يوم %d ساعة %d دقيقة %d ثانية", d, h, m, s)
}
