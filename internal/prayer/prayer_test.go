package prayer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestApprox(t *testing.T) {
	day := time.Date(2025, time.March, 10, 13, 45, 0, 0, time.UTC)
	got := Approx(21.4, 39.8, day)

	want := []Time{
		{Name: Fajr, Time: "05:00"},
		{Name: Dhuhr, Time: "12:00"},
		{Name: Asr, Time: "15:00"},
		{Name: Maghrib, Time: "18:00"},
		{Name: Isha, Time: "20:00"},
	}
	assert.Equal(t, want, got)
}

func TestParseOnDay(t *testing.T) {
	ref := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{name: "ascii", in: "12:00", want: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)},
		{name: "arabic indic", in: "١٥:٣٠", want: time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)},
		{name: "extended arabic indic", in: "۰۵:۰۵", want: time.Date(2025, 3, 10, 5, 5, 0, 0, time.UTC)},
		{name: "surrounding marks", in: " 05:00 ص", want: time.Date(2025, 3, 10, 5, 0, 0, 0, time.UTC)},
		{name: "no colon", in: "1200", wantErr: true},
		{name: "bad hour", in: "25:00", wantErr: true},
		{name: "bad minute", in: "10:75", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOnDay(tt.in, ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestToHijriKnownDates(t *testing.T) {
	tests := []struct {
		greg time.Time
		want HijriDate
	}{
		{time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), HijriDate{Year: 1446, Month: Ramadan, Day: 1}},
		{time.Date(2026, time.February, 18, 0, 0, 0, 0, time.UTC), HijriDate{Year: 1447, Month: Ramadan, Day: 1}},
		{time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), HijriDate{Year: 1446, Month: 8, Day: 29}},
		{time.Date(2025, time.March, 30, 0, 0, 0, 0, time.UTC), HijriDate{Year: 1446, Month: 10, Day: 1}},
		{time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC), HijriDate{Year: 1447, Month: 10, Day: 1}},
		{time.Date(2024, time.July, 7, 0, 0, 0, 0, time.UTC), HijriDate{Year: 1446, Month: 1, Day: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.greg.Format("2006-01-02"), func(t *testing.T) {
			assert.Equal(t, tt.want, ToHijri(tt.greg))
		})
	}
}

func TestToHijriUsesLocalDay(t *testing.T) {
	riyadh := time.FixedZone("AST", 3*3600)
	// 23:30 UTC on 29 March is already 30 March (1 Shawwal) in Riyadh.
	late := time.Date(2025, time.March, 30, 2, 30, 0, 0, riyadh)
	assert.Equal(t, HijriDate{Year: 1446, Month: 10, Day: 1}, ToHijri(late))
	assert.Equal(t, time.Date(2025, time.March, 30, 0, 0, 0, 0, riyadh), FromHijri(ToHijri(late), riyadh))
}

func TestHijriOutsideUmmAlQura(t *testing.T) {
	start := time.Date(2100, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 400; i++ {
		d := start.AddDate(0, 0, i)
		h := ToHijri(d)
		require.Greater(t, h.Year, ummAlQuraLastYear)
		require.True(t, d.Equal(FromHijri(h, time.UTC)), "day %s -> %+v", d.Format("2006-01-02"), h)
	}
}

func TestHijriRoundTrip(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 1200; i++ {
		d := start.AddDate(0, 0, i)
		h := ToHijri(d)
		require.GreaterOrEqual(t, h.Day, 1)
		require.LessOrEqual(t, h.Day, 30)
		require.True(t, d.Equal(FromHijri(h, time.UTC)), "day %s -> %+v", d.Format("2006-01-02"), h)
	}
}

func TestNextRamadanStart(t *testing.T) {
	t.Run("before ramadan", func(t *testing.T) {
		from := time.Date(2025, time.January, 15, 17, 30, 0, 0, time.UTC)
		got := NextRamadanStart(from)
		assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("during ramadan finds next year", func(t *testing.T) {
		from := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
		got := NextRamadanStart(from)
		assert.Equal(t, time.Date(2026, time.February, 18, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("on the first day", func(t *testing.T) {
		from := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
		got := NextRamadanStart(from)
		assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), got)
		assert.Equal(t, "رمضان مبارك!", Countdown(from, got, language.English))
	})
}

func TestCountdown(t *testing.T) {
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	target := now.Add(24*time.Hour + 2*time.Hour + 3*time.Minute + 4*time.Second)
	assert.Equal(t, "1 يوم 2 ساعة 3 دقيقة 4 ثانية", Countdown(now, target, language.English))
	assert.Equal(t, "رمضان مبارك!", Countdown(target, now, language.English))
}

func TestFormatDates(t *testing.T) {
	d := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	hijri := FormatHijri(d, language.English)
	assert.Equal(t, "السبت، 1 رمضان 1446 هـ", hijri)

	greg := FormatGregorian(d, language.English)
	assert.True(t, strings.HasPrefix(greg, "السبت"))
	assert.Contains(t, greg, "مارس")
	assert.Contains(t, greg, "2025")
}
