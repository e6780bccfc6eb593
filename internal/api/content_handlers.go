package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/text/language"

	"github.com/sevencode7/rafiq/internal/catalog"
	"github.com/sevencode7/rafiq/internal/prayer"
	"github.com/sevencode7/rafiq/internal/reminder"
)

var displayTag = language.Arabic

type prayerTimesResponse struct {
	Date  string               `json:"date"`
	Times []prayer.Time        `json:"times"`
	Next  *reminder.NextPrayer `json:"next,omitempty"`
}

func (s *Server) handlePrayerTimes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
	if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		s.writeError(w, "Invalid coordinates", http.StatusBadRequest)
		return
	}

	now := s.now()
	resp := prayerTimesResponse{
		Date:  now.Format(time.DateOnly),
		Times: prayer.Approx(lat, lon, now),
	}
	if next, ok := reminder.Next(resp.Times, now); ok {
		resp.Next = &next
	}
	s.writeJSON(w, resp)
}

type calendarResponse struct {
	Hijri        string           `json:"hijri"`
	HijriDate    prayer.HijriDate `json:"hijriDate"`
	Gregorian    string           `json:"gregorian"`
	RamadanStart string           `json:"ramadanStart"`
	Countdown    string           `json:"countdown"`
}

func (s *Server) handleCalendar(w http.ResponseWriter, _ *http.Request) {
	now := s.now()
	start := prayer.NextRamadanStart(now)
	s.writeJSON(w, calendarResponse{
		Hijri:        prayer.FormatHijri(now, displayTag),
		HijriDate:    prayer.ToHijri(now),
		Gregorian:    prayer.FormatGregorian(now, displayTag),
		RamadanStart: start.Format(time.DateOnly),
		Countdown:    prayer.Countdown(now, start, displayTag),
	})
}

func (s *Server) handleSurahs(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, catalog.Surahs())
}

func (s *Server) handleSurah(w http.ResponseWriter, r *http.Request) {
	n, _ := strconv.Atoi(mux.Vars(r)["n"])
	surah, err := catalog.SurahByNumber(n)
	if errors.Is(err, catalog.ErrSurahNotFound) {
		s.writeError(w, "Surah not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, surah)
}

func (s *Server) handleReciters(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, catalog.Reciters())
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	n, err := strconv.Atoi(q.Get("surah"))
	if err != nil {
		s.writeError(w, "Invalid surah", http.StatusBadRequest)
		return
	}
	u, err := catalog.AudioURL(q.Get("reciter"), n)
	if err != nil {
		s.writeError(w, "Surah not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, map[string]string{"url": u})
}

func (s *Server) handleHadith(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, catalog.SearchHadith(r.URL.Query().Get("q")))
}

func (s *Server) handleAzkarCategories(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, catalog.AzkarCategories())
}

func (s *Server) handleAzkar(w http.ResponseWriter, r *http.Request) {
	c, ok := catalog.Azkar(mux.Vars(r)["category"])
	if !ok {
		s.writeError(w, "Category not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, c)
}
