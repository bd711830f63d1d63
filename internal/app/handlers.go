package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/klabast/wb-services/perennial-kalender/internal/perennial"
)

// Server serves the perennial calendar API
type Server struct {
	cfg *Config
	log *logrus.Logger
	now func() time.Time
}

// NewServer creates a server for cfg
func NewServer(cfg *Config, log *logrus.Logger) *Server {
	return &Server{cfg: cfg, log: log, now: time.Now}
}

// Routes returns the handler for all API routes
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/config", s.GetConfig)
	mux.HandleFunc("/api/convert", s.HandleConvert)
	mux.HandleFunc("/api/calendar", s.HandleCalendar)
	mux.HandleFunc("/api/download", s.HandleDownload)
	mux.HandleFunc("/api/subscribe", s.HandleSubscribe)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("request")
	})
}

// GetConfig returns the calendar layout and service settings
func (s *Server) GetConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	months := make([]MonthView, 0, perennial.MonthsPerYear)
	for _, m := range perennial.Months() {
		months = append(months, MonthView{Number: m.Number(), Name: m.String()})
	}
	config := map[string]interface{}{
		"months":       months,
		"daysPerMonth": perennial.DaysPerMonth,
		"currentYear":  s.now().Year(),
		"leapDay":      perennial.LeapDayText,
		"yearDay":      perennial.YearDayText,
		"productId":    s.cfg.ProductID,
	}
	s.writeJSON(w, config)
}

// HandleConvert converts a single date
// Query params: date (YYYY-MM-DD, defaults to today), add (optional days)
func (s *Server) HandleConvert(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		dateStr = s.now().Format(perennial.GregorianLayout)
	}

	add := 0
	if addStr := r.URL.Query().Get("add"); addStr != "" {
		var err error
		add, err = strconv.Atoi(addStr)
		if err != nil {
			http.Error(w, ErrInvalidDays, http.StatusBadRequest)
			return
		}
	}

	d, err := perennial.Parse(dateStr)
	if err == nil && add != 0 {
		d, err = d.AddDays(add)
	}
	if err != nil {
		s.writeDateError(w, err)
		return
	}
	s.writeJSON(w, NewDateView(d))
}

// HandleCalendar returns every day of a year
// Query params: year (optional, defaults to current year), month (optional
// month name; narrows the listing to that month's 28 days)
func (s *Server) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	year, ok := s.yearParam(w, r)
	if !ok {
		return
	}
	dates := s.yearDates(year)

	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		month, err := perennial.ParseMonth(monthStr)
		if err != nil {
			http.Error(w, ErrInvalidMonth, http.StatusBadRequest)
			return
		}
		dates = filterMonth(dates, month)
	}
	s.writeJSON(w, NewCalendarView(year, dates))
}

// filterMonth keeps the regular days of month; intercalary days are dropped
func filterMonth(dates []perennial.Date, month perennial.Month) []perennial.Date {
	var filtered []perennial.Date
	for _, d := range dates {
		if m, ok := d.Month(); ok && m == month {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// HandleDownload handles export downloads in ICS, CSV or JSON format
func (s *Server) HandleDownload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	year, ok := s.yearParam(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "ics":
		opts := ICSOptions{
			Reminder:     r.URL.Query().Get("reminder") == "true",
			ReminderTime: r.URL.Query().Get("reminderTime"),
		}
		s.GenerateICS(w, year, s.yearDates(year), opts)
	case "csv":
		s.GenerateCSV(w, year, s.yearDates(year))
	case "json":
		s.GenerateJSON(w, year, s.yearDates(year))
	default:
		http.Error(w, ErrInvalidFormat, http.StatusBadRequest)
	}
}

// HandleSubscribe serves the ICS subscription feed, covering the
// previous year onwards
func (s *Server) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	minYear := s.now().Year() - 1
	var dates []perennial.Date
	for year := minYear; year < minYear+SubscribeYears; year++ {
		dates = append(dates, s.yearDates(year)...)
	}
	s.GenerateSubscriptionICS(w, r, dates)
}

// yearDates lists the days of year. Days without a perennial form are
// logged and left out.
func (s *Server) yearDates(year int) []perennial.Date {
	dates, err := perennial.Year(year)
	if err != nil {
		s.log.WithField("year", year).Debugf("Skipping days: %v", err)
	}
	return dates
}

func (s *Server) yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	yearStr := r.URL.Query().Get("year")
	if yearStr == "" {
		return s.now().Year(), true
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1 || year > 9999 {
		http.Error(w, ErrInvalidYear, http.StatusBadRequest)
		return 0, false
	}
	return year, true
}

func (s *Server) writeDateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, perennial.ErrUnrepresentable):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, perennial.ErrInvalidDate):
		http.Error(w, ErrInvalidDateFormat, http.StatusBadRequest)
	case errors.Is(err, perennial.ErrInvalidDayCount):
		http.Error(w, ErrInvalidDays, http.StatusBadRequest)
	default:
		s.log.WithError(err).Error("Error converting date")
		http.Error(w, ErrInternalServer, http.StatusInternalServerError)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Error("Error encoding response")
		http.Error(w, ErrInternalServer, http.StatusInternalServerError)
	}
}
