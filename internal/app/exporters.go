package app

import (
	"bytes"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/klabast/wb-services/perennial-kalender/internal/perennial"
)

// UIDDomain is appended to every event UID
const UIDDomain = "perennial-kalender.winterberg.de"

// uidNamespace scopes the name based UUIDs used for event UIDs
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte(UIDDomain))

// EventUID returns a UID that only depends on the Gregorian date, so
// re-downloaded or refreshed calendars update events in place.
func EventUID(d perennial.Date) string {
	return uuid.NewSHA1(uidNamespace, []byte(d.FormatGregorian())).String() + "@" + UIDDomain
}

// ICSOptions controls reminders in ICS downloads
type ICSOptions struct {
	Reminder     bool
	ReminderTime string // HH:MM on the day before an intercalary day
}

// writeEvent writes a single all-day VEVENT without the END line
func writeEvent(w io.Writer, d perennial.Date, stamp time.Time) {
	eventDate := d.Time()
	fmt.Fprintln(w, "BEGIN:VEVENT")
	fmt.Fprintf(w, "UID:%s\n", EventUID(d))
	fmt.Fprintf(w, "DTSTAMP:%s\n", stamp.UTC().Format("20060102T150405Z"))
	fmt.Fprintf(w, "DTSTART;VALUE=DATE:%s\n", eventDate.Format("20060102"))
	fmt.Fprintf(w, "DTEND;VALUE=DATE:%s\n", eventDate.AddDate(0, 0, 1).Format("20060102"))
	fmt.Fprintf(w, "SUMMARY:%s\n", d.HumanReadable())
	fmt.Fprintf(w, "DESCRIPTION:%s (%s)\n", d.Compact(), d.FormatGregorian())
	fmt.Fprintln(w, "TRANSP:TRANSPARENT")
}

func (s *Server) writeCalendarHeader(w io.Writer, name string) {
	fmt.Fprintln(w, "BEGIN:VCALENDAR")
	fmt.Fprintln(w, "VERSION:2.0")
	fmt.Fprintf(w, "PRODID:%s\n", s.cfg.ProductID)
	fmt.Fprintf(w, "X-WR-CALNAME:%s\n", name)
	fmt.Fprintf(w, "X-WR-TIMEZONE:%s\n", s.cfg.Timezone)
	fmt.Fprintln(w, "CALSCALE:GREGORIAN")
}

// GenerateICS writes an iCalendar download with one event per day
func (s *Server) GenerateICS(w http.ResponseWriter, year int, dates []perennial.Date, opts ICSOptions) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=perennial_%d.ics", year))

	s.writeCalendarHeader(w, fmt.Sprintf("Perennial Kalender %d", year))

	stamp := s.now()
	for _, d := range dates {
		writeEvent(w, d, stamp)

		// Remind the day before the days that are outside any month
		if opts.Reminder && opts.ReminderTime != "" && d.Kind() != perennial.RegularDay {
			AddAlarm(w, d.Time(), 1, opts.ReminderTime, d.HumanReadable())
		}

		fmt.Fprintln(w, "END:VEVENT")
	}

	fmt.Fprintln(w, "END:VCALENDAR")
}

// AddAlarm adds a display alarm at alarmTime (HH:MM), daysBefore days
// before an all-day event. Malformed times are ignored.
func AddAlarm(w io.Writer, eventDate time.Time, daysBefore int, alarmTime string, description string) {
	parts := strings.Split(alarmTime, ":")
	if len(parts) != 2 {
		return
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return
	}

	// The trigger is relative to midnight on the event date
	alarmDate := eventDate.AddDate(0, 0, -daysBefore)
	alarmAt := time.Date(alarmDate.Year(), alarmDate.Month(), alarmDate.Day(), hour, minute, 0, 0, time.UTC)
	eventStart := time.Date(eventDate.Year(), eventDate.Month(), eventDate.Day(), 0, 0, 0, 0, time.UTC)

	totalMinutes := int(alarmAt.Sub(eventStart).Minutes())
	sign := ""
	if totalMinutes < 0 {
		sign = "-"
		totalMinutes = -totalMinutes
	}
	days := totalMinutes / (24 * 60)
	hours := totalMinutes % (24 * 60) / 60
	minutes := totalMinutes % 60

	fmt.Fprintln(w, "BEGIN:VALARM")
	fmt.Fprintln(w, "ACTION:DISPLAY")
	fmt.Fprintf(w, "DESCRIPTION:Tomorrow: %s\n", description)
	fmt.Fprintf(w, "TRIGGER:%sP%dDT%dH%dM\n", sign, days, hours, minutes)
	fmt.Fprintln(w, "END:VALARM")
}

// GenerateCSV writes a CSV download of the given days
func (s *Server) GenerateCSV(w http.ResponseWriter, year int, dates []perennial.Date) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=perennial_%d.csv", year))

	cw := csv.NewWriter(w)
	rows := make([][]string, 0, len(dates)+1)
	rows = append(rows, []string{"gregorian", "compact", "human_readable", "kind"})
	for _, d := range dates {
		rows = append(rows, []string{d.FormatGregorian(), d.Compact(), d.HumanReadable(), d.Kind().String()})
	}
	if err := cw.WriteAll(rows); err != nil {
		s.log.WithError(err).Error("Error writing CSV export")
	}
}

// GenerateJSON writes a JSON download of the given days
func (s *Server) GenerateJSON(w http.ResponseWriter, year int, dates []perennial.Date) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=perennial_%d.json", year))

	if err := json.NewEncoder(w).Encode(NewCalendarView(year, dates)); err != nil {
		s.log.WithError(err).Error("Error encoding JSON export")
		http.Error(w, ErrFailedToGenerateJSON, http.StatusInternalServerError)
	}
}

// GenerateSubscriptionICS writes an iCalendar subscription feed.
// Unlike GenerateICS the feed is served inline, carries no alarms and
// tells clients how often to refresh. The body is rendered first so that
// an ETag can be sent; a matching If-None-Match gets 304 Not Modified.
func (s *Server) GenerateSubscriptionICS(w http.ResponseWriter, r *http.Request, dates []perennial.Date) {
	var buf bytes.Buffer
	s.writeCalendarHeader(&buf, "Perennial Kalender")
	fmt.Fprintln(&buf, "METHOD:PUBLISH")
	fmt.Fprintf(&buf, "X-PUBLISHED-TTL:%s\n", s.cfg.PublishTTL)

	// DTSTAMP only changes once a day to keep the ETag stable
	now := s.now().UTC()
	stamp := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for _, d := range dates {
		writeEvent(&buf, d, stamp)
		fmt.Fprintln(&buf, "END:VEVENT")
	}
	fmt.Fprintln(&buf, "END:VCALENDAR")

	etag := ETag(buf.Bytes())
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.log.WithError(err).Warn("Error writing subscription feed")
	}
}

// etagMatches reports whether an If-None-Match header value, which may
// be "*" or a comma separated list of (possibly weak) tags, matches etag
func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

// ETag returns a strong entity tag for body
func ETag(body []byte) string {
	sum := blake2b.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}
