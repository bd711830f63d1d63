package app

import "github.com/klabast/wb-services/perennial-kalender/internal/perennial"

// DateView is the JSON representation of a single perennial date
type DateView struct {
	Gregorian     string `json:"gregorian"`
	Kind          string `json:"kind"`
	Month         int    `json:"month,omitempty"`
	MonthName     string `json:"monthName,omitempty"`
	Day           int    `json:"day,omitempty"`
	Compact       string `json:"compact"`
	HumanReadable string `json:"humanReadable"`
}

// CalendarView represents all days of one Gregorian year
type CalendarView struct {
	Year int        `json:"year"`
	Days []DateView `json:"days"`
}

// MonthView describes one perennial month
type MonthView struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// NewDateView converts a perennial date for JSON output
func NewDateView(d perennial.Date) DateView {
	view := DateView{
		Gregorian:     d.FormatGregorian(),
		Kind:          d.Kind().String(),
		Compact:       d.Compact(),
		HumanReadable: d.HumanReadable(),
	}
	if month, ok := d.Month(); ok {
		view.Month = month.Number()
		view.MonthName = month.String()
	}
	if day, ok := d.DayOfMonth(); ok {
		view.Day = day
	}
	return view
}

// NewCalendarView converts the days of a year for JSON output
func NewCalendarView(year int, dates []perennial.Date) CalendarView {
	days := make([]DateView, 0, len(dates))
	for _, d := range dates {
		days = append(days, NewDateView(d))
	}
	return CalendarView{Year: year, Days: days}
}
