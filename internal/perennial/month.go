package perennial

import (
	"fmt"
	"strings"
)

// Month is one of the 13 months of the perennial calendar.
// The zero value is not a valid month.
type Month int

// Months in calendar order. Sol sits between June and July.
const (
	January Month = iota + 1
	February
	March
	April
	May
	June
	Sol
	July
	August
	September
	October
	November
	December
)

// MonthsPerYear is the number of 28 day months in a perennial year.
const MonthsPerYear = 13

var monthNames = [...]string{
	"JANUARY",
	"FEBRUARY",
	"MARCH",
	"APRIL",
	"MAY",
	"JUNE",
	"SOL",
	"JULY",
	"AUGUST",
	"SEPTEMBER",
	"OCTOBER",
	"NOVEMBER",
	"DECEMBER",
}

// Valid reports whether m is one of the 13 months.
func (m Month) Valid() bool {
	return m >= January && m <= December
}

// Number returns the 1-based position of the month within the year.
func (m Month) Number() int {
	return int(m)
}

// String returns the upper case display name, e.g. "SOL".
func (m Month) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Month(%d)", int(m))
	}
	return monthNames[m-1]
}

// Months returns all months in calendar order.
func Months() []Month {
	months := make([]Month, MonthsPerYear)
	for i := range months {
		months[i] = Month(i + 1)
	}
	return months
}

// ParseMonth looks up a month by its display name, ignoring case.
func ParseMonth(name string) (Month, error) {
	for i, n := range monthNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Month(i + 1), nil
		}
	}
	return 0, fmt.Errorf("unknown month %q", name)
}
