// Package perennial converts Gregorian dates into a fixed 13 month
// calendar. Every month has 28 days; the two remaining days of a year,
// the leap day and the year day, belong to no month.
//
// The intercalary days are anchored at fixed Gregorian dates: the leap day
// is June 17 of a Gregorian leap year and the year day is December 31 of
// every year. All other days are placed by their Gregorian day of year.
package perennial

import (
	"errors"
	"fmt"
	"time"

	"cloudeng.io/datetime"
)

// DaysPerMonth is the length of every perennial month.
const DaysPerMonth = 28

// Fixed texts used by both formatters.
const (
	LeapDayText = "Leap day (june '29th')"
	YearDayText = "Year day (december '29th')"
	ErrorText   = "ERROR"
)

// GregorianLayout is the layout used to parse and print Gregorian dates.
const GregorianLayout = "2006-01-02"

var (
	// ErrInvalidDate is returned for Gregorian dates that do not exist,
	// such as 2001-02-29.
	ErrInvalidDate = errors.New("invalid gregorian date")

	// ErrUnrepresentable is returned when the day of year arithmetic
	// places a date past the 13th month. This is the case for
	// December 30 of every Gregorian leap year.
	ErrUnrepresentable = errors.New("date has no place in the perennial calendar")

	// ErrInvalidDayCount is returned for day counts outside the supported
	// range, see MaxDayOffset and Range.
	ErrInvalidDayCount = errors.New("invalid number of days")
)

// MaxDayOffset bounds the days accepted by AddDays, roughly 270000
// years in either direction.
const MaxDayOffset = 100_000_000

// Kind classifies a perennial date.
type Kind int

const (
	invalidKind Kind = iota
	RegularDay
	LeapDay
	YearDay
)

func (k Kind) String() string {
	switch k {
	case RegularDay:
		return "regular"
	case LeapDay:
		return "leap_day"
	case YearDay:
		return "year_day"
	default:
		return "invalid"
	}
}

// Date is a Gregorian date together with its perennial classification.
// Month and day of month are only set for RegularDay dates.
// Dates are values and are never modified after construction; use
// Classify, FromTime or Parse to create one.
type Date struct {
	gregorian datetime.CalendarDate
	kind      Kind
	month     Month
	day       int
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return datetime.IsLeap(year)
}

// Classify converts a Gregorian calendar date.
func Classify(cd datetime.CalendarDate) (Date, error) {
	if err := validate(cd); err != nil {
		return Date{}, err
	}
	d := Date{gregorian: cd}

	// Leap day first; June 17 and December 31 never coincide.
	switch {
	case IsLeapYear(cd.Year) && time.Month(cd.Month) == time.June && cd.Day == 17:
		d.kind = LeapDay
	case time.Month(cd.Month) == time.December && cd.Day == 31:
		d.kind = YearDay
	default:
		dayOfYear := datetime.Date{Month: cd.Month, Day: cd.Day}.DayOfYear(cd.Year)
		month := Month((dayOfYear-1)/DaysPerMonth + 1)
		if !month.Valid() {
			return Date{}, fmt.Errorf("%s (day %d of year): %w", formatGregorian(cd), dayOfYear, ErrUnrepresentable)
		}
		d.kind = RegularDay
		d.month = month
		d.day = (dayOfYear-1)%DaysPerMonth + 1
	}
	return d, nil
}

// FromTime converts the calendar date of t. The clock time and
// location of t are ignored.
func FromTime(t time.Time) (Date, error) {
	return Classify(datetime.CalendarDate{
		Year:  t.Year(),
		Month: datetime.Month(t.Month()),
		Day:   t.Day(),
	})
}

// Parse converts a Gregorian date in YYYY-MM-DD form.
func Parse(s string) (Date, error) {
	t, err := time.Parse(GregorianLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return FromTime(t)
}

func validate(cd datetime.CalendarDate) error {
	if cd.Month < 1 || cd.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidDate, cd.Month)
	}
	if cd.Day < 1 || cd.Day > datetime.DaysInMonth(cd.Year, cd.Month) {
		return fmt.Errorf("%w: %s", ErrInvalidDate, formatGregorian(cd))
	}
	return nil
}

// AddDays returns the date n days later (earlier for negative n),
// classified from scratch. n must be within ±MaxDayOffset.
func (d Date) AddDays(n int) (Date, error) {
	if d.kind == invalidKind {
		return Date{}, fmt.Errorf("%w: zero date", ErrInvalidDate)
	}
	if n > MaxDayOffset || n < -MaxDayOffset {
		return Date{}, fmt.Errorf("%w: %d", ErrInvalidDayCount, n)
	}
	return FromTime(d.Time().AddDate(0, 0, n))
}

// Gregorian returns the date this perennial date was created from.
func (d Date) Gregorian() datetime.CalendarDate {
	return d.gregorian
}

// Time returns the Gregorian date as midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.gregorian.Year, time.Month(d.gregorian.Month), d.gregorian.Day, 0, 0, 0, 0, time.UTC)
}

// Year returns the Gregorian year.
func (d Date) Year() int {
	return d.gregorian.Year
}

func (d Date) Kind() Kind {
	return d.kind
}

// IsZero reports whether d is the zero Date, which has no classification.
func (d Date) IsZero() bool {
	return d.kind == invalidKind
}

func (d Date) IsLeapYear() bool {
	return IsLeapYear(d.gregorian.Year)
}

func (d Date) IsLeapDay() bool {
	return d.kind == LeapDay
}

func (d Date) IsYearDay() bool {
	return d.kind == YearDay
}

// Month returns the perennial month, ok is false for intercalary days.
func (d Date) Month() (Month, bool) {
	if d.kind != RegularDay {
		return 0, false
	}
	return d.month, true
}

// DayOfMonth returns the day within the month (1-28), ok is false for
// intercalary days.
func (d Date) DayOfMonth() (int, bool) {
	if d.kind != RegularDay {
		return 0, false
	}
	return d.day, true
}

// Compact formats d as YYYY-MM-DD with the perennial month number (01-13).
func (d Date) Compact() string {
	return d.format(func(m Month) string {
		return fmt.Sprintf("%02d", m.Number())
	})
}

// HumanReadable formats d as YYYY-MONTH-DD, e.g. 2000-SOL-03.
func (d Date) HumanReadable() string {
	return d.format(Month.String)
}

func (d Date) format(month func(Month) string) string {
	switch d.kind {
	case LeapDay:
		return LeapDayText
	case YearDay:
		return YearDayText
	case RegularDay:
		return fmt.Sprintf("%d-%s-%02d", d.gregorian.Year, month(d.month), d.day)
	default:
		// Only the zero Date gets here.
		return ErrorText
	}
}

// String returns the compact form.
func (d Date) String() string {
	return d.Compact()
}

func formatGregorian(cd datetime.CalendarDate) string {
	return fmt.Sprintf("%04d-%02d-%02d", cd.Year, int(cd.Month), cd.Day)
}

// FormatGregorian returns the underlying Gregorian date as YYYY-MM-DD.
func (d Date) FormatGregorian() string {
	return formatGregorian(d.gregorian)
}
