package perennial

import (
	"fmt"
	"time"

	"cloudeng.io/datetime"
	"cloudeng.io/errors"
)

// Range classifies days consecutive Gregorian days starting at from.
// Days that cannot be represented are left out of the result and
// reported together in the returned error, which matches
// ErrUnrepresentable. The dates that could be converted are always
// returned. A negative day count is an error.
func Range(from datetime.CalendarDate, days int) ([]Date, error) {
	if err := validate(from); err != nil {
		return nil, err
	}
	if days < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDayCount, days)
	}
	start := time.Date(from.Year, time.Month(from.Month), from.Day, 0, 0, 0, 0, time.UTC)
	dates := make([]Date, 0, days)
	errs := &errors.M{}
	for i := 0; i < days; i++ {
		d, err := FromTime(start.AddDate(0, 0, i))
		if err != nil {
			errs.Append(err)
			continue
		}
		dates = append(dates, d)
	}
	return dates, errs.Err()
}

// DaysInYear returns 366 for Gregorian leap years and 365 otherwise.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// Year classifies every day of a Gregorian year, see Range.
func Year(year int) ([]Date, error) {
	return Range(datetime.CalendarDate{Year: year, Month: datetime.Month(time.January), Day: 1}, DaysInYear(year))
}
