package perennial

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"cloudeng.io/datetime"
)

func mustParse(t *testing.T, s string) Date {
	t.Helper()
	d, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return d
}

func TestIsLeapYear(t *testing.T) {
	tests := []struct {
		year int
		want bool
	}{
		{2000, true},
		{2004, true},
		{2100, false},
		{2001, false},
		{1900, false},
		{2400, true},
	}
	for _, tt := range tests {
		if got := IsLeapYear(tt.year); got != tt.want {
			t.Errorf("IsLeapYear(%d) = %v, want %v", tt.year, got, tt.want)
		}
		if got := mustParse(t, fmt.Sprintf("%04d-01-01", tt.year)).IsLeapYear(); got != tt.want {
			t.Errorf("%d-01-01 IsLeapYear() = %v, want %v", tt.year, got, tt.want)
		}
	}
	for year := 1582; year <= 2500; year++ {
		want := year%4 == 0 && (year%100 != 0 || year%400 == 0)
		if got := IsLeapYear(year); got != want {
			t.Errorf("IsLeapYear(%d) = %v, want %v", year, got, want)
		}
	}
}

func TestLeapDay(t *testing.T) {
	for year := 1900; year <= 2100; year++ {
		d := mustParse(t, fmt.Sprintf("%04d-06-17", year))
		if IsLeapYear(year) {
			if !d.IsLeapDay() || d.Kind() != LeapDay {
				t.Errorf("%d-06-17 should be the leap day, got %v", year, d.Kind())
			}
			if _, ok := d.Month(); ok {
				t.Errorf("%d-06-17: leap day must not have a month", year)
			}
			if _, ok := d.DayOfMonth(); ok {
				t.Errorf("%d-06-17: leap day must not have a day of month", year)
			}
			continue
		}
		if d.Kind() != RegularDay {
			t.Errorf("%d-06-17 should be a regular day, got %v", year, d.Kind())
		}
	}
}

func TestYearDay(t *testing.T) {
	for year := 1900; year <= 2100; year++ {
		d := mustParse(t, fmt.Sprintf("%04d-12-31", year))
		if !d.IsYearDay() || d.IsLeapDay() {
			t.Errorf("%d-12-31 should be the year day, got %v", year, d.Kind())
		}
		if _, ok := d.Month(); ok {
			t.Errorf("%d-12-31: year day must not have a month", year)
		}
	}
}

func TestIntercalaryText(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2000-06-17", "Leap day (june '29th')"},
		{"2000-12-31", "Year day (december '29th')"},
		{"2001-12-31", "Year day (december '29th')"},
	}
	for _, tt := range tests {
		d := mustParse(t, tt.date)
		if got := d.Compact(); got != tt.want {
			t.Errorf("%s Compact() = %q, want %q", tt.date, got, tt.want)
		}
		if got := d.HumanReadable(); got != tt.want {
			t.Errorf("%s HumanReadable() = %q, want %q", tt.date, got, tt.want)
		}
		if got := d.String(); got != tt.want {
			t.Errorf("%s String() = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestRegularDays(t *testing.T) {
	tests := []struct {
		date      string
		month     Month
		day       int
		compact   string
		humanRead string
	}{
		{"2000-01-01", January, 1, "2000-01-01", "2000-JANUARY-01"},
		{"2000-01-28", January, 28, "2000-01-28", "2000-JANUARY-28"},
		{"2000-01-29", February, 1, "2000-02-01", "2000-FEBRUARY-01"},
		{"2000-06-18", Sol, 2, "2000-07-02", "2000-SOL-02"},
		{"2001-06-18", Sol, 1, "2001-07-01", "2001-SOL-01"},
		{"2000-12-02", December, 1, "2000-13-01", "2000-DECEMBER-01"},
		{"2001-12-30", December, 28, "2001-13-28", "2001-DECEMBER-28"},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d := mustParse(t, tt.date)
			if d.Kind() != RegularDay {
				t.Fatalf("Kind() = %v, want regular", d.Kind())
			}
			month, ok := d.Month()
			if !ok || month != tt.month {
				t.Errorf("Month() = %v, %v, want %v", month, ok, tt.month)
			}
			day, ok := d.DayOfMonth()
			if !ok || day != tt.day {
				t.Errorf("DayOfMonth() = %v, %v, want %v", day, ok, tt.day)
			}
			if got := d.Compact(); got != tt.compact {
				t.Errorf("Compact() = %q, want %q", got, tt.compact)
			}
			if got := d.HumanReadable(); got != tt.humanRead {
				t.Errorf("HumanReadable() = %q, want %q", got, tt.humanRead)
			}
		})
	}
}

// Each start date is the first day of a month in 2000; adding 0-26 days
// must stay within that month.
func TestMonthWindows(t *testing.T) {
	starts := []struct {
		date  string
		month Month
	}{
		{"2000-01-01", January},
		{"2000-01-29", February},
		{"2000-02-26", March},
		{"2000-03-25", April},
		{"2000-04-22", May},
		{"2000-05-20", June},
		{"2000-06-17", Sol},
		{"2000-07-15", July},
		{"2000-08-12", August},
		{"2000-09-09", September},
		{"2000-10-07", October},
		{"2000-11-04", November},
		{"2000-12-02", December},
	}
	for _, start := range starts {
		t.Run(start.month.String(), func(t *testing.T) {
			first := mustParse(t, start.date)
			for n := 0; n < 27; n++ {
				d, err := first.AddDays(n)
				if err != nil {
					t.Fatalf("AddDays(%d): %v", n, err)
				}
				if d.IsLeapDay() {
					continue
				}
				wantCompact := fmt.Sprintf("2000-%02d-%02d", start.month.Number(), n+1)
				if got := d.Compact(); got != wantCompact {
					t.Errorf("AddDays(%d).Compact() = %q, want %q", n, got, wantCompact)
				}
				wantHuman := fmt.Sprintf("2000-%s-%02d", start.month, n+1)
				if got := d.HumanReadable(); got != wantHuman {
					t.Errorf("AddDays(%d).HumanReadable() = %q, want %q", n, got, wantHuman)
				}
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	start := time.Date(1999, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3*366; i++ {
		when := start.AddDate(0, 0, i)
		d, err := FromTime(when)
		if errors.Is(err, ErrUnrepresentable) {
			continue
		}
		if err != nil {
			t.Fatalf("FromTime(%v): %v", when, err)
		}
		want := datetime.CalendarDate{Year: when.Year(), Month: datetime.Month(when.Month()), Day: when.Day()}
		if got := d.Gregorian(); got != want {
			t.Errorf("Gregorian() = %v, want %v", got, want)
		}
		if got := d.Time(); !got.Equal(when) {
			t.Errorf("Time() = %v, want %v", got, when)
		}
		if got := d.FormatGregorian(); got != when.Format(GregorianLayout) {
			t.Errorf("FormatGregorian() = %q, want %q", got, when.Format(GregorianLayout))
		}
	}
}

func TestFormattingIsStable(t *testing.T) {
	for _, s := range []string{"2000-01-01", "2000-06-17", "2000-12-31", "2023-07-04"} {
		d := mustParse(t, s)
		if a, b := d.Compact(), d.Compact(); a != b {
			t.Errorf("%s: Compact() not stable: %q != %q", s, a, b)
		}
		if a, b := d.HumanReadable(), d.HumanReadable(); a != b {
			t.Errorf("%s: HumanReadable() not stable: %q != %q", s, a, b)
		}
	}
}

func TestClassificationInvariant(t *testing.T) {
	for _, year := range []int{1900, 2000, 2001, 2023, 2024} {
		dates, err := Year(year)
		if err != nil && !errors.Is(err, ErrUnrepresentable) {
			t.Fatalf("Year(%d): %v", year, err)
		}
		for _, d := range dates {
			switch d.Kind() {
			case LeapDay, YearDay:
				if _, ok := d.Month(); ok {
					t.Errorf("%s: intercalary day has a month", d.FormatGregorian())
				}
			case RegularDay:
				m, _ := d.Month()
				day, _ := d.DayOfMonth()
				if !m.Valid() || day < 1 || day > DaysPerMonth {
					t.Errorf("%s: bad regular day %v/%d", d.FormatGregorian(), m, day)
				}
			default:
				t.Errorf("%s: unclassified", d.FormatGregorian())
			}
		}
	}
}

func TestAddDaysAcrossYears(t *testing.T) {
	d := mustParse(t, "2000-12-31")
	next, err := d.AddDays(1)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := next.Compact(), "2001-01-01"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	back, err := next.AddDays(-366 - 1)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := back.FormatGregorian(), "1999-12-31"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !back.IsYearDay() {
		t.Errorf("1999-12-31 should be the year day")
	}
	far, err := d.AddDays(100 * 365)
	if err != nil {
		t.Fatal(err)
	}
	if far.IsZero() {
		t.Errorf("AddDays returned the zero date")
	}
}

func TestAddDaysBounds(t *testing.T) {
	d := mustParse(t, "2000-01-01")
	for _, n := range []int{MaxDayOffset + 1, -MaxDayOffset - 1, math.MaxInt, math.MinInt} {
		if _, err := d.AddDays(n); !errors.Is(err, ErrInvalidDayCount) {
			t.Errorf("AddDays(%d) error = %v, want ErrInvalidDayCount", n, err)
		}
	}
	for _, n := range []int{MaxDayOffset, -MaxDayOffset} {
		got, err := d.AddDays(n)
		if errors.Is(err, ErrUnrepresentable) {
			continue
		}
		if err != nil {
			t.Errorf("AddDays(%d): %v", n, err)
			continue
		}
		if want := d.Time().AddDate(0, 0, n); !got.Time().Equal(want) {
			t.Errorf("AddDays(%d) = %s, want %s", n, got.FormatGregorian(), want.Format(GregorianLayout))
		}
	}
}

func TestUnrepresentable(t *testing.T) {
	for _, s := range []string{"2000-12-30", "2024-12-30"} {
		_, err := Parse(s)
		if !errors.Is(err, ErrUnrepresentable) {
			t.Errorf("Parse(%q) error = %v, want ErrUnrepresentable", s, err)
		}
	}
	d := mustParse(t, "2000-12-29")
	if _, err := d.AddDays(1); !errors.Is(err, ErrUnrepresentable) {
		t.Errorf("AddDays(1) from 2000-12-29: %v, want ErrUnrepresentable", err)
	}
	if _, err := Parse("2001-12-30"); err != nil {
		t.Errorf("2001-12-30 is representable: %v", err)
	}
}

func TestInvalidDates(t *testing.T) {
	for _, cd := range []datetime.CalendarDate{
		{Year: 2001, Month: 2, Day: 29},
		{Year: 2000, Month: 13, Day: 1},
		{Year: 2000, Month: 0, Day: 1},
		{Year: 2000, Month: 4, Day: 31},
		{Year: 2000, Month: 1, Day: 0},
	} {
		if _, err := Classify(cd); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("Classify(%v) error = %v, want ErrInvalidDate", cd, err)
		}
	}
	if _, err := Parse("2000/01/01"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Parse: got %v, want ErrInvalidDate", err)
	}
}

func TestZeroDate(t *testing.T) {
	var d Date
	if !d.IsZero() {
		t.Errorf("zero Date should report IsZero")
	}
	if got := d.Compact(); got != ErrorText {
		t.Errorf("Compact() = %q, want %q", got, ErrorText)
	}
	if got := d.HumanReadable(); got != ErrorText {
		t.Errorf("HumanReadable() = %q, want %q", got, ErrorText)
	}
	if _, err := d.AddDays(1); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("AddDays on zero Date: %v", err)
	}
}
