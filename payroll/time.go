package payroll

import (
	"fmt"
	"math"
	"time"
)

// =============================================================================
// DATE - Calendar date with no time-of-day and no zone
// =============================================================================

// DateLayout is the wire format for every calendar date the engine accepts
// or returns.
const DateLayout = "2006-01-02"

// Date is a civil calendar date. The zero value is "no date".
// Internally it is held as midnight UTC so comparisons never depend on the
// process time zone.
type Date struct {
	t time.Time
}

// NewDate builds a Date. Out-of-range values normalize the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t as seen in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return Date{t: t}, nil
}

// MustParseDate is ParseDate for tests and fixtures; it panics on bad input.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.t.After(other.t) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.t.Before(other.t) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int              { return d.t.Year() }
func (d Date) Month() time.Month      { return d.t.Month() }
func (d Date) Day() int               { return d.t.Day() }
func (d Date) Weekday() time.Weekday  { return d.t.Weekday() }
func (d Date) IsZero() bool           { return d.t.IsZero() }
func (d Date) Time() time.Time        { return d.t }
func (d Date) String() string         { return d.t.Format(DateLayout) }

// IsoWeekday maps the date onto the weekly-assignment convention:
// Monday = 1 ... Saturday = 6, Sunday = 7. Sunday is never 0.
func IsoWeekday(d Date) int {
	wd := int(d.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// =============================================================================
// CLOCK TIME - Time of day as configured on a shift
// =============================================================================

// ClockTime is a local wall-clock time of day (HH:MM:SS).
type ClockTime struct {
	Hour   int
	Minute int
	Second int
}

// NewClockTime builds a ClockTime without validation; see ParseClockTime.
func NewClockTime(hour, minute, second int) ClockTime {
	return ClockTime{Hour: hour, Minute: minute, Second: second}
}

// ParseClockTime accepts "HH:MM:SS" or "HH:MM".
func ParseClockTime(s string) (ClockTime, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockTime{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return ClockTime{}, fmt.Errorf("invalid time of day %q (use HH:MM:SS)", s)
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// =============================================================================
// WALL-CLOCK COMPOSITION
// =============================================================================

// Compose joins a calendar date and a time of day into an instant in loc.
// This is the only place the engine turns local wall-clock values into
// instants; a nil loc means UTC.
func Compose(d Date, c ClockTime, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour, c.Minute, c.Second, 0, loc)
}

// minutesBetween returns the floor of (to - from) in whole minutes.
// The result may be negative; callers clamp.
func minutesBetween(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Minutes()))
}

func clampZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
