package books

import (
	"time"
)

// =============================================================================
// DATE - Calendar day without a time component
// =============================================================================

// DateLayout is the on-disk form of every calendar date.
const DateLayout = "2006-01-02"

// TimestampLayout is the on-disk form of task creation timestamps.
const TimestampLayout = "2006-01-02 15:04:05.999999999"

type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// parseLayout also takes unpadded month and day ("2024-3-5").
const parseLayout = "2006-1-2"

// ParseDate parses a YYYY-MM-DD string. Month and day may omit the leading zero.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(parseLayout, s)
	if err != nil {
		return Date{}, &ValidationError{Field: "date", Value: s, Reason: "expected YYYY-MM-DD"}
	}
	return DateOf(t), nil
}

func (d Date) time() time.Time { return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC) }

// Comparison
func (d Date) Before(other Date) bool { return d.time().Before(other.time()) }
func (d Date) After(other Date) bool  { return d.time().After(other.time()) }
func (d Date) Equal(other Date) bool  { return d == other }
func (d Date) IsZero() bool           { return d == Date{} }

func (d Date) String() string { return d.time().Format(DateLayout) }

// =============================================================================
// CLOCK - Source of "now" for the lifecycle and task timestamps
// =============================================================================

// Clock supplies the current local time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock in local time.
var SystemClock Clock = ClockFunc(time.Now)

// Today returns the local calendar day according to c.
func Today(c Clock) Date {
	return DateOf(c.Now())
}
