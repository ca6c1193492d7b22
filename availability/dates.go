package availability

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"locationsguard/constants"
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrReversedInterval = errors.New("interval start is after its end")
)

// CalendarDate drops the time of day and returns the calendar date of t
// (taken in t's own location) as UTC midnight.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts "2006-01-02" or an RFC 3339 timestamp and returns its calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(constants.DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return CalendarDate(t), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// FormatDate is the inverse of ParseDate for calendar dates.
func FormatDate(t time.Time) string {
	return CalendarDate(t).Format(constants.DateLayout)
}

// DaysBetween returns the ceiling of elapsed whole days from start to end.
// The same instant counts as 0 days. A reversed interval is an error.
func DaysBetween(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, ErrReversedInterval
	}
	return int(math.Ceil(end.Sub(start).Hours() / 24)), nil
}

// DateInterval is a closed range of calendar dates: both Start and End are occupied.
type DateInterval struct {
	Start time.Time
	End   time.Time
}

// NewDateInterval normalizes both ends to calendar dates.
func NewDateInterval(start, end time.Time) (DateInterval, error) {
	iv := DateInterval{Start: CalendarDate(start), End: CalendarDate(end)}
	if iv.End.Before(iv.Start) {
		return DateInterval{}, ErrReversedInterval
	}
	return iv, nil
}

// Contains reports whether the calendar date of d lies in [Start, End].
func (iv DateInterval) Contains(d time.Time) bool {
	d = CalendarDate(d)
	return !d.Before(iv.Start) && !d.After(iv.End)
}

// Days lists every date of the interval in order.
func (iv DateInterval) Days() []time.Time {
	var days []time.Time
	for d := iv.Start; !d.After(iv.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// RangesOverlap tests two closed intervals of calendar dates for a shared day.
// Touching ranges (one ends the day the other starts) overlap.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	aStart, aEnd = CalendarDate(aStart), CalendarDate(aEnd)
	bStart, bEnd = CalendarDate(bStart), CalendarDate(bEnd)
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}
