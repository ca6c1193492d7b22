// Package availability decides whether a vehicle can be booked for a date range
// given a snapshot of its existing reservations. It performs no I/O.
//
// Only CONFIRMED and COMPLETED reservations block dates. PENDING reservations do
// not reserve the vehicle, so two pending reservations may overlap; conflicts
// between them are caught when one of them is confirmed.
package availability

import (
	"errors"
	"fmt"
	"time"

	"locationsguard/constants"
	"locationsguard/services/logger"
)

var ErrUnknownStatus = errors.New("unknown reservation status")

// Record is the shape of one reservation as seen by the checker.
type Record struct {
	StartDate string                      `json:"startDate"`
	EndDate   string                      `json:"endDate"`
	Status    constants.ReservationStatus `json:"status"`
}

// NewRecord builds a Record from typed dates.
func NewRecord(start, end time.Time, status constants.ReservationStatus) Record {
	return Record{StartDate: FormatDate(start), EndDate: FormatDate(end), Status: status}
}

// Interval parses the record's dates.
func (r Record) Interval() (DateInterval, error) {
	start, err := ParseDate(r.StartDate)
	if err != nil {
		return DateInterval{}, err
	}
	end, err := ParseDate(r.EndDate)
	if err != nil {
		return DateInterval{}, err
	}
	return NewDateInterval(start, end)
}

// Selection is the range the user is currently editing. A zero End means only
// the start has been picked so far.
type Selection struct {
	Start time.Time
	End   time.Time
}

func (s *Selection) interval() (DateInterval, bool) {
	if s == nil || s.Start.IsZero() {
		return DateInterval{}, false
	}
	end := s.End
	if end.IsZero() {
		end = s.Start
	}
	iv, err := NewDateInterval(s.Start, end)
	if err != nil {
		return DateInterval{}, false
	}
	return iv, true
}

// Validate reports every record that is malformed, whatever its status.
func Validate(records []Record) error {
	var errs []error
	for i, r := range records {
		if !r.Status.Valid() {
			errs = append(errs, fmt.Errorf("record %d: %w: %q", i, ErrUnknownStatus, r.Status))
			continue
		}
		if _, err := r.Interval(); err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Checker evaluates availability. Malformed authoritative data fails closed:
// the record blocks every date and a warning is logged.
type Checker struct {
	log logger.Logger
}

// NewChecker returns a Checker reporting data-integrity problems to log.
func NewChecker(log logger.Logger) *Checker {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Checker{log: log}
}

var defaultChecker = NewChecker(logger.NewDefaultLogger(logger.WarnLevel))

type blocker struct {
	interval   DateInterval
	everything bool
}

func (b blocker) blocks(d time.Time) bool {
	return b.everything || b.interval.Contains(d)
}

func (c *Checker) blockers(records []Record) []blocker {
	var out []blocker
	for i, r := range records {
		if !r.Status.Valid() {
			c.log.Warn("availability: record %d has unknown status %q, blocking all dates", i, r.Status)
			out = append(out, blocker{everything: true})
			continue
		}
		if !r.Status.Blocking() {
			continue
		}
		iv, err := r.Interval()
		if err != nil {
			c.log.Warn("availability: record %d (%s..%s) is malformed, blocking all dates: %v", i, r.StartDate, r.EndDate, err)
			out = append(out, blocker{everything: true})
			continue
		}
		out = append(out, blocker{interval: iv})
	}
	return out
}

func blocked(bs []blocker, d time.Time) bool {
	for _, b := range bs {
		if b.blocks(d) {
			return true
		}
	}
	return false
}

// IsDateReserved reports whether candidate is taken by a confirmed or completed
// reservation. Dates inside the caller's own selection are never reported reserved.
func (c *Checker) IsDateReserved(candidate time.Time, records []Record, selection *Selection) bool {
	d := CalendarDate(candidate)
	if sel, ok := selection.interval(); ok && sel.Contains(d) {
		return false
	}
	return blocked(c.blockers(records), d)
}

// FirstConflict returns the first blocked date of [start, end]. A reversed range
// reports start as conflicting.
func (c *Checker) FirstConflict(start, end time.Time, records []Record) (time.Time, bool) {
	iv, err := NewDateInterval(start, end)
	if err != nil {
		return CalendarDate(start), true
	}
	bs := c.blockers(records)
	for _, d := range iv.Days() {
		if blocked(bs, d) {
			return d, true
		}
	}
	return time.Time{}, false
}

// IsRangeBookable is true when no date of [start, end] is reserved.
func (c *Checker) IsRangeBookable(start, end time.Time, records []Record) bool {
	_, conflict := c.FirstConflict(start, end, records)
	return !conflict
}

// FilterDisabledDates adapts the checker to a date picker's filterDate callback:
// the returned predicate is true when the date may be picked.
func (c *Checker) FilterDisabledDates(records []Record, selection *Selection) func(time.Time) bool {
	bs := c.blockers(records)
	sel, hasSel := selection.interval()
	return func(d time.Time) bool {
		d = CalendarDate(d)
		if hasSel && sel.Contains(d) {
			return true
		}
		return !blocked(bs, d)
	}
}

// DisabledDates lists the dates of [from, to] that the picker must disable.
func (c *Checker) DisabledDates(from, to time.Time, records []Record, selection *Selection) []time.Time {
	iv, err := NewDateInterval(from, to)
	if err != nil {
		return nil
	}
	allowed := c.FilterDisabledDates(records, selection)
	disabled := make([]time.Time, 0)
	for _, d := range iv.Days() {
		if !allowed(d) {
			disabled = append(disabled, d)
		}
	}
	return disabled
}

// IsDateReserved uses a checker that logs warnings through the standard logger.
func IsDateReserved(candidate time.Time, records []Record, selection *Selection) bool {
	return defaultChecker.IsDateReserved(candidate, records, selection)
}

func IsRangeBookable(start, end time.Time, records []Record) bool {
	return defaultChecker.IsRangeBookable(start, end, records)
}

func FilterDisabledDates(records []Record, selection *Selection) func(time.Time) bool {
	return defaultChecker.FilterDisabledDates(records, selection)
}
