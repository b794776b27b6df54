// Package calendar maps calendar dates to the configurable work week used
// for bucketing tasks and numbering weekly logs.
package calendar

import (
	"errors"
	"time"
)

// Validation errors.
var (
	ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")
)

// Config defines the shape of the work week. It is threaded explicitly into
// every computation; nothing in this package reads ambient state.
type Config struct {
	// EpochDate is the optional program start date. When set, the week
	// containing it is week 1 and numbering counts whole weeks from there.
	// When nil, week numbers fall back to the calendar week of year.
	EpochDate *time.Time

	// IncludeSaturday treats Saturday as a working day. Sunday never is.
	IncludeSaturday bool
}

// Week describes the calendar week containing a reference date.
type Week struct {
	StartDate  time.Time // Monday of the week
	EndDate    time.Time // Sunday of the week
	WeekNumber int       // 1-based, per the epoch rule or calendar fallback
	Year       int       // year of the reference date used for the lookup
}

// WeekContaining returns the week bounding the given date. It is a pure
// function of (date, cfg): the same inputs always yield the same descriptor.
//
// For a week spanning a year boundary, Year follows whichever reference date
// was queried, so the same physical week can carry two logical keys.
func WeekContaining(date time.Time, cfg Config) Week {
	start := StartOfWeek(date)
	return Week{
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 6),
		WeekNumber: weekNumber(date, cfg),
		Year:       date.Year(),
	}
}

// PreviousWeek returns the week before w under the same config.
func PreviousWeek(w Week, cfg Config) Week {
	return WeekContaining(w.StartDate.AddDate(0, 0, -7), cfg)
}

// NextWeek returns the week after w under the same config.
func NextWeek(w Week, cfg Config) Week {
	return WeekContaining(w.StartDate.AddDate(0, 0, 7), cfg)
}

// Contains reports whether date falls inside w, ignoring time of day.
func (w Week) Contains(date time.Time) bool {
	d := TruncateToDay(date)
	return !d.Before(w.StartDate) && !d.After(w.EndDate)
}

// WorkingDays returns every working day in [w.StartDate, w.EndDate] in
// chronological order: Monday through Friday, plus Saturday when configured.
func WorkingDays(w Week, cfg Config) []time.Time {
	var days []time.Time
	for d := w.StartDate; !d.After(w.EndDate); d = d.AddDate(0, 0, 1) {
		if IsWorkingDay(d, cfg) {
			days = append(days, d)
		}
	}
	return days
}

// IsWorkingDay reports whether the date counts as a working day.
// Monday through Friday always do, Saturday only when configured,
// Sunday never.
func IsWorkingDay(date time.Time, cfg Config) bool {
	switch date.Weekday() {
	case time.Sunday:
		return false
	case time.Saturday:
		return cfg.IncludeSaturday
	default:
		return true
	}
}

// LastWorkingDay returns the final working day of the week: Friday, or
// Saturday when Saturday is a working day.
func LastWorkingDay(w Week, cfg Config) time.Time {
	if cfg.IncludeSaturday {
		return w.StartDate.AddDate(0, 0, 5)
	}
	return w.StartDate.AddDate(0, 0, 4)
}

// DayKey returns the canonical zero-padded YYYY-MM-DD identifier for the
// date's local calendar day. Two instants on the same day share a key.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return TruncateToDay(a).Equal(TruncateToDay(b))
}

// ParseDate parses a date string in YYYY-MM-DD format.
// If the string is empty, returns today's date.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return TruncateToDay(time.Now()), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// StartOfWeek returns the Monday of the week containing the given date.
func StartOfWeek(t time.Time) time.Time {
	t = TruncateToDay(t)
	weekday := int(t.Weekday())
	// Convert Sunday (0) to 7 for easier calculation
	if weekday == 0 {
		weekday = 7
	}
	// Go back to Monday (weekday 1)
	return t.AddDate(0, 0, -(weekday - 1))
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// weekNumber computes the 1-based week number for the date.
func weekNumber(date time.Time, cfg Config) int {
	if cfg.EpochDate != nil {
		days := daysBetween(StartOfWeek(*cfg.EpochDate), StartOfWeek(date))
		n := days/7 + 1
		if n < 1 {
			n = 1
		}
		return n
	}
	return calendarWeekOfYear(date)
}

// calendarWeekOfYear is the epoch-less fallback: the week of the reference
// date's own year, counting partial first weeks. Jan 1 of a year starting
// mid-week still lands in week 1.
func calendarWeekOfYear(date time.Time) int {
	jan1 := time.Date(date.Year(), time.January, 1, 0, 0, 0, 0, date.Location())
	past := daysBetween(jan1, date)
	// Weekday offset uses Sunday=0 numbering so weeks break on Sundays.
	offset := int(jan1.Weekday())
	return (past + offset + 1 + 6) / 7
}

// daysBetween returns the number of calendar days from a to b, negative when
// b precedes a. Both are compared by civil date, so DST shifts cannot skew
// the count.
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}
