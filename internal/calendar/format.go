package calendar

import (
	"fmt"
	"time"
)

// FormatWeekRange renders a week's date range in compact human form,
// e.g. "Mar 4-10, 2024" or "Mar 28 - Apr 3, 2024" across months.
func FormatWeekRange(start, end time.Time) string {
	if start.Month() == end.Month() && start.Year() == end.Year() {
		return fmt.Sprintf("%s %d-%d, %d", start.Format("Jan"), start.Day(), end.Day(), end.Year())
	}
	return fmt.Sprintf("%s %d - %s %d, %d", start.Format("Jan"), start.Day(), end.Format("Jan"), end.Day(), end.Year())
}

// FormatDay renders a full day heading, e.g. "Monday, January 15, 2024".
func FormatDay(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

// FormatDate renders a short date, e.g. "Jan 15, 2024".
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// FormatDateLong renders a long date, e.g. "January 15, 2024".
func FormatDateLong(t time.Time) string {
	return t.Format("January 2, 2006")
}
