package task

import (
	"fmt"
	"slices"
	"time"
)

// WeekKey is the logical identity of a weekly log. Lookups and upserts key on
// it; a log's ID is purely a storage-row handle with no semantic meaning.
type WeekKey struct {
	WeekNumber int
	Year       int
}

// String renders the key in its canonical form, e.g. "week-2024-3".
func (k WeekKey) String() string {
	return fmt.Sprintf("week-%d-%d", k.Year, k.WeekNumber)
}

// WeeklyLog is a compiled point-in-time snapshot of one week's tasks.
// At most one exists per (WeekNumber, Year) per user; recompiling replaces
// the snapshot rather than creating a duplicate.
type WeeklyLog struct {
	ID         string
	UserID     string
	WeekNumber int
	Year       int
	StartDate  time.Time
	EndDate    time.Time
	Tasks      []*Task // deep copy taken at compile time, never live records
	CompiledAt time.Time
}

// Key returns the log's logical week key.
func (l *WeeklyLog) Key() WeekKey {
	return WeekKey{WeekNumber: l.WeekNumber, Year: l.Year}
}

// Clone returns a deep copy of the log, including its task snapshot.
func (l *WeeklyLog) Clone() *WeeklyLog {
	c := *l
	c.Tasks = CloneAll(l.Tasks)
	return &c
}

// SortLogs orders logs chronologically by week start date.
func SortLogs(logs []*WeeklyLog) {
	slices.SortStableFunc(logs, func(a, b *WeeklyLog) int {
		return a.StartDate.Compare(b.StartDate)
	})
}
