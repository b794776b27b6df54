// Package report renders compiled weekly logs into a paginated PDF logbook.
package report

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/taskkeeper/logbook/internal/calendar"
	"github.com/taskkeeper/logbook/internal/task"
)

// Render errors. All of them abort generation before any bytes are returned.
var (
	ErrNoStudentName  = errors.New("cover data requires a student name")
	ErrInvalidPeriod  = errors.New("internship period end precedes its start")
	ErrLogoUnreadable = errors.New("cannot read logo image")
)

// CoverData holds the cover page fields. Logos are optional file paths to
// PNG or JPEG images.
type CoverData struct {
	StudentName     string
	StudentID       string
	Institution     string
	Department      string
	Company         string
	Supervisor      string
	PeriodStart     time.Time
	PeriodEnd       time.Time
	InstitutionLogo string
	CompanyLogo     string
}

func (c CoverData) validate() error {
	if strings.TrimSpace(c.StudentName) == "" {
		return ErrNoStudentName
	}
	if !c.PeriodStart.IsZero() && !c.PeriodEnd.IsZero() && c.PeriodEnd.Before(c.PeriodStart) {
		return ErrInvalidPeriod
	}
	return nil
}

// Row is one line of the continuous task table. The marker cell is filled
// only on a week's first row, emulating a merged header cell.
type Row struct {
	Marker string
	Task   string
	Skills string
	Spacer bool // blank separator between weeks, never rendered with borders
}

// WeekMarker renders the marker text for a log's first row.
func WeekMarker(log *task.WeeklyLog) string {
	return fmt.Sprintf("Week %d\n%s", log.WeekNumber, calendar.FormatWeekRange(log.StartDate, log.EndDate))
}

// BuildRows flattens logs into table rows: grouped by week, within a week by
// calendar day, with a spacer row between consecutive weeks. A week without
// tasks still yields exactly one row saying so. Logs are expected in
// chronological order; BuildRows preserves the input order.
func BuildRows(logs []*task.WeeklyLog) []Row {
	var rows []Row
	for i, log := range logs {
		if i > 0 {
			rows = append(rows, Row{Spacer: true})
		}

		if len(log.Tasks) == 0 {
			rows = append(rows, Row{
				Marker: WeekMarker(log),
				Task:   "No tasks recorded for this week",
			})
			continue
		}

		first := true
		for _, group := range groupByDay(log.Tasks) {
			for _, t := range group.tasks {
				row := Row{
					Task:   t.Content,
					Skills: strings.Join(t.Skills, ", "),
				}
				if first {
					row.Marker = WeekMarker(log)
					first = false
				}
				rows = append(rows, row)
			}
		}
	}
	return rows
}

type dayGroup struct {
	key   string
	tasks []*task.Task
}

// groupByDay buckets tasks by calendar day, days in chronological order,
// tasks within a day in their input order.
func groupByDay(tasks []*task.Task) []dayGroup {
	byDay := make(map[string][]*task.Task)
	var keys []string
	for _, t := range tasks {
		key := calendar.DayKey(t.Date)
		if _, seen := byDay[key]; !seen {
			keys = append(keys, key)
		}
		byDay[key] = append(byDay[key], t)
	}
	sort.Strings(keys)

	groups := make([]dayGroup, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, dayGroup{key: key, tasks: byDay[key]})
	}
	return groups
}

// Filename returns the export file name for a document generated at the
// given time, e.g. "Internship_Logbook_2024-03-08.pdf".
func Filename(generatedAt time.Time) string {
	return fmt.Sprintf("Internship_Logbook_%s.pdf", generatedAt.Format("2006-01-02"))
}
