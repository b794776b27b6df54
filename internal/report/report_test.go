package report

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskkeeper/logbook/internal/task"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func testTask(t *testing.T, content string, date time.Time, skills ...string) *task.Task {
	t.Helper()
	tk, err := task.New(content, date)
	require.NoError(t, err)
	tk.AddSkills(skills...)
	return tk
}

func testLog(week int, start time.Time, tasks ...*task.Task) *task.WeeklyLog {
	return &task.WeeklyLog{
		ID:         "log",
		WeekNumber: week,
		Year:       start.Year(),
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 6),
		Tasks:      tasks,
	}
}

func validCover() CoverData {
	return CoverData{
		StudentName: "Jordan Smith",
		StudentID:   "S-1234",
		Institution: "State Technical University",
		Department:  "Computer Engineering",
		Company:     "Acme Systems",
		Supervisor:  "Dana Lee",
		PeriodStart: day(2024, time.January, 15),
		PeriodEnd:   day(2024, time.April, 12),
	}
}

func TestWeekMarker(t *testing.T) {
	log := testLog(10, day(2024, time.March, 4))
	assert.Equal(t, "Week 10\nMar 4-10, 2024", WeekMarker(log))
}

func TestBuildRows_GroupsByWeekAndDay(t *testing.T) {
	week1 := testLog(10, day(2024, time.March, 4),
		// Out of day order on purpose; rows must come out chronological.
		testTask(t, "friday task", day(2024, time.March, 8), "Review"),
		testTask(t, "monday task", day(2024, time.March, 4), "Go", "SQL"),
		testTask(t, "second monday task", day(2024, time.March, 4)),
	)
	week2 := testLog(11, day(2024, time.March, 11),
		testTask(t, "next week task", day(2024, time.March, 11)),
	)

	rows := BuildRows([]*task.WeeklyLog{week1, week2})
	require.Len(t, rows, 5)

	// Week 1: marker on the first row only, days chronological.
	assert.Equal(t, WeekMarker(week1), rows[0].Marker)
	assert.Equal(t, "monday task", rows[0].Task)
	assert.Equal(t, "Go, SQL", rows[0].Skills)

	assert.Empty(t, rows[1].Marker)
	assert.Equal(t, "second monday task", rows[1].Task)
	assert.Empty(t, rows[1].Skills)

	assert.Empty(t, rows[2].Marker)
	assert.Equal(t, "friday task", rows[2].Task)

	// Spacer between weeks.
	assert.True(t, rows[3].Spacer)

	// Week 2 restarts the marker.
	assert.Equal(t, WeekMarker(week2), rows[4].Marker)
	assert.Equal(t, "next week task", rows[4].Task)
}

func TestBuildRows_EmptyWeek(t *testing.T) {
	rows := BuildRows([]*task.WeeklyLog{testLog(10, day(2024, time.March, 4))})
	require.Len(t, rows, 1)
	assert.Equal(t, "No tasks recorded for this week", rows[0].Task)
	assert.Equal(t, WeekMarker(testLog(10, day(2024, time.March, 4))), rows[0].Marker)
}

func TestBuildRows_NoLogs(t *testing.T) {
	assert.Empty(t, BuildRows(nil))
}

func TestBuildRows_NoTrailingSpacer(t *testing.T) {
	logs := []*task.WeeklyLog{
		testLog(10, day(2024, time.March, 4)),
		testLog(11, day(2024, time.March, 11)),
	}
	rows := BuildRows(logs)
	require.NotEmpty(t, rows)
	assert.False(t, rows[0].Spacer)
	assert.False(t, rows[len(rows)-1].Spacer)
}

func TestFilename(t *testing.T) {
	got := Filename(time.Date(2024, time.March, 8, 23, 59, 0, 0, time.Local))
	assert.Equal(t, "Internship_Logbook_2024-03-08.pdf", got)
}

func TestRender_ValidDocument(t *testing.T) {
	logs := []*task.WeeklyLog{
		testLog(10, day(2024, time.March, 4),
			testTask(t, "Implemented the CSV importer", day(2024, time.March, 4), "Go"),
			testTask(t, "Debugged the nightly sync", day(2024, time.March, 6), "SQL", "Debugging"),
		),
		testLog(11, day(2024, time.March, 11)),
	}

	out, err := Render(logs, validCover(), day(2024, time.March, 18))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "output must be a PDF document")
}

func TestRender_Deterministic(t *testing.T) {
	logs := []*task.WeeklyLog{
		testLog(10, day(2024, time.March, 4),
			testTask(t, "same input", day(2024, time.March, 4), "Go"),
		),
	}
	generatedAt := day(2024, time.March, 18)

	first, err := Render(logs, validCover(), generatedAt)
	require.NoError(t, err)
	second, err := Render(logs, validCover(), generatedAt)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same input must produce identical bytes")

	// Both document dates must come from generatedAt. A date falling back to
	// the wall clock would leave only one pinned stamp and make the output
	// differ across a second boundary.
	stamp := []byte("D:20240318000000")
	assert.Equal(t, 2, bytes.Count(first, stamp),
		"creation and modification dates must both be pinned to generatedAt")
}

func TestRender_NoLogs(t *testing.T) {
	out, err := Render(nil, validCover(), day(2024, time.March, 18))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRender_MissingStudentName(t *testing.T) {
	cover := validCover()
	cover.StudentName = "   "

	_, err := Render(nil, cover, day(2024, time.March, 18))
	assert.ErrorIs(t, err, ErrNoStudentName)
}

func TestRender_InvalidPeriod(t *testing.T) {
	cover := validCover()
	cover.PeriodStart = day(2024, time.April, 12)
	cover.PeriodEnd = day(2024, time.January, 15)

	_, err := Render(nil, cover, day(2024, time.March, 18))
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestRender_WithLogo(t *testing.T) {
	cover := validCover()
	cover.InstitutionLogo = writeTestPNG(t)

	out, err := Render(nil, cover, day(2024, time.March, 18))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRender_MissingLogoFile(t *testing.T) {
	cover := validCover()
	cover.CompanyLogo = filepath.Join(t.TempDir(), "missing.png")

	_, err := Render(nil, cover, day(2024, time.March, 18))
	assert.ErrorIs(t, err, ErrLogoUnreadable)
}

func TestRender_CorruptLogoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	cover := validCover()
	cover.InstitutionLogo = path

	_, err := Render(nil, cover, day(2024, time.March, 18))
	assert.ErrorIs(t, err, ErrLogoUnreadable)
}

func TestTableOfContentsPaginates(t *testing.T) {
	var logs []*task.WeeklyLog
	start := day(2024, time.January, 1)
	for i := 0; i < 80; i++ {
		logs = append(logs, testLog(i+1, start.AddDate(0, 0, i*7)))
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, footerRoom)

	addTableOfContents(pdf, logs)

	require.False(t, pdf.Err())
	assert.Greater(t, pdf.PageCount(), 1, "a long table of contents must flow onto further pages")
}

func TestRender_ManyWeeksPaginate(t *testing.T) {
	// Enough long rows to force several table pages.
	var logs []*task.WeeklyLog
	start := day(2024, time.January, 1)
	for i := 0; i < 30; i++ {
		weekStart := start.AddDate(0, 0, i*7)
		logs = append(logs, testLog(i+1, weekStart,
			testTask(t, "Worked through a long-running migration of the reporting pipeline and validated the results against production", weekStart, "Data Migration", "Validation"),
			testTask(t, "Reviewed pull requests and updated the team runbook", weekStart.AddDate(0, 0, 1), "Review"),
		))
	}

	out, err := Render(logs, validCover(), day(2024, time.August, 1))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	// A multi-page document is necessarily bigger than a trivial one.
	small, err := Render(logs[:1], validCover(), day(2024, time.August, 1))
	require.NoError(t, err)
	assert.Greater(t, len(out), len(small))
}

// writeTestPNG writes a tiny valid PNG and returns its path.
func writeTestPNG(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 30, G: 60, B: 120, A: 255})
		}
	}

	path := filepath.Join(t.TempDir(), "logo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}
