package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/taskkeeper/logbook/internal/calendar"
	"github.com/taskkeeper/logbook/internal/task"
)

// Page geometry in millimeters, A4 portrait.
const (
	pageMargin  = 20.0
	contentW    = 170.0 // 210 - 2*margin
	lineHeight  = 5.0
	cellPadding = 1.5
	footerRoom  = 25.0 // space reserved at the bottom for the page footer
	spacerH     = 3.0

	colMarkerW = 50.0
	colTaskW   = 80.0
	colSkillsW = 40.0

	logoW = 35.0
	logoH = 15.0
)

// Render produces the logbook PDF. Logs must already be in chronological
// order, oldest week first. generatedAt feeds the cover footer and the
// document metadata, so a fixed value makes the output byte-reproducible.
// Any failure aborts before bytes are returned; no partial document escapes.
func Render(logs []*task.WeeklyLog, cover CoverData, generatedAt time.Time) ([]byte, error) {
	if err := cover.validate(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(generatedAt)
	pdf.SetModificationDate(generatedAt)
	pdf.SetTitle("Internship Logbook", false)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, footerRoom)
	pdf.AliasNbPages("")

	pdf.SetFooterFunc(func() {
		// The cover carries its own footer.
		if pdf.PageNo() == 1 {
			return
		}
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	if err := addCoverPage(pdf, cover, generatedAt); err != nil {
		return nil, err
	}
	addTableOfContents(pdf, logs)
	addTaskTable(pdf, BuildRows(logs))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering logbook: %w", err)
	}
	return buf.Bytes(), nil
}

func addCoverPage(pdf *fpdf.Fpdf, cover CoverData, generatedAt time.Time) error {
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()
	centerX := pageW / 2

	if err := placeLogo(pdf, cover.InstitutionLogo, pageMargin); err != nil {
		return err
	}
	if err := placeLogo(pdf, cover.CompanyLogo, pageW-pageMargin-logoW); err != nil {
		return err
	}

	pdf.SetFont("Helvetica", "B", 24)
	pdf.Text(centerX-pdf.GetStringWidth("INTERNSHIP LOGBOOK")/2, 90, "INTERNSHIP LOGBOOK")

	pdf.SetFont("Helvetica", "", 14)
	startY := 120.0
	lineGap := 10.0

	centered := func(y float64, text string) {
		pdf.Text(centerX-pdf.GetStringWidth(text)/2, y, text)
	}

	centered(startY, "Student Name: "+cover.StudentName)
	centered(startY+lineGap, "Student ID: "+cover.StudentID)
	centered(startY+lineGap*2, "Institution: "+cover.Institution)
	centered(startY+lineGap*3, "Department: "+cover.Department)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(pageMargin, startY+lineGap*4, pageW-pageMargin, startY+lineGap*4)

	centered(startY+lineGap*5, "Company: "+cover.Company)
	centered(startY+lineGap*6, "Supervisor: "+cover.Supervisor)

	if !cover.PeriodStart.IsZero() && !cover.PeriodEnd.IsZero() {
		period := fmt.Sprintf("Internship Period: %s - %s",
			calendar.FormatDateLong(cover.PeriodStart),
			calendar.FormatDateLong(cover.PeriodEnd))
		centered(startY+lineGap*8, period)
	}

	pdf.SetFont("Helvetica", "", 10)
	centered(pageH-pageMargin, "Generated on "+calendar.FormatDateLong(generatedAt))

	return nil
}

// placeLogo registers and draws an optional logo image. Registration is where
// unreadable files surface, so a bad logo aborts the render instead of
// producing a corrupt document.
func placeLogo(pdf *fpdf.Fpdf, path string, x float64) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrLogoUnreadable, path)
	}

	imageType := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if imageType == "jpeg" {
		imageType = "jpg"
	}
	opts := fpdf.ImageOptions{ImageType: imageType}
	if pdf.RegisterImageOptions(path, opts) == nil || pdf.Err() {
		return fmt.Errorf("%w: %s", ErrLogoUnreadable, path)
	}

	pdf.ImageOptions(path, x, pageMargin, logoW, logoH, false, opts, 0, "")
	return nil
}

func addTableOfContents(pdf *fpdf.Fpdf, logs []*task.WeeklyLog) {
	pdf.AddPage()
	_, pageH := pdf.GetPageSize()
	breakAt := pageH - footerRoom

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(pageMargin, pageMargin)
	pdf.CellFormat(contentW, 8, "Table of Contents", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetX(pageMargin)
	pdf.CellFormat(contentW, 7, "1. Cover Page", "", 1, "L", false, 0, "")
	pdf.SetX(pageMargin)
	pdf.CellFormat(contentW, 7, "2. Weekly Logs:", "", 1, "L", false, 0, "")

	for i, log := range logs {
		// Auto page break is off, so long lists flow manually.
		if pdf.GetY()+7 > breakAt {
			pdf.AddPage()
		}
		entry := fmt.Sprintf("   %d. Week %d (%s)", i+1, log.WeekNumber,
			calendar.FormatWeekRange(log.StartDate, log.EndDate))
		pdf.SetX(pageMargin + 5)
		pdf.CellFormat(contentW-5, 7, entry, "", 1, "L", false, 0, "")
	}
}

func addTaskTable(pdf *fpdf.Fpdf, rows []Row) {
	pdf.AddPage()
	printTableHeader(pdf)

	_, pageH := pdf.GetPageSize()
	breakAt := pageH - footerRoom

	for _, row := range rows {
		if row.Spacer {
			if pdf.GetY()+spacerH < breakAt {
				pdf.SetY(pdf.GetY() + spacerH)
			}
			continue
		}

		cells := [3]string{row.Marker, row.Task, row.Skills}
		widths := [3]float64{colMarkerW, colTaskW, colSkillsW}

		pdf.SetFont("Helvetica", "", 10)
		h := rowHeight(pdf, cells, widths)
		if pdf.GetY()+h > breakAt {
			pdf.AddPage()
			printTableHeader(pdf)
		}

		drawRow(pdf, cells, widths, h)
	}
}

func printTableHeader(pdf *fpdf.Fpdf) {
	pdf.SetXY(pageMargin, pdf.GetY())
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(80, 80, 80)
	pdf.SetTextColor(255, 255, 255)

	pdf.CellFormat(colMarkerW, 8, "Week", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colTaskW, 8, "Task Performed", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colSkillsW, 8, "Skills Applied / Learnt", "1", 1, "L", true, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetX(pageMargin)
}

// rowHeight returns the height needed by the tallest cell of the row.
func rowHeight(pdf *fpdf.Fpdf, cells [3]string, widths [3]float64) float64 {
	lines := 1
	for i, text := range cells {
		n := 0
		for _, part := range strings.Split(text, "\n") {
			n += len(pdf.SplitText(part, widths[i]-2*cellPadding))
		}
		if n > lines {
			lines = n
		}
	}
	return float64(lines)*lineHeight + 2*cellPadding
}

func drawRow(pdf *fpdf.Fpdf, cells [3]string, widths [3]float64, h float64) {
	x := pageMargin
	y := pdf.GetY()
	pdf.SetDrawColor(120, 120, 120)

	for i, text := range cells {
		pdf.Rect(x, y, widths[i], h, "D")
		pdf.SetXY(x+cellPadding, y+cellPadding)
		pdf.MultiCell(widths[i]-2*cellPadding, lineHeight, text, "", "L", false)
		x += widths[i]
	}

	pdf.SetXY(pageMargin, y+h)
}
