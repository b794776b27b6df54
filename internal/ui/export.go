package ui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskkeeper/logbook/internal/report"
	"github.com/taskkeeper/logbook/internal/task"
)

func (a *App) exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all compiled weekly logs as a PDF logbook",
		Long: `Render every compiled weekly log into a paginated PDF: cover page,
table of contents and a continuous task table grouped by week and
day. Cover fields come from the [cover] section of the config.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			logs, err := a.store.ListWeeklyLogs(context.Background())
			if err != nil {
				return fmt.Errorf("listing weekly logs: %w", err)
			}
			task.SortLogs(logs)

			now := time.Now()
			data, err := report.Render(logs, a.coverData(), now)
			if err != nil {
				return err
			}

			if out == "" {
				out = report.Filename(now)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}

			printSuccess("Exported %d weekly log(s) to %s", len(logs), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: Internship_Logbook_<date>.pdf)")

	return cmd
}

// coverData maps the configured cover section onto the report's cover model.
func (a *App) coverData() report.CoverData {
	start, end := a.config.CoverPeriod()
	c := a.config.Cover
	return report.CoverData{
		StudentName:     c.StudentName,
		StudentID:       c.StudentID,
		Institution:     c.Institution,
		Department:      c.Department,
		Company:         c.Company,
		Supervisor:      c.Supervisor,
		PeriodStart:     start,
		PeriodEnd:       end,
		InstitutionLogo: c.InstitutionLogo,
		CompanyLogo:     c.CompanyLogo,
	}
}
