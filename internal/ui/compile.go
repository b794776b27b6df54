package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskkeeper/logbook/internal/calendar"
)

func (a *App) compileCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a week's tasks into its weekly log",
		Long: `Snapshot the tasks of the week containing a date (default: today)
into its weekly log. Recompiling a week replaces the previous
snapshot; there is never more than one log per week.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ref := time.Now()
			if date != "" {
				var err error
				ref, err = calendar.ParseDate(date)
				if err != nil {
					return err
				}
			}

			week := calendar.WeekContaining(ref, a.calCfg)
			log, err := a.compiler().Compile(context.Background(), week)
			if err != nil {
				return err
			}

			printSuccess("Compiled week %d, %d (%s): %d task(s) in snapshot",
				log.WeekNumber, log.Year,
				calendar.FormatWeekRange(log.StartDate, log.EndDate), len(log.Tasks))
			fmt.Printf("Log ID: %s\n", log.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any date inside the week (YYYY-MM-DD, default: today)")

	return cmd
}
