package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskkeeper/logbook/internal/calendar"
)

func (a *App) weekCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the work week containing a date",
		Long: `Show the week number, range and working days of the week
containing a date (default: today), with the tasks recorded on each
working day and whether the week has been compiled.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()

			ref := time.Now()
			if date != "" {
				var err error
				ref, err = calendar.ParseDate(date)
				if err != nil {
					return err
				}
			}

			week := calendar.WeekContaining(ref, a.calCfg)

			header := fmt.Sprintf("WEEK %d, %d: %s", week.WeekNumber, week.Year,
				calendar.FormatWeekRange(week.StartDate, week.EndDate))
			fmt.Printf("\n  %s\n", formatHeader(header))
			fmt.Println(strings.Repeat("─", 74))

			total := 0
			for _, day := range calendar.WorkingDays(week, a.calCfg) {
				tasks, err := a.tasks.OnDay(ctx, day)
				if err != nil {
					return fmt.Errorf("loading tasks: %w", err)
				}

				fmt.Printf("  %s\n", formatHeader(calendar.FormatDay(day)))
				if len(tasks) == 0 {
					fmt.Println("    (no tasks)")
				}
				for _, t := range tasks {
					printTaskLine(t)
					total++
				}
			}

			fmt.Println(strings.Repeat("─", 74))
			fmt.Printf("  %d task(s) on working days\n", total)

			log, err := a.compiler().Get(ctx, week)
			if err != nil {
				return fmt.Errorf("looking up weekly log: %w", err)
			}
			if log == nil {
				fmt.Println("  Not compiled yet. Run 'logbook compile' to snapshot this week.")
			} else {
				fmt.Printf("  Compiled %s (%d tasks in snapshot, log %s)\n",
					log.CompiledAt.Format("Jan 2, 2006 15:04"), len(log.Tasks), log.ID)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any date inside the week (YYYY-MM-DD, default: today)")

	return cmd
}
