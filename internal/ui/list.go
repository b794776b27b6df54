package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskkeeper/logbook/internal/calendar"
	"github.com/taskkeeper/logbook/internal/task"
)

func (a *App) listCmd() *cobra.Command {
	var (
		date     string
		thisWeek bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded tasks",
		Long: `List recorded tasks, optionally narrowed to a day or to the
current week.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()

			var (
				tasks []*task.Task
				err   error
			)
			switch {
			case date != "":
				var day time.Time
				day, err = calendar.ParseDate(date)
				if err != nil {
					return err
				}
				tasks, err = a.tasks.OnDay(ctx, day)
			case thisWeek:
				week := calendar.WeekContaining(time.Now(), a.calCfg)
				tasks, err = a.tasks.InRange(ctx, week.StartDate, week.EndDate)
			default:
				tasks, err = a.tasks.List(ctx)
			}
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}

			if len(tasks) == 0 {
				fmt.Println("No tasks recorded.")
				return nil
			}

			printTasksByDay(tasks)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Only tasks on this day (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&thisWeek, "week", false, "Only tasks in the current week")

	return cmd
}
