package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskkeeper/logbook/internal/calendar"
)

func (a *App) addCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "add [content]",
		Short: "Record a work item",
		Long: `Record a work item for a day.

Example:
  logbook add "Implemented the login flow" --date=2024-03-05`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			day, err := calendar.ParseDate(date)
			if err != nil {
				return err
			}

			t, err := a.tasks.Add(context.Background(), args[0], day)
			if err != nil {
				return err
			}

			printSuccess("Recorded task %s: %s (%s)", t.ID, t.Content, t.Date.Format("Mon Jan 2, 2006"))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day the work was done (YYYY-MM-DD, default: today)")

	return cmd
}

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [task-id]",
		Short: "Delete a recorded task",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.tasks.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted task %s\n", args[0])
			return nil
		},
	}
}
