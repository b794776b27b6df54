package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskkeeper/logbook/internal/calendar"
)

func (a *App) logsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List compiled weekly logs",
		RunE: func(_ *cobra.Command, _ []string) error {
			logs, err := a.store.ListWeeklyLogs(context.Background())
			if err != nil {
				return fmt.Errorf("listing weekly logs: %w", err)
			}

			if len(logs) == 0 {
				fmt.Println("No weekly logs compiled yet.")
				return nil
			}

			for _, log := range logs {
				fmt.Printf("  %s  Week %d, %d (%s): %d task(s), compiled %s\n",
					log.ID,
					log.WeekNumber, log.Year,
					calendar.FormatWeekRange(log.StartDate, log.EndDate),
					len(log.Tasks),
					log.CompiledAt.Format("Jan 2, 2006 15:04"))
			}
			return nil
		},
	}

	cmd.AddCommand(a.logsDeleteCmd())

	return cmd
}

func (a *App) logsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [log-id]",
		Short: "Delete a compiled weekly log",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.compiler().Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted weekly log %s\n", args[0])
			return nil
		},
	}
}
