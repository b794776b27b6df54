package ui

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

func (a *App) skillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skill",
		Short: "Manage the skills tagged on a task",
	}

	cmd.AddCommand(a.skillAddCmd())
	cmd.AddCommand(a.skillRemoveCmd())

	return cmd
}

func (a *App) skillAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [task-id] [skill]...",
		Short: "Tag a task with one or more skills",
		Long: `Tag a task with skills applied or learnt. Duplicates are dropped.

Example:
  logbook skill add 3f1c... "Go" "SQL"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			t, err := a.tasks.AddSkills(context.Background(), args[0], args[1:]...)
			if err != nil {
				return err
			}
			printSuccess("Task %s skills: %s", t.ID, strings.Join(t.Skills, ", "))
			return nil
		},
	}
}

func (a *App) skillRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [task-id] [skill]",
		Short: "Remove one skill from a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			t, err := a.tasks.RemoveSkill(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}
			if len(t.Skills) == 0 {
				printSuccess("Task %s has no skills", t.ID)
				return nil
			}
			printSuccess("Task %s skills: %s", t.ID, strings.Join(t.Skills, ", "))
			return nil
		},
	}
}
