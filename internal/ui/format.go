package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/taskkeeper/logbook/internal/task"
)

var (
	headerColor  = color.New(color.Bold, color.FgCyan)
	successColor = color.New(color.FgGreen)
	skillColor   = color.New(color.FgYellow)
	dimColor     = color.New(color.Faint)
)

// DisableColor turns off all color output.
func DisableColor() {
	color.NoColor = true
}

func formatHeader(s string) string {
	return headerColor.Sprint(s)
}

func printSuccess(format string, args ...any) {
	fmt.Println(successColor.Sprintf(format, args...))
}

// printTaskLine prints one task row: id, content and skills.
func printTaskLine(t *task.Task) {
	line := fmt.Sprintf("  %s  %s", dimColor.Sprint(t.ID), t.Content)
	if len(t.Skills) > 0 {
		line += "  " + skillColor.Sprintf("[%s]", strings.Join(t.Skills, ", "))
	}
	fmt.Println(line)
}

// printTasksByDay prints tasks grouped under day headers. Tasks must already
// be in chronological order.
func printTasksByDay(tasks []*task.Task) {
	var currentDay string
	for _, t := range tasks {
		day := t.Date.Format("2006-01-02")
		if day != currentDay {
			if currentDay != "" {
				fmt.Println()
			}
			fmt.Printf("  %s\n", formatHeader(t.Date.Format("Monday, Jan 2, 2006")))
			currentDay = day
		}
		printTaskLine(t)
	}
}
