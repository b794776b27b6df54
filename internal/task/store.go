package task

import (
	"context"
	"time"
)

// Store defines the persistence contract for tasks and weekly logs. It is
// implemented by the SQLite backend and the local file fallback; callers use
// both through this interface and never branch on which one they hold.
//
// Every mutating call durably persists before returning. Lookups for absent
// records return (nil, nil); mutations against absent records return
// ErrTaskNotFound where the operation requires the record, and succeed
// silently where deletion is idempotent.
type Store interface {
	// InsertTask persists a new task.
	InsertTask(ctx context.Context, t *Task) error

	// GetTask retrieves a task by ID. Returns (nil, nil) if absent.
	GetTask(ctx context.Context, id string) (*Task, error)

	// DeleteTask removes a task. Deleting an absent task is not an error.
	DeleteTask(ctx context.Context, id string) error

	// UpdateTaskSkills replaces the stored skill set of a task and returns
	// the updated record. Returns ErrTaskNotFound if the task is absent.
	UpdateTaskSkills(ctx context.Context, id string, skills []string) (*Task, error)

	// ListTasks returns all tasks in chronological order.
	ListTasks(ctx context.Context) ([]*Task, error)

	// TasksOnDay returns the tasks recorded on the given calendar day.
	TasksOnDay(ctx context.Context, day time.Time) ([]*Task, error)

	// TasksInRange returns the tasks recorded in [start, end] inclusive,
	// by calendar day. Working-day exclusion is a compile-time concern and
	// is not applied here.
	TasksInRange(ctx context.Context, start, end time.Time) ([]*Task, error)

	// ListWeeklyLogs returns all compiled logs in chronological order.
	ListWeeklyLogs(ctx context.Context) ([]*WeeklyLog, error)

	// FindWeeklyLog looks up the log for a logical week.
	// Returns (nil, nil) if no log has been compiled for it.
	FindWeeklyLog(ctx context.Context, key WeekKey) (*WeeklyLog, error)

	// UpsertWeeklyLog inserts or replaces the log for its week key and
	// returns the stored record. An existing log keeps its original ID.
	UpsertWeeklyLog(ctx context.Context, log *WeeklyLog) (*WeeklyLog, error)

	// DeleteWeeklyLog removes a compiled log by ID. Idempotent.
	DeleteWeeklyLog(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}
