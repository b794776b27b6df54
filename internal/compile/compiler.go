// Package compile turns a week's tasks into persisted weekly log snapshots.
package compile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskkeeper/logbook/internal/calendar"
	"github.com/taskkeeper/logbook/internal/task"
)

// Clock abstracts time.Now so time-dependent behavior can be pinned in tests.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current system time.
func (RealClock) Now() time.Time {
	return time.Now()
}

var _ Clock = RealClock{}

// Compiler compiles weekly logs from the task store. Compiling is an upsert
// keyed on the logical week: the first compile of a week creates a record
// with a fresh identifier, every later compile replaces its snapshot.
type Compiler struct {
	store  task.Store
	cfg    calendar.Config
	userID string
	clock  Clock
	log    zerolog.Logger
}

// New creates a Compiler.
func New(store task.Store, cfg calendar.Config, userID string, clock Clock, log zerolog.Logger) *Compiler {
	return &Compiler{store: store, cfg: cfg, userID: userID, clock: clock, log: log}
}

// Compile snapshots the week's tasks into its weekly log and returns the
// stored record. The snapshot holds deep copies taken now: later edits to the
// live tasks do not reach an already-compiled log. Only working days
// contribute; weekend exclusion happens here, not in the store.
func (c *Compiler) Compile(ctx context.Context, week calendar.Week) (*task.WeeklyLog, error) {
	tasks, err := c.weekTasks(ctx, week)
	if err != nil {
		return nil, err
	}
	return c.compile(ctx, week, tasks)
}

// compile upserts the snapshot for an already-loaded task set.
func (c *Compiler) compile(ctx context.Context, week calendar.Week, tasks []*task.Task) (*task.WeeklyLog, error) {
	key := task.WeekKey{WeekNumber: week.WeekNumber, Year: week.Year}
	existing, err := c.store.FindWeeklyLog(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("looking up weekly log: %w", err)
	}

	id := uuid.NewString()
	if existing != nil {
		id = existing.ID
	}

	stored, err := c.store.UpsertWeeklyLog(ctx, &task.WeeklyLog{
		ID:         id,
		UserID:     c.userID,
		WeekNumber: week.WeekNumber,
		Year:       week.Year,
		StartDate:  week.StartDate,
		EndDate:    week.EndDate,
		Tasks:      task.CloneAll(tasks),
		CompiledAt: c.clock.Now(),
	})
	if err != nil {
		c.log.Error().Err(err).Int("week", week.WeekNumber).Int("year", week.Year).
			Msg("compiling weekly log failed")
		return nil, fmt.Errorf("storing weekly log: %w", err)
	}

	c.log.Info().Int("week", stored.WeekNumber).Int("year", stored.Year).
		Int("tasks", len(stored.Tasks)).Msg("compiled weekly log")
	return stored, nil
}

// Get returns the compiled log for the week, or (nil, nil) if none exists.
func (c *Compiler) Get(ctx context.Context, week calendar.Week) (*task.WeeklyLog, error) {
	return c.store.FindWeeklyLog(ctx, task.WeekKey{WeekNumber: week.WeekNumber, Year: week.Year})
}

// Delete permanently removes a compiled log by ID.
func (c *Compiler) Delete(ctx context.Context, logID string) error {
	if err := c.store.DeleteWeeklyLog(ctx, logID); err != nil {
		return fmt.Errorf("deleting weekly log: %w", err)
	}
	return nil
}

// AutoCompile runs the best-effort end-of-week check: if today is the last
// working day of the current week, no log exists for it yet, and the week has
// at least one task, the week is compiled. The second return value reports
// whether a compile happened.
func (c *Compiler) AutoCompile(ctx context.Context) (*task.WeeklyLog, bool, error) {
	now := c.clock.Now()
	week := calendar.WeekContaining(now, c.cfg)

	if !calendar.SameDay(now, calendar.LastWorkingDay(week, c.cfg)) {
		return nil, false, nil
	}

	existing, err := c.Get(ctx, week)
	if err != nil {
		return nil, false, fmt.Errorf("looking up weekly log: %w", err)
	}
	if existing != nil {
		return nil, false, nil
	}

	tasks, err := c.weekTasks(ctx, week)
	if err != nil {
		return nil, false, err
	}
	if len(tasks) == 0 {
		return nil, false, nil
	}

	log, err := c.compile(ctx, week, tasks)
	if err != nil {
		return nil, false, err
	}
	return log, true, nil
}

// weekTasks loads the week's tasks, keeping only those on working days.
// The result is a fresh slice; the store's return value is never mutated.
func (c *Compiler) weekTasks(ctx context.Context, week calendar.Week) ([]*task.Task, error) {
	tasks, err := c.store.TasksInRange(ctx, week.StartDate, week.EndDate)
	if err != nil {
		return nil, fmt.Errorf("loading week tasks: %w", err)
	}

	kept := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if calendar.IsWorkingDay(t.Date, c.cfg) {
			kept = append(kept, t)
		}
	}
	return kept, nil
}
