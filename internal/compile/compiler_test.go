package compile

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskkeeper/logbook/internal/calendar"
	"github.com/taskkeeper/logbook/internal/localstore"
	"github.com/taskkeeper/logbook/internal/task"
)

// fixedClock pins Now to a single instant.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func newTestCompiler(t *testing.T, cfg calendar.Config, now time.Time) (*Compiler, *localstore.FileStore) {
	t.Helper()
	store, err := localstore.New(t.TempDir())
	require.NoError(t, err)
	c := New(store, cfg, "tester", fixedClock{now: now}, zerolog.Nop())
	return c, store
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func addTask(t *testing.T, store task.Store, content string, date time.Time) *task.Task {
	t.Helper()
	tk, err := task.New(content, date)
	require.NoError(t, err)
	require.NoError(t, store.InsertTask(context.Background(), tk))
	return tk
}

func TestCompile_SnapshotsWorkingDays(t *testing.T) {
	compiledAt := time.Date(2024, time.March, 8, 17, 0, 0, 0, time.Local)
	c, store := newTestCompiler(t, calendar.Config{}, compiledAt)
	ctx := context.Background()

	addTask(t, store, "monday work", day(2024, time.March, 4))
	addTask(t, store, "friday work", day(2024, time.March, 8))
	addTask(t, store, "saturday work", day(2024, time.March, 9))
	addTask(t, store, "sunday work", day(2024, time.March, 10))
	addTask(t, store, "next week", day(2024, time.March, 11))

	week := calendar.WeekContaining(day(2024, time.March, 4), calendar.Config{})
	log, err := c.Compile(ctx, week)
	require.NoError(t, err)

	// Saturday is off by default and Sunday always is.
	require.Len(t, log.Tasks, 2)
	assert.Equal(t, "monday work", log.Tasks[0].Content)
	assert.Equal(t, "friday work", log.Tasks[1].Content)
	assert.Equal(t, week.WeekNumber, log.WeekNumber)
	assert.Equal(t, week.Year, log.Year)
	assert.True(t, log.CompiledAt.Equal(compiledAt))
}

func TestCompile_IncludesSaturdayWhenConfigured(t *testing.T) {
	cfg := calendar.Config{IncludeSaturday: true}
	c, store := newTestCompiler(t, cfg, day(2024, time.March, 9))
	ctx := context.Background()

	addTask(t, store, "saturday work", day(2024, time.March, 9))
	addTask(t, store, "sunday work", day(2024, time.March, 10))

	week := calendar.WeekContaining(day(2024, time.March, 4), cfg)
	log, err := c.Compile(ctx, week)
	require.NoError(t, err)

	require.Len(t, log.Tasks, 1)
	assert.Equal(t, "saturday work", log.Tasks[0].Content)
}

func TestCompile_Idempotent(t *testing.T) {
	c, store := newTestCompiler(t, calendar.Config{}, day(2024, time.March, 8))
	ctx := context.Background()

	addTask(t, store, "monday work", day(2024, time.March, 4))
	week := calendar.WeekContaining(day(2024, time.March, 4), calendar.Config{})

	first, err := c.Compile(ctx, week)
	require.NoError(t, err)

	addTask(t, store, "tuesday work", day(2024, time.March, 5))
	second, err := c.Compile(ctx, week)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "recompiling must keep the original record ID")
	assert.Len(t, second.Tasks, 2)

	logs, err := store.ListWeeklyLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
}

func TestCompile_EmptyWeek(t *testing.T) {
	c, store := newTestCompiler(t, calendar.Config{}, day(2024, time.March, 8))
	ctx := context.Background()

	week := calendar.WeekContaining(day(2024, time.March, 4), calendar.Config{})
	log, err := c.Compile(ctx, week)
	require.NoError(t, err)
	assert.Empty(t, log.Tasks)

	logs, err := store.ListWeeklyLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
}

func TestCompile_SnapshotIsolation(t *testing.T) {
	c, store := newTestCompiler(t, calendar.Config{}, day(2024, time.March, 8))
	ctx := context.Background()

	tk := addTask(t, store, "monday work", day(2024, time.March, 4))
	week := calendar.WeekContaining(day(2024, time.March, 4), calendar.Config{})

	_, err := c.Compile(ctx, week)
	require.NoError(t, err)

	// Mutations after compiling must not reach the snapshot.
	_, err = store.UpdateTaskSkills(ctx, tk.ID, []string{"Editing"})
	require.NoError(t, err)
	require.NoError(t, store.DeleteTask(ctx, tk.ID))

	got, err := c.Get(ctx, week)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "monday work", got.Tasks[0].Content)
	assert.Empty(t, got.Tasks[0].Skills)
}

func TestAutoCompile_LastWorkingDay(t *testing.T) {
	// Friday March 8 is the last working day of the Mar 4-10 week.
	now := time.Date(2024, time.March, 8, 16, 30, 0, 0, time.Local)
	c, store := newTestCompiler(t, calendar.Config{}, now)
	ctx := context.Background()

	addTask(t, store, "monday work", day(2024, time.March, 4))

	log, compiled, err := c.AutoCompile(ctx)
	require.NoError(t, err)
	assert.True(t, compiled)
	require.NotNil(t, log)
	assert.Len(t, log.Tasks, 1)
}

func TestAutoCompile_NotLastWorkingDay(t *testing.T) {
	now := time.Date(2024, time.March, 6, 10, 0, 0, 0, time.Local)
	c, store := newTestCompiler(t, calendar.Config{}, now)
	ctx := context.Background()

	addTask(t, store, "wednesday work", day(2024, time.March, 6))

	log, compiled, err := c.AutoCompile(ctx)
	require.NoError(t, err)
	assert.False(t, compiled)
	assert.Nil(t, log)
}

func TestAutoCompile_SaturdayShiftsTheTrigger(t *testing.T) {
	cfg := calendar.Config{IncludeSaturday: true}
	friday := time.Date(2024, time.March, 8, 16, 0, 0, 0, time.Local)
	c, store := newTestCompiler(t, cfg, friday)
	ctx := context.Background()

	addTask(t, store, "friday work", day(2024, time.March, 8))

	// With Saturdays on, Friday is no longer the last working day.
	_, compiled, err := c.AutoCompile(ctx)
	require.NoError(t, err)
	assert.False(t, compiled)

	saturday := time.Date(2024, time.March, 9, 16, 0, 0, 0, time.Local)
	c2 := New(store, cfg, "tester", fixedClock{now: saturday}, zerolog.Nop())
	_, compiled, err = c2.AutoCompile(ctx)
	require.NoError(t, err)
	assert.True(t, compiled)
}

func TestAutoCompile_SkipsWhenLogExists(t *testing.T) {
	now := time.Date(2024, time.March, 8, 16, 30, 0, 0, time.Local)
	c, store := newTestCompiler(t, calendar.Config{}, now)
	ctx := context.Background()

	addTask(t, store, "monday work", day(2024, time.March, 4))
	week := calendar.WeekContaining(now, calendar.Config{})
	_, err := c.Compile(ctx, week)
	require.NoError(t, err)

	log, compiled, err := c.AutoCompile(ctx)
	require.NoError(t, err)
	assert.False(t, compiled)
	assert.Nil(t, log)
}

func TestAutoCompile_SkipsEmptyWeek(t *testing.T) {
	now := time.Date(2024, time.March, 8, 16, 30, 0, 0, time.Local)
	c, _ := newTestCompiler(t, calendar.Config{}, now)

	log, compiled, err := c.AutoCompile(context.Background())
	require.NoError(t, err)
	assert.False(t, compiled)
	assert.Nil(t, log)
}

// cachedStore hands out its internally held task slice from range queries,
// the way a caching backend might, and counts those queries.
type cachedStore struct {
	tasks      []*task.Task
	logs       []*task.WeeklyLog
	rangeCalls int
}

func (s *cachedStore) InsertTask(_ context.Context, t *task.Task) error {
	s.tasks = append(s.tasks, t)
	return nil
}

func (s *cachedStore) GetTask(_ context.Context, id string) (*task.Task, error) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t.Clone(), nil
		}
	}
	return nil, nil
}

func (s *cachedStore) DeleteTask(_ context.Context, id string) error {
	kept := make([]*task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	return nil
}

func (s *cachedStore) UpdateTaskSkills(_ context.Context, id string, skills []string) (*task.Task, error) {
	for _, t := range s.tasks {
		if t.ID == id {
			t.Skills = append([]string(nil), skills...)
			return t.Clone(), nil
		}
	}
	return nil, task.ErrTaskNotFound
}

func (s *cachedStore) ListTasks(_ context.Context) ([]*task.Task, error) {
	return s.tasks, nil
}

func (s *cachedStore) TasksOnDay(ctx context.Context, d time.Time) ([]*task.Task, error) {
	return s.TasksInRange(ctx, d, d)
}

func (s *cachedStore) TasksInRange(_ context.Context, _, _ time.Time) ([]*task.Task, error) {
	s.rangeCalls++
	return s.tasks, nil
}

func (s *cachedStore) ListWeeklyLogs(_ context.Context) ([]*task.WeeklyLog, error) {
	out := make([]*task.WeeklyLog, len(s.logs))
	for i, l := range s.logs {
		out[i] = l.Clone()
	}
	return out, nil
}

func (s *cachedStore) FindWeeklyLog(_ context.Context, key task.WeekKey) (*task.WeeklyLog, error) {
	for _, l := range s.logs {
		if l.Key() == key {
			return l.Clone(), nil
		}
	}
	return nil, nil
}

func (s *cachedStore) UpsertWeeklyLog(_ context.Context, log *task.WeeklyLog) (*task.WeeklyLog, error) {
	stored := log.Clone()
	for i, l := range s.logs {
		if l.Key() == log.Key() {
			stored.ID = l.ID
			s.logs[i] = stored
			return stored.Clone(), nil
		}
	}
	s.logs = append(s.logs, stored)
	return stored.Clone(), nil
}

func (s *cachedStore) DeleteWeeklyLog(_ context.Context, id string) error {
	kept := make([]*task.WeeklyLog, 0, len(s.logs))
	for _, l := range s.logs {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	s.logs = kept
	return nil
}

func (s *cachedStore) Close() error { return nil }

var _ task.Store = (*cachedStore)(nil)

func TestCompile_DoesNotMutateStoreSlice(t *testing.T) {
	store := &cachedStore{}
	ctx := context.Background()

	monday, err := task.New("monday work", day(2024, time.March, 4))
	require.NoError(t, err)
	sunday, err := task.New("sunday work", day(2024, time.March, 10))
	require.NoError(t, err)
	store.tasks = []*task.Task{monday, sunday}

	c := New(store, calendar.Config{}, "tester", fixedClock{now: day(2024, time.March, 8)}, zerolog.Nop())
	week := calendar.WeekContaining(day(2024, time.March, 4), calendar.Config{})

	log, err := c.Compile(ctx, week)
	require.NoError(t, err)
	require.Len(t, log.Tasks, 1)

	// The store still owns its slice untouched after the working-day filter.
	require.Len(t, store.tasks, 2)
	assert.Equal(t, "monday work", store.tasks[0].Content)
	assert.Equal(t, "sunday work", store.tasks[1].Content)
}

func TestAutoCompile_LoadsTasksOnce(t *testing.T) {
	store := &cachedStore{}
	tk, err := task.New("friday work", day(2024, time.March, 8))
	require.NoError(t, err)
	store.tasks = []*task.Task{tk}

	now := time.Date(2024, time.March, 8, 16, 30, 0, 0, time.Local)
	c := New(store, calendar.Config{}, "tester", fixedClock{now: now}, zerolog.Nop())

	log, compiled, err := c.AutoCompile(context.Background())
	require.NoError(t, err)
	require.True(t, compiled)
	require.Len(t, log.Tasks, 1)
	assert.Equal(t, 1, store.rangeCalls, "the week's tasks should be loaded once, not per phase")
}

func TestDelete(t *testing.T) {
	c, store := newTestCompiler(t, calendar.Config{}, day(2024, time.March, 8))
	ctx := context.Background()

	addTask(t, store, "monday work", day(2024, time.March, 4))
	week := calendar.WeekContaining(day(2024, time.March, 4), calendar.Config{})
	log, err := c.Compile(ctx, week)
	require.NoError(t, err)

	require.NoError(t, c.Delete(ctx, log.ID))
	got, err := c.Get(ctx, week)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting again is fine.
	require.NoError(t, c.Delete(ctx, log.ID))
}
