// Package localstore provides the local fallback storage: each collection is
// persisted as a whole JSON blob under a fixed filename, and every mutation
// rewrites the file. It keeps the same contract as the SQLite backend so
// callers cannot tell the two apart.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/taskkeeper/logbook/internal/calendar"
	"github.com/taskkeeper/logbook/internal/task"
)

const (
	tasksFile = "tasks.json"
	logsFile  = "weekly_logs.json"
)

// FileStore implements task.Store on top of two JSON files in a directory.
// It is single-user: no user scoping is applied.
type FileStore struct {
	dir string
}

// New creates a FileStore rooted at dir, creating the directory if needed.
func New(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// InsertTask persists a new task.
func (s *FileStore) InsertTask(_ context.Context, t *task.Task) error {
	tasks, err := s.loadTasks()
	if err != nil {
		return err
	}
	tasks = append(tasks, t.Clone())
	return s.saveTasks(tasks)
}

// GetTask retrieves a task by ID. Returns (nil, nil) if absent.
func (s *FileStore) GetTask(_ context.Context, id string) (*task.Task, error) {
	tasks, err := s.loadTasks()
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.ID == id {
			return t.Clone(), nil
		}
	}
	return nil, nil
}

// DeleteTask removes a task. Deleting an absent task is not an error.
func (s *FileStore) DeleteTask(_ context.Context, id string) error {
	tasks, err := s.loadTasks()
	if err != nil {
		return err
	}

	kept := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	return s.saveTasks(kept)
}

// UpdateTaskSkills replaces a task's stored skill set.
func (s *FileStore) UpdateTaskSkills(_ context.Context, id string, skills []string) (*task.Task, error) {
	tasks, err := s.loadTasks()
	if err != nil {
		return nil, err
	}

	for _, t := range tasks {
		if t.ID == id {
			t.Skills = append([]string(nil), skills...)
			if err := s.saveTasks(tasks); err != nil {
				return nil, err
			}
			return t.Clone(), nil
		}
	}
	return nil, task.ErrTaskNotFound
}

// ListTasks returns all tasks in chronological order.
func (s *FileStore) ListTasks(_ context.Context) ([]*task.Task, error) {
	tasks, err := s.loadTasks()
	if err != nil {
		return nil, err
	}
	task.SortByDate(tasks)
	return tasks, nil
}

// TasksOnDay returns the tasks recorded on the given calendar day.
func (s *FileStore) TasksOnDay(ctx context.Context, day time.Time) ([]*task.Task, error) {
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	key := calendar.DayKey(day)
	var out []*task.Task
	for _, t := range tasks {
		if calendar.DayKey(t.Date) == key {
			out = append(out, t)
		}
	}
	return out, nil
}

// TasksInRange returns the tasks recorded in [start, end] inclusive by
// calendar day.
func (s *FileStore) TasksInRange(ctx context.Context, start, end time.Time) ([]*task.Task, error) {
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	from, to := calendar.DayKey(start), calendar.DayKey(end)
	var out []*task.Task
	for _, t := range tasks {
		key := calendar.DayKey(t.Date)
		if key >= from && key <= to {
			out = append(out, t)
		}
	}
	return out, nil
}

// ListWeeklyLogs returns all compiled logs in chronological order.
func (s *FileStore) ListWeeklyLogs(_ context.Context) ([]*task.WeeklyLog, error) {
	logs, err := s.loadLogs()
	if err != nil {
		return nil, err
	}
	task.SortLogs(logs)
	return logs, nil
}

// FindWeeklyLog looks up the log for a logical week.
// Returns (nil, nil) if no log has been compiled for it.
func (s *FileStore) FindWeeklyLog(_ context.Context, key task.WeekKey) (*task.WeeklyLog, error) {
	logs, err := s.loadLogs()
	if err != nil {
		return nil, err
	}
	for _, l := range logs {
		if l.Key() == key {
			return l.Clone(), nil
		}
	}
	return nil, nil
}

// UpsertWeeklyLog inserts or replaces the log for its week key. An existing
// log keeps its original ID.
func (s *FileStore) UpsertWeeklyLog(_ context.Context, log *task.WeeklyLog) (*task.WeeklyLog, error) {
	logs, err := s.loadLogs()
	if err != nil {
		return nil, err
	}

	stored := log.Clone()
	replaced := false
	for i, l := range logs {
		if l.Key() == log.Key() {
			stored.ID = l.ID
			logs[i] = stored
			replaced = true
			break
		}
	}
	if !replaced {
		logs = append(logs, stored)
	}

	if err := s.saveLogs(logs); err != nil {
		return nil, err
	}
	return stored.Clone(), nil
}

// DeleteWeeklyLog removes a compiled log by ID. Idempotent.
func (s *FileStore) DeleteWeeklyLog(_ context.Context, id string) error {
	logs, err := s.loadLogs()
	if err != nil {
		return err
	}

	kept := logs[:0]
	for _, l := range logs {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	return s.saveLogs(kept)
}

// Close is a no-op; the files hold no open handles between calls.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) loadTasks() ([]*task.Task, error) {
	var tasks []*task.Task
	if err := s.loadFile(tasksFile, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *FileStore) saveTasks(tasks []*task.Task) error {
	if tasks == nil {
		tasks = []*task.Task{}
	}
	return s.saveFile(tasksFile, tasks)
}

func (s *FileStore) loadLogs() ([]*task.WeeklyLog, error) {
	var logs []*task.WeeklyLog
	if err := s.loadFile(logsFile, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *FileStore) saveLogs(logs []*task.WeeklyLog) error {
	if logs == nil {
		logs = []*task.WeeklyLog{}
	}
	return s.saveFile(logsFile, logs)
}

func (s *FileStore) loadFile(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", name, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// saveFile rewrites the whole collection atomically via a temp file rename,
// so a crash mid-write never leaves a truncated blob behind.
func (s *FileStore) saveFile(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}
