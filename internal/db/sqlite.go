// Package db provides the SQLite storage implementation. Every row is scoped
// to the owning user, so several users can share one database file.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/taskkeeper/logbook/internal/calendar"
	"github.com/taskkeeper/logbook/internal/task"
)

// SQLite implements task.Store using SQLite.
type SQLite struct {
	db     *sql.DB
	userID string
}

// New creates a new SQLite store scoped to the given user and runs
// migrations.
func New(path, userID string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db, userID: userID}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// InsertTask persists a new task under the store's user scope.
func (s *SQLite) InsertTask(ctx context.Context, t *task.Task) error {
	skills, err := json.Marshal(skillsOrEmpty(t.Skills))
	if err != nil {
		return fmt.Errorf("encoding skills: %w", err)
	}

	query := `
		INSERT INTO tasks (id, user_id, content, day, date, created_at, skills)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		t.ID,
		s.userID,
		t.Content,
		calendar.DayKey(t.Date),
		t.Date.Format(time.RFC3339Nano),
		t.CreatedAt.Format(time.RFC3339Nano),
		string(skills),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	t.UserID = s.userID

	return nil
}

// GetTask retrieves a task by ID. Returns (nil, nil) if absent.
func (s *SQLite) GetTask(ctx context.Context, id string) (*task.Task, error) {
	query := `
		SELECT id, user_id, content, date, created_at, skills
		FROM tasks
		WHERE id = ? AND user_id = ?
	`

	t, err := scanTask(s.db.QueryRowContext(ctx, query, id, s.userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}
	return t, nil
}

// DeleteTask removes a task. Deleting an absent task is not an error.
func (s *SQLite) DeleteTask(ctx context.Context, id string) error {
	query := `DELETE FROM tasks WHERE id = ? AND user_id = ?`

	if _, err := s.db.ExecContext(ctx, query, id, s.userID); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

// UpdateTaskSkills replaces a task's stored skill set.
func (s *SQLite) UpdateTaskSkills(ctx context.Context, id string, skills []string) (*task.Task, error) {
	encoded, err := json.Marshal(skillsOrEmpty(skills))
	if err != nil {
		return nil, fmt.Errorf("encoding skills: %w", err)
	}

	query := `UPDATE tasks SET skills = ? WHERE id = ? AND user_id = ?`

	result, err := s.db.ExecContext(ctx, query, string(encoded), id, s.userID)
	if err != nil {
		return nil, fmt.Errorf("updating skills: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, task.ErrTaskNotFound
	}

	return s.GetTask(ctx, id)
}

// ListTasks returns all of the user's tasks in chronological order.
func (s *SQLite) ListTasks(ctx context.Context) ([]*task.Task, error) {
	query := `
		SELECT id, user_id, content, date, created_at, skills
		FROM tasks
		WHERE user_id = ?
		ORDER BY day, created_at
	`
	return s.queryTasks(ctx, query, s.userID)
}

// TasksOnDay returns the tasks recorded on the given calendar day.
func (s *SQLite) TasksOnDay(ctx context.Context, day time.Time) ([]*task.Task, error) {
	query := `
		SELECT id, user_id, content, date, created_at, skills
		FROM tasks
		WHERE user_id = ? AND day = ?
		ORDER BY created_at
	`
	return s.queryTasks(ctx, query, s.userID, calendar.DayKey(day))
}

// TasksInRange returns the tasks recorded in [start, end] inclusive by
// calendar day. Day keys are zero-padded, so string comparison orders them.
func (s *SQLite) TasksInRange(ctx context.Context, start, end time.Time) ([]*task.Task, error) {
	query := `
		SELECT id, user_id, content, date, created_at, skills
		FROM tasks
		WHERE user_id = ? AND day >= ? AND day <= ?
		ORDER BY day, created_at
	`
	return s.queryTasks(ctx, query, s.userID, calendar.DayKey(start), calendar.DayKey(end))
}

// ListWeeklyLogs returns all of the user's compiled logs in chronological
// order.
func (s *SQLite) ListWeeklyLogs(ctx context.Context) ([]*task.WeeklyLog, error) {
	query := `
		SELECT id, user_id, week_number, year, start_date, end_date, tasks, compiled_at
		FROM weekly_logs
		WHERE user_id = ?
		ORDER BY start_date
	`

	rows, err := s.db.QueryContext(ctx, query, s.userID)
	if err != nil {
		return nil, fmt.Errorf("querying weekly logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var logs []*task.WeeklyLog
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating weekly logs: %w", err)
	}

	return logs, nil
}

// FindWeeklyLog looks up the log for a logical week.
// Returns (nil, nil) if no log has been compiled for it.
func (s *SQLite) FindWeeklyLog(ctx context.Context, key task.WeekKey) (*task.WeeklyLog, error) {
	query := `
		SELECT id, user_id, week_number, year, start_date, end_date, tasks, compiled_at
		FROM weekly_logs
		WHERE user_id = ? AND week_number = ? AND year = ?
	`

	log, err := scanLog(s.db.QueryRowContext(ctx, query, s.userID, key.WeekNumber, key.Year))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying weekly log: %w", err)
	}
	return log, nil
}

// UpsertWeeklyLog inserts or replaces the log for its week key. The task
// snapshot is stored denormalized as a JSON blob. An existing row keeps its
// original ID; the logical week is the identity, not the handle.
func (s *SQLite) UpsertWeeklyLog(ctx context.Context, log *task.WeeklyLog) (*task.WeeklyLog, error) {
	snapshot, err := json.Marshal(log.Tasks)
	if err != nil {
		return nil, fmt.Errorf("encoding task snapshot: %w", err)
	}

	query := `
		INSERT INTO weekly_logs (id, user_id, week_number, year, start_date, end_date, tasks, compiled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, week_number, year) DO UPDATE SET
			start_date  = excluded.start_date,
			end_date    = excluded.end_date,
			tasks       = excluded.tasks,
			compiled_at = excluded.compiled_at
	`

	_, err = s.db.ExecContext(ctx, query,
		log.ID,
		s.userID,
		log.WeekNumber,
		log.Year,
		log.StartDate.Format("2006-01-02"),
		log.EndDate.Format("2006-01-02"),
		string(snapshot),
		log.CompiledAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("upserting weekly log: %w", err)
	}

	return s.FindWeeklyLog(ctx, log.Key())
}

// DeleteWeeklyLog removes a compiled log by ID. Idempotent.
func (s *SQLite) DeleteWeeklyLog(ctx context.Context, id string) error {
	query := `DELETE FROM weekly_logs WHERE id = ? AND user_id = ?`

	if _, err := s.db.ExecContext(ctx, query, id, s.userID); err != nil {
		return fmt.Errorf("deleting weekly log: %w", err)
	}
	return nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (s *SQLite) queryTasks(ctx context.Context, query string, args ...any) ([]*task.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	return tasks, nil
}

func scanTask(row scanner) (*task.Task, error) {
	var (
		t         task.Task
		date      string
		createdAt string
		skills    string
	)

	err := row.Scan(&t.ID, &t.UserID, &t.Content, &date, &createdAt, &skills)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	if t.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
		return nil, fmt.Errorf("parsing task date: %w", err)
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	if err := json.Unmarshal([]byte(skills), &t.Skills); err != nil {
		return nil, fmt.Errorf("decoding skills: %w", err)
	}
	if len(t.Skills) == 0 {
		t.Skills = nil
	}

	return &t, nil
}

func scanLog(row scanner) (*task.WeeklyLog, error) {
	var (
		l          task.WeeklyLog
		startDate  string
		endDate    string
		snapshot   string
		compiledAt string
	)

	err := row.Scan(&l.ID, &l.UserID, &l.WeekNumber, &l.Year, &startDate, &endDate, &snapshot, &compiledAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning weekly log: %w", err)
	}

	if l.StartDate, err = parseDay(startDate); err != nil {
		return nil, fmt.Errorf("parsing start date: %w", err)
	}
	if l.EndDate, err = parseDay(endDate); err != nil {
		return nil, fmt.Errorf("parsing end date: %w", err)
	}
	if l.CompiledAt, err = time.Parse(time.RFC3339Nano, compiledAt); err != nil {
		return nil, fmt.Errorf("parsing compiled at: %w", err)
	}
	if err := json.Unmarshal([]byte(snapshot), &l.Tasks); err != nil {
		return nil, fmt.Errorf("decoding task snapshot: %w", err)
	}

	return &l, nil
}

// parseDay parses a date-only value in local time so it compares cleanly
// with dates derived from time.Now().
func parseDay(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}

	// SQLite can return DATE columns as "2006-01-02T00:00:00Z"
	if len(s) == 20 && s[10] == 'T' && s[19] == 'Z' {
		if t, err := time.ParseInLocation("2006-01-02", s[:10], time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}

// skillsOrEmpty keeps the stored encoding as [] rather than null.
func skillsOrEmpty(skills []string) []string {
	if skills == nil {
		return []string{}
	}
	return skills
}
