package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS tasks (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			content    TEXT NOT NULL,
			day        TEXT NOT NULL,
			date       DATETIME NOT NULL,
			created_at DATETIME NOT NULL,
			skills     TEXT NOT NULL DEFAULT '[]'
		);

		CREATE TABLE IF NOT EXISTS weekly_logs (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			week_number INTEGER NOT NULL,
			year        INTEGER NOT NULL,
			start_date  DATE NOT NULL,
			end_date    DATE NOT NULL,
			tasks       TEXT NOT NULL,
			compiled_at DATETIME NOT NULL,
			UNIQUE(user_id, week_number, year)
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_user_day ON tasks(user_id, day);
		CREATE INDEX IF NOT EXISTS idx_logs_user_start ON weekly_logs(user_id, start_date);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
