// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/taskkeeper/logbook/internal/calendar"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Config holds the application configuration.
type Config struct {
	WorkWeek WorkWeekConfig `toml:"workweek"`
	Storage  StorageConfig  `toml:"storage"`
	Profile  ProfileConfig  `toml:"profile"`
	Cover    CoverConfig    `toml:"cover"`
	Logging  LoggingConfig  `toml:"logging"`
}

// WorkWeekConfig defines the work-week shape used for bucketing and
// numbering. Changing either field retroactively changes week numbers for
// all past and future lookups; compiled logs are not re-pinned.
type WorkWeekConfig struct {
	EpochDate       string `toml:"epoch_date"`       // YYYY-MM-DD, optional; the week containing it is week 1
	IncludeSaturday bool   `toml:"include_saturday"` // Saturday counts as a working day
}

// StorageConfig selects and locates the persistence backend.
type StorageConfig struct {
	Backend string `toml:"backend"` // "sqlite" or "file"
	DBPath  string `toml:"db_path"`
	DataDir string `toml:"data_dir"`
}

// ProfileConfig scopes stored rows to a user.
type ProfileConfig struct {
	UserID string `toml:"user_id"`
}

// CoverConfig holds the logbook cover page fields.
type CoverConfig struct {
	StudentName     string `toml:"student_name"`
	StudentID       string `toml:"student_id"`
	Institution     string `toml:"institution"`
	Department      string `toml:"department"`
	Company         string `toml:"company"`
	Supervisor      string `toml:"supervisor"`
	PeriodStart     string `toml:"period_start"` // YYYY-MM-DD
	PeriodEnd       string `toml:"period_end"`   // YYYY-MM-DD
	InstitutionLogo string `toml:"institution_logo"`
	CompanyLogo     string `toml:"company_logo"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
	File  string `toml:"file"`  // empty means <data_dir>/logbook.log
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		WorkWeek: WorkWeekConfig{
			EpochDate:       "",
			IncludeSaturday: false,
		},
		Storage: StorageConfig{
			Backend: BackendSQLite,
			DBPath:  filepath.Join(defaultDataDir(), "logbook.db"),
			DataDir: defaultDataDir(),
		},
		Profile: ProfileConfig{
			UserID: defaultUserID(),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// defaultDataDir returns the default data directory.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "logbook-data"
	}
	return filepath.Join(home, ".local", "share", "logbook")
}

// defaultUserID scopes storage to the OS user when one is known.
func defaultUserID() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "logbook", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Storage.DataDir = expandPath(cfg.Storage.DataDir)
	cfg.Logging.File = expandPath(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOGBOOK_EPOCH_DATE"); v != "" {
		cfg.WorkWeek.EpochDate = v
	}
	if v := os.Getenv("LOGBOOK_INCLUDE_SATURDAY"); v != "" {
		cfg.WorkWeek.IncludeSaturday = v == "true" || v == "1"
	}
	if v := os.Getenv("LOGBOOK_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("LOGBOOK_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("LOGBOOK_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("LOGBOOK_USER_ID"); v != "" {
		cfg.Profile.UserID = v
	}
	if v := os.Getenv("LOGBOOK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Storage.Backend != BackendSQLite && c.Storage.Backend != BackendFile {
		return fmt.Errorf("backend must be %q or %q, got %q", BackendSQLite, BackendFile, c.Storage.Backend)
	}
	if c.Storage.Backend == BackendSQLite && c.Storage.DBPath == "" {
		return errors.New("db_path must be set for the sqlite backend")
	}
	if c.Storage.DataDir == "" {
		return errors.New("data_dir must be set")
	}
	if c.Profile.UserID == "" {
		return errors.New("user_id must be set")
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if _, err := parseOptionalDate(c.WorkWeek.EpochDate); err != nil {
		return fmt.Errorf("epoch_date: %w", err)
	}
	start, err := parseOptionalDate(c.Cover.PeriodStart)
	if err != nil {
		return fmt.Errorf("period_start: %w", err)
	}
	end, err := parseOptionalDate(c.Cover.PeriodEnd)
	if err != nil {
		return fmt.Errorf("period_end: %w", err)
	}
	if start != nil && end != nil && end.Before(*start) {
		return errors.New("period_end must be on or after period_start")
	}

	return nil
}

// CalendarConfig converts the work-week settings into the value the calendar
// engine takes as an explicit parameter.
func (c *Config) CalendarConfig() (calendar.Config, error) {
	epoch, err := parseOptionalDate(c.WorkWeek.EpochDate)
	if err != nil {
		return calendar.Config{}, fmt.Errorf("epoch_date: %w", err)
	}
	return calendar.Config{
		EpochDate:       epoch,
		IncludeSaturday: c.WorkWeek.IncludeSaturday,
	}, nil
}

// CoverPeriod returns the configured internship period. Zero times mean the
// corresponding bound is unset.
func (c *Config) CoverPeriod() (start, end time.Time) {
	if t, err := parseOptionalDate(c.Cover.PeriodStart); err == nil && t != nil {
		start = *t
	}
	if t, err := parseOptionalDate(c.Cover.PeriodEnd); err == nil && t != nil {
		end = *t
	}
	return start, end
}

// LogFile returns the log file path, defaulting into the data directory.
func (c *Config) LogFile() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return filepath.Join(c.Storage.DataDir, "logbook.log")
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := calendar.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
