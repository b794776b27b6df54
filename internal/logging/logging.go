// Package logging sets up the application logger.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/taskkeeper/logbook/internal/config"
)

// New builds the application logger. By default it writes JSON lines to a
// rotating file inside the data directory; with debug enabled it writes a
// human-readable stream to stderr at debug level instead.
func New(cfg config.LoggingConfig, logFile string, debug bool) zerolog.Logger {
	if debug {
		w := zerolog.ConsoleWriter{Out: os.Stderr}
		return zerolog.New(w).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}

	var out io.Writer = &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    5, // megabytes
		MaxBackups: 2,
	}
	return zerolog.New(out).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
