// Package ui implements the logbook command-line interface.
package ui

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/taskkeeper/logbook/internal/calendar"
	"github.com/taskkeeper/logbook/internal/compile"
	"github.com/taskkeeper/logbook/internal/config"
	"github.com/taskkeeper/logbook/internal/logging"
	"github.com/taskkeeper/logbook/internal/task"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	store   task.Store
	tasks   *task.Service
	config  *config.Config
	calCfg  calendar.Config
	logger  zerolog.Logger
	root    *cobra.Command
	debug   bool
	noColor bool
}

// NewApp creates a new CLI application with the given store and config.
func NewApp(store task.Store, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	calCfg, err := cfg.CalendarConfig()
	if err != nil {
		return nil, fmt.Errorf("reading work week config: %w", err)
	}

	a := &App{
		store:  store,
		tasks:  task.NewService(store),
		config: cfg,
		calCfg: calCfg,
		logger: logger,
	}

	a.root = &cobra.Command{
		Use:   "logbook",
		Short: "A CLI tool for keeping an internship logbook",
		Long: `Logbook records your daily work items, buckets them into your
work week, compiles weekly log snapshots, and exports a paginated
PDF logbook with a cover page and table of contents.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if a.noColor {
				DisableColor()
			}
			if a.debug {
				a.logger = logging.New(a.config.Logging, a.config.LogFile(), true)
			}
			a.maybeAutoCompile(cmd)
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging to stderr")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.skillCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.compileCmd())
	a.root.AddCommand(a.logsCmd())
	a.root.AddCommand(a.exportCmd())

	return a, nil
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("logbook %s (commit: %s)\n", Version, Commit)
		},
	}
}

// compiler builds a compiler with the current logger. Constructed per use so
// the --debug logger swap is picked up.
func (a *App) compiler() *compile.Compiler {
	return compile.New(a.store, a.calCfg, a.config.Profile.UserID, compile.RealClock{}, a.logger)
}

// maybeAutoCompile runs the best-effort end-of-week compile check once per
// invocation. Failures are reported but never abort the requested command.
func (a *App) maybeAutoCompile(cmd *cobra.Command) {
	switch cmd.Name() {
	case "version", "config", "init", "help", "completion":
		return
	}
	if a.store == nil {
		return
	}

	log, compiled, err := a.compiler().AutoCompile(context.Background())
	if err != nil {
		a.logger.Warn().Err(err).Msg("automatic weekly log compilation failed")
		fmt.Fprintf(os.Stderr, "warning: automatic weekly log compilation failed: %v\n", err)
		return
	}
	if compiled {
		printSuccess("Compiled weekly log for week %d, %d (%d tasks): last working day of the week.",
			log.WeekNumber, log.Year, len(log.Tasks))
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the application's resources.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
