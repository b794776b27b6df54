package ui

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/taskkeeper/logbook/internal/config"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			data, err := toml.Marshal(a.config)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			fmt.Printf("# %s\n%s", config.DefaultConfigPath(), data)
			return nil
		},
	}

	cmd.AddCommand(a.configInitCmd())

	return cmd
}

func (a *App) configInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the current configuration to the default path",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.config.Save(); err != nil {
				return err
			}
			printSuccess("Wrote %s", config.DefaultConfigPath())
			return nil
		},
	}
}
