// Package cmd provides config show command functionality for servicedeck CLI
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ConfigShowCommand represents the config show command.
type ConfigShowCommand struct{}

// NewConfigShowCommand creates a new ConfigShowCommand.
func NewConfigShowCommand() *ConfigShowCommand {
	return &ConfigShowCommand{}
}

// GetCobraCommand returns the cobra command for config show operations.
func (c *ConfigShowCommand) GetCobraCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  "Display the current configuration including defaults and overrides",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := getApp(cmd)

			output, err := yaml.Marshal(app.Config)
			if err != nil {
				return fmt.Errorf("error marshalling config: %w", err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(output))
			return err
		},
		SilenceUsage: true,
	}
}
