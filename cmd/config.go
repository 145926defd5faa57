package cmd

import (
	"github.com/spf13/cobra"
)

// ConfigCommand represents the config command for servicedeck CLI.
type ConfigCommand struct{}

// GetCobraCommand returns the cobra command for config operations.
func (c *ConfigCommand) GetCobraCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect servicedeck configuration",
	}

	configCmd.AddCommand(NewConfigShowCommand().GetCobraCommand())

	return configCmd
}
