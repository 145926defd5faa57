// Package cmd provides the command line interface for servicedeck
/*
Copyright © 2025 Travis Lyons travis.lyons@gmail.com

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/trly/servicedeck/internal/config"
	"github.com/trly/servicedeck/internal/log"
	"github.com/trly/servicedeck/internal/unit"
)

type contextKey string

const appContextKey contextKey = "app"

// RootCommand represents the root command for servicedeck CLI.
type RootCommand struct{}

var (
	userMode       bool
	verbose        bool
	configFilePath string
	backend        string
	unitType       string
)

var euid = os.Geteuid

// GetCobraCommand returns the cobra root command for servicedeck CLI.
func (c *RootCommand) GetCobraCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "servicedeck",
		Short: "servicedeck lists, filters and controls systemd units.",
		Long: `servicedeck lists, filters and controls systemd units.
Run without a subcommand to open the interactive browser. The subcommands expose
the same listing and control operations for scripts.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadSettings()
			if err != nil {
				return err
			}

			interactive := cmd == cmd.Root()
			logger, closer, err := newLogger(cfg, interactive)
			if err != nil {
				return err
			}

			if verbose && !interactive {
				fmt.Fprintf(os.Stderr, "%s using config: %s\n\n", cmd.Root().Use, viper.GetViper().ConfigFileUsed())
			}

			app := NewApp(logger, configProvider(cfg))
			if closer != nil {
				app.closers = append(app.closers, closer)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, appContextKey, app))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if app, ok := lookupApp(cmd); ok {
				return app.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := getApp(cmd)
			if err := app.Validator.SystemRequirements(); err != nil {
				return err
			}
			return NewBrowseCommand().Run(cmd.Context(), app)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&userMode, "user", "u", false, "Talk to the user service manager")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFilePath, "config", "", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Backend used to reach systemd (systemctl, dbus)")
	rootCmd.PersistentFlags().StringVarP(&unitType, "type", "t", "", "Unit type to list (service, socket, timer, ...)")

	rootCmd.AddCommand(
		NewListCommand().GetCobraCommand(),
		NewActionCommand(unit.Start).GetCobraCommand(),
		NewActionCommand(unit.Stop).GetCobraCommand(),
		NewActionCommand(unit.Restart).GetCobraCommand(),
		NewActionCommand(unit.Enable).GetCobraCommand(),
		NewActionCommand(unit.Disable).GetCobraCommand(),
		NewShowCommand().GetCobraCommand(),
		NewCatCommand().GetCobraCommand(),
		NewEditCommand().GetCobraCommand(),
		NewHistoryCommand().GetCobraCommand(),
		(&ConfigCommand{}).GetCobraCommand(),
		NewUpdateCommand().GetCobraCommand(),
		NewVersionCommand().GetCobraCommand(),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return (&RootCommand{}).GetCobraCommand().ExecuteContext(ctx)
}

// loadSettings reads the configuration file and applies command line overrides.
func loadSettings() (*config.Settings, error) {
	provider := config.NewDefaultConfigProvider()
	if configFilePath != "" {
		provider.SetConfigFilePath(configFilePath)
	}

	cfg, err := provider.InitConfig()
	if err != nil {
		return nil, err
	}

	if verbose {
		cfg.Verbose = verbose
	}

	if userMode {
		cfg.UserMode = userMode
	}
	// The system journal path is only writable by root.
	if cfg.HistoryDBPath == config.DefaultHistoryDBPath && (cfg.UserMode || euid() != 0) {
		cfg.HistoryDBPath = config.DefaultUserHistoryPath
	}
	cfg.HistoryDBPath = os.ExpandEnv(cfg.HistoryDBPath)
	cfg.LogFile = os.ExpandEnv(cfg.LogFile)

	if backend != "" {
		cfg.Backend = backend
	}

	if unitType != "" {
		cfg.UnitType = unitType
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger picks the log destination. The browser owns the terminal, so it
// logs to the configured file or nowhere.
func newLogger(cfg *config.Settings, interactive bool) (log.Logger, io.Closer, error) {
	if !interactive {
		log.Init(cfg.Verbose)
		return log.GetLogger(), nil, nil
	}

	if cfg.LogFile == "" {
		return log.Nop(), nil, nil
	}

	logger, closer, err := log.NewFileLogger(cfg.LogFile, cfg.Verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return logger, closer, nil
}

func configProvider(cfg *config.Settings) config.Provider {
	p := config.NewDefaultConfigProvider()
	p.SetConfig(cfg)
	return p
}
