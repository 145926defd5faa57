package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trly/servicedeck/internal/systemd"
)

// CatOptions holds cat command options.
type CatOptions struct {
	Section string
}

// CatDeps holds cat dependencies.
type CatDeps struct {
	CommonDeps
}

// CatCommand represents the cat command.
type CatCommand struct{}

// NewCatCommand creates a new CatCommand.
func NewCatCommand() *CatCommand {
	return &CatCommand{}
}

// GetCobraCommand returns the cobra command for printing unit files.
func (c *CatCommand) GetCobraCommand() *cobra.Command {
	var opts CatOptions

	catCmd := &cobra.Command{
		Use:   "cat UNIT",
		Short: "Print the unit file and its drop-ins",
		Long: `Print the unit file and its drop-ins, each preceded by a "# /path" header.

With --section only that section is printed, merged across the unit file
and its drop-ins.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return getApp(cmd).Validator.SystemRequirements()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			deps := c.buildDeps(app)
			return c.Run(cmd.Context(), app, opts, deps, args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	catCmd.Flags().StringVar(&opts.Section, "section", "", "Only print this section (for example Service)")

	return catCmd
}

// Run executes the cat command with injected dependencies.
func (c *CatCommand) Run(ctx context.Context, app *App, opts CatOptions, deps CatDeps, name string) error {
	name, err := resolveUnitName(app, name)
	if err != nil {
		return err
	}

	text, err := app.Source.Cat(ctx, name)
	if err != nil {
		return fmt.Errorf("error reading unit file for %s: %w", name, err)
	}

	if _, ok := systemd.ParseCatHeader(text); !ok {
		deps.Logger.Warn("Unit file output has no path header", "name", name)
	}

	if opts.Section != "" {
		section := strings.Trim(opts.Section, "[]")
		text, err = systemd.Section(text, section)
		if err != nil {
			return fmt.Errorf("error reading %s: %w", name, err)
		}
	}

	_, err = fmt.Fprint(deps.Stdout, text)
	return err
}

// buildDeps creates production dependencies for the cat command.
func (c *CatCommand) buildDeps(app *App) CatDeps {
	return CatDeps{
		CommonDeps: NewRootDeps(app),
	}
}
