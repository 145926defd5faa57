package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/trly/servicedeck/internal/binder"
	"github.com/trly/servicedeck/internal/systemd"
)

// EditOptions holds edit command options.
type EditOptions struct {
	File   string
	DryRun bool
	Output string
}

// EditDeps holds edit dependencies.
type EditDeps struct {
	CommonDeps
	Binder *binder.Binder
}

// EditCommand represents the edit command.
type EditCommand struct{}

// NewEditCommand creates a new EditCommand.
func NewEditCommand() *EditCommand {
	return &EditCommand{}
}

// GetCobraCommand returns the cobra command for replacing a unit file.
func (c *EditCommand) GetCobraCommand() *cobra.Command {
	var opts EditOptions

	editCmd := &cobra.Command{
		Use:   "edit UNIT",
		Short: "Replace a unit file and reload the service manager",
		Long: `Replace the main unit file of UNIT with new content read from --file or stdin.

The content is checked for unit file syntax, written through the configured
elevation command and followed by a daemon-reload. Drop-ins are left alone.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			app := getApp(cmd)
			if err := app.Validator.SystemRequirements(); err != nil {
				return err
			}
			return validateOutput(opts.Output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			deps := c.buildDeps(app)
			return c.Run(cmd.Context(), app, opts, deps, args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	editCmd.Flags().StringVarP(&opts.File, "file", "f", "", "Read the new unit file from this path instead of stdin")
	editCmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Only check the new content")
	editCmd.Flags().StringVarP(&opts.Output, "output", "o", FormatText, "Output format (text, json, yaml)")

	return editCmd
}

// Run executes the edit command with injected dependencies.
func (c *EditCommand) Run(ctx context.Context, app *App, opts EditOptions, deps EditDeps, name string) error {
	name, err := resolveUnitName(app, name)
	if err != nil {
		return err
	}

	content, err := c.readContent(opts, deps)
	if err != nil {
		return err
	}

	if opts.DryRun {
		if err := systemd.ValidateUnitFile(content); err != nil {
			return err
		}
		return c.report(deps, opts, ActionResult{
			Unit:      name,
			Action:    "edit",
			Succeeded: true,
			Message:   "Unit file is valid",
		})
	}

	rec, err := app.Source.Show(ctx, name)
	if err != nil {
		return fmt.Errorf("error looking up %s: %w", name, err)
	}

	controls := deps.Binder.Select(ctx, rec)
	if !controls.Detail.Enabled {
		return fmt.Errorf("no editable unit file for %s: %w", name, controls.Detail.Err)
	}

	n := deps.Binder.Save(ctx, content)
	if err := c.report(deps, opts, ActionResult{
		Unit:      name,
		Action:    "edit",
		Succeeded: !n.IsError(),
		Message:   n.Message,
	}); err != nil {
		return err
	}
	if n.IsError() {
		return noticeError(n)
	}
	return nil
}

func (c *EditCommand) readContent(opts EditOptions, deps EditDeps) (string, error) {
	if opts.File != "" {
		data, err := deps.FileSystem.ReadFile(opts.File)
		if err != nil {
			return "", fmt.Errorf("error reading %s: %w", opts.File, err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(deps.Stdin)
	if err != nil {
		return "", fmt.Errorf("error reading stdin: %w", err)
	}
	return string(data), nil
}

func (c *EditCommand) report(deps EditDeps, opts EditOptions, result ActionResult) error {
	if isStructured(opts.Output) {
		return PrintOutput(deps.Stdout, opts.Output, result)
	}
	if result.Succeeded {
		_, err := fmt.Fprintln(deps.Stdout, result.Message)
		return err
	}
	return nil
}

// buildDeps creates production dependencies for the edit command.
func (c *EditCommand) buildDeps(app *App) EditDeps {
	return EditDeps{
		CommonDeps: NewRootDeps(app),
		Binder:     app.NewBinder(),
	}
}
