package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/trly/servicedeck/internal/binder"
	"github.com/trly/servicedeck/internal/unit"
	"github.com/trly/servicedeck/internal/validate"
)

// ActionOptions holds options shared by the control commands.
type ActionOptions struct {
	Output string
}

// ActionDeps holds control command dependencies.
type ActionDeps struct {
	CommonDeps
	Binder *binder.Binder
}

// ActionCommand runs one control action (start, stop, restart, enable or
// disable) against a unit. The action must be offered for the unit's current
// state, exactly as in the interactive browser.
type ActionCommand struct {
	action unit.Action
}

// NewActionCommand creates a command for action.
func NewActionCommand(action unit.Action) *ActionCommand {
	return &ActionCommand{action: action}
}

// GetCobraCommand returns the cobra command for the action.
func (c *ActionCommand) GetCobraCommand() *cobra.Command {
	var opts ActionOptions

	actionCmd := &cobra.Command{
		Use:   c.action.String() + " UNIT",
		Short: fmt.Sprintf("%s a unit", c.action.Label()),
		Long: fmt.Sprintf(`%s a unit.

Names without a type suffix get the configured unit type appended.
Active units can be stopped, restarted or disabled; inactive units can be
started or enabled. Units in any other state accept no actions.`, c.action.Label()),
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

	actionCmd.Flags().StringVarP(&opts.Output, "output", "o", FormatText, "Output format (text, json, yaml)")

	return actionCmd
}

// Run executes the action with injected dependencies.
func (c *ActionCommand) Run(ctx context.Context, app *App, opts ActionOptions, deps ActionDeps, name string) error {
	name, err := resolveUnitName(app, name)
	if err != nil {
		return err
	}

	rec, err := app.Source.Show(ctx, name)
	if err != nil {
		return fmt.Errorf("error looking up %s: %w", name, err)
	}

	deps.Binder.Select(ctx, rec)
	n := deps.Binder.Invoke(ctx, c.action)

	result := ActionResult{
		Unit:      name,
		Action:    c.action.String(),
		Succeeded: !n.IsError(),
		Message:   n.Message,
	}
	if n.Record != nil {
		result.State = n.Record.State.String()
	}

	if isStructured(opts.Output) {
		if err := PrintOutput(deps.Stdout, opts.Output, result); err != nil {
			return err
		}
	} else if !n.IsError() {
		printNotice(deps.Stdout, n)
	}

	if n.IsError() {
		return noticeError(n)
	}
	return nil
}

// buildDeps creates production dependencies for the action command.
func (c *ActionCommand) buildDeps(app *App) ActionDeps {
	return ActionDeps{
		CommonDeps: NewRootDeps(app),
		Binder:     app.NewBinder(),
	}
}

// resolveUnitName applies the configured unit type to bare names and checks the result.
func resolveUnitName(app *App, name string) (string, error) {
	name = validate.NormalizeUnitName(name, app.Config.UnitType)
	if err := validate.UnitName(name); err != nil {
		return "", err
	}
	return name, nil
}

func printNotice(w io.Writer, n binder.Notice) {
	style := color.New(color.FgGreen)
	if n.Level == binder.LevelWarn {
		style = color.New(color.FgYellow)
	}
	_, _ = style.Fprintln(w, n.Message)
}

// commandError carries a notice message while keeping its cause for errors.Is.
type commandError struct {
	msg string
	err error
}

func (e *commandError) Error() string { return e.msg }

func (e *commandError) Unwrap() error { return e.err }

func noticeError(n binder.Notice) error {
	if n.Err == nil {
		return errors.New(n.Message)
	}
	return &commandError{msg: n.Message, err: n.Err}
}
