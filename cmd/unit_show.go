package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/trly/servicedeck/internal/unit"
)

// ShowOptions holds show command options.
type ShowOptions struct {
	Output string
}

// ShowDeps holds show dependencies.
type ShowDeps struct {
	CommonDeps
}

// ShowCommand represents the show command.
type ShowCommand struct{}

// NewShowCommand creates a new ShowCommand.
func NewShowCommand() *ShowCommand {
	return &ShowCommand{}
}

// unitDetails is the structured form of show output.
type unitDetails struct {
	unit.Record `yaml:",inline"`
	Actions     []string `json:"actions" yaml:"actions"`
}

// GetCobraCommand returns the cobra command for showing unit status.
func (c *ShowCommand) GetCobraCommand() *cobra.Command {
	var opts ShowOptions

	showCmd := &cobra.Command{
		Use:   "show UNIT",
		Short: "Show the status of a unit and the actions it accepts",
		Args:  cobra.ExactArgs(1),
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

	showCmd.Flags().StringVarP(&opts.Output, "output", "o", FormatText, "Output format (text, json, yaml)")

	return showCmd
}

// Run executes the show command with injected dependencies.
func (c *ShowCommand) Run(ctx context.Context, app *App, opts ShowOptions, deps ShowDeps, name string) error {
	name, err := resolveUnitName(app, name)
	if err != nil {
		return err
	}

	rec, err := app.Source.Show(ctx, name)
	if err != nil {
		return fmt.Errorf("error showing %s: %w", name, err)
	}

	actions := []string{}
	for _, a := range rec.Actions().List() {
		actions = append(actions, a.String())
	}

	if isStructured(opts.Output) {
		return PrintOutput(deps.Stdout, opts.Output, unitDetails{Record: rec, Actions: actions})
	}

	label := color.New(color.Bold).SprintFunc()
	active := rec.State.String()
	if rec.SubState != "" {
		active = fmt.Sprintf("%s (%s)", active, rec.SubState)
	}
	available := strings.Join(actions, ", ")
	if available == "" {
		available = "none"
	}

	_, err = fmt.Fprintf(deps.Stdout, "%s %s\n%s %s\n%s %s\n%s %s\n%s %s\n",
		label("Unit:       "), rec.Name,
		label("Load:       "), rec.Load,
		label("Active:     "), active,
		label("Description:"), rec.Description,
		label("Actions:    "), available,
	)
	return err
}

// buildDeps creates production dependencies for the show command.
func (c *ShowCommand) buildDeps(app *App) ShowDeps {
	return ShowDeps{
		CommonDeps: NewRootDeps(app),
	}
}
