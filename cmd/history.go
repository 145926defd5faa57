package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/SerhiiCho/timeago/v3"
	"github.com/fatih/color"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/trly/servicedeck/internal/history"
)

// ErrHistoryDisabled is returned when the action journal is not available.
var ErrHistoryDisabled = errors.New("action history is disabled or unavailable")

// HistoryOptions holds history command options.
type HistoryOptions struct {
	Unit   string
	Limit  int
	Output string
}

// HistoryDeps holds history dependencies.
type HistoryDeps struct {
	CommonDeps
}

// HistoryCommand represents the history command.
type HistoryCommand struct{}

// NewHistoryCommand creates a new HistoryCommand.
func NewHistoryCommand() *HistoryCommand {
	return &HistoryCommand{}
}

// GetCobraCommand returns the cobra command for listing journaled actions.
func (c *HistoryCommand) GetCobraCommand() *cobra.Command {
	var opts HistoryOptions

	historyCmd := &cobra.Command{
		Use:   "history [UNIT]",
		Short: "List recent control actions and unit file edits",
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if opts.Limit < 0 {
				return fmt.Errorf("limit must not be negative")
			}
			return validateOutput(opts.Output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if len(args) == 1 {
				name, err := resolveUnitName(app, args[0])
				if err != nil {
					return err
				}
				opts.Unit = name
			}
			deps := c.buildDeps(app)
			return c.Run(cmd.Context(), app, opts, deps)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	historyCmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of entries to show (0 for all)")
	historyCmd.Flags().StringVarP(&opts.Output, "output", "o", FormatText, "Output format (text, json, yaml)")

	return historyCmd
}

// Run executes the history command with injected dependencies.
func (c *HistoryCommand) Run(ctx context.Context, app *App, opts HistoryOptions, deps HistoryDeps) error {
	if app.History == nil {
		return ErrHistoryDisabled
	}

	entries, err := app.History.List(ctx, history.Query{Unit: opts.Unit, Limit: opts.Limit})
	if err != nil {
		return fmt.Errorf("error reading history: %w", err)
	}

	if isStructured(opts.Output) {
		if entries == nil {
			entries = []history.Entry{}
		}
		return PrintOutput(deps.Stdout, opts.Output, entries)
	}

	headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()
	columnFmt := color.New(color.FgYellow).SprintfFunc()
	tbl := table.New("ID", "When", "Unit", "Action", "Result", "State").WithWriter(deps.Stdout)
	tbl.WithHeaderFormatter(headerFmt).WithFirstColumnFormatter(columnFmt)

	for _, e := range entries {
		result := "ok"
		if !e.Succeeded {
			result = "failed: " + e.Error
		}
		when, err := timeago.Parse(e.CreatedAt)
		if err != nil {
			deps.Logger.Debug("Error parsing journal time", "id", e.ID, "error", err)
			when = "UNKNOWN"
		}
		tbl.AddRow(e.ID, when, e.Unit, e.Action, result, e.StateAfter)
	}
	tbl.Print()
	return nil
}

// buildDeps creates production dependencies for the history command.
func (c *HistoryCommand) buildDeps(app *App) HistoryDeps {
	return HistoryDeps{
		CommonDeps: NewRootDeps(app),
	}
}
