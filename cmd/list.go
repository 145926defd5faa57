package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/trly/servicedeck/internal/unit"
	"github.com/trly/servicedeck/internal/unitlist"
)

// ListOptions holds list command options.
type ListOptions struct {
	Grep       string
	Sort       string
	Descending bool
	Output     string
}

// ListDeps holds list dependencies.
type ListDeps struct {
	CommonDeps
}

// ListCommand represents the list command.
type ListCommand struct{}

// NewListCommand creates a new ListCommand.
func NewListCommand() *ListCommand {
	return &ListCommand{}
}

// GetCobraCommand returns the cobra command for listing units.
func (c *ListCommand) GetCobraCommand() *cobra.Command {
	var opts ListOptions

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List units with their load and activation state",
		Long: `List units of the configured type.

The --grep term matches unit names and descriptions case-insensitively.
Rows are sorted by unit type and name unless --sort names another column.`,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			app := getApp(cmd)
			if err := app.Validator.SystemRequirements(); err != nil {
				return err
			}
			if opts.Sort == "" {
				opts.Sort = app.Config.DefaultSort
			}
			if _, err := unitlist.ParseColumn(opts.Sort); err != nil {
				return err
			}
			return validateOutput(opts.Output)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := getApp(cmd)
			deps := c.buildDeps(app)
			return c.Run(cmd.Context(), app, opts, deps)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	listCmd.Flags().StringVarP(&opts.Grep, "grep", "g", "", "Only show units whose name or description contains this term")
	listCmd.Flags().StringVarP(&opts.Sort, "sort", "s", "", "Sort column (name, load, state, sub, description)")
	listCmd.Flags().BoolVar(&opts.Descending, "desc", false, "Reverse the sort order")
	listCmd.Flags().StringVarP(&opts.Output, "output", "o", FormatText, "Output format (text, json, yaml)")
	_ = listCmd.RegisterFlagCompletionFunc("sort", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		keys := make([]string, 0, len(unitlist.Columns))
		for _, col := range unitlist.Columns {
			keys = append(keys, col.String())
		}
		return keys, cobra.ShellCompDirectiveNoFileComp
	})
	_ = listCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return OutputFormats, cobra.ShellCompDirectiveNoFileComp
	})

	return listCmd
}

// Run executes the list command with injected dependencies.
func (c *ListCommand) Run(ctx context.Context, app *App, opts ListOptions, deps ListDeps) error {
	records, err := app.Source.ListUnits(ctx)
	if err != nil {
		return fmt.Errorf("error listing units: %w", err)
	}

	column, err := unitlist.ParseColumn(opts.Sort)
	if err != nil {
		deps.Logger.Debug("Falling back to name sort", "error", err)
	}

	collection := unitlist.NewCollection()
	view := unitlist.NewView(collection, unitlist.NewFilter(), unitlist.NewSorter(column, opts.Descending))
	view.SetTerm(opts.Grep)
	collection.ReplaceAll(records)
	rows := view.Rows()

	deps.Logger.Debug("Listed units", "total", collection.Len(), "shown", len(rows), "term", opts.Grep)

	if isStructured(opts.Output) {
		if rows == nil {
			rows = []unit.Record{}
		}
		return PrintOutput(deps.Stdout, opts.Output, rows)
	}

	headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()
	columnFmt := color.New(color.FgYellow).SprintfFunc()

	headers := make([]interface{}, 0, len(unitlist.Columns))
	for _, col := range unitlist.Columns {
		headers = append(headers, col.Title())
	}
	tbl := table.New(headers...).WithWriter(deps.Stdout)
	tbl.WithHeaderFormatter(headerFmt).WithFirstColumnFormatter(columnFmt)

	for _, r := range rows {
		tbl.AddRow(r.Name, r.Load, r.State, r.SubState, r.Description)
	}
	tbl.Print()

	_, err = fmt.Fprintf(deps.Stdout, "\n%d of %d units listed.\n", len(rows), collection.Len())
	return err
}

// buildDeps creates production dependencies for the list command.
func (c *ListCommand) buildDeps(app *App) ListDeps {
	return ListDeps{
		CommonDeps: NewRootDeps(app),
	}
}

func validateOutput(format string) error {
	switch format {
	case "", "yml", FormatText, FormatJSON, FormatYAML:
		return nil
	}
	return fmt.Errorf("invalid output format: %s, allowed formats are: %v", format, OutputFormats)
}
