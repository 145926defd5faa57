package cmd

import (
	"context"

	"github.com/trly/servicedeck/internal/tui"
	"github.com/trly/servicedeck/internal/unitlist"
)

// BrowseCommand opens the interactive unit browser. It backs the root
// command rather than a subcommand of its own.
type BrowseCommand struct {
	run func(context.Context, tui.Options) error
}

// NewBrowseCommand creates a new BrowseCommand.
func NewBrowseCommand() *BrowseCommand {
	return &BrowseCommand{run: tui.Run}
}

// Run starts the browser and blocks until it exits.
func (c *BrowseCommand) Run(ctx context.Context, app *App) error {
	return c.run(ctx, c.options(app))
}

func (c *BrowseCommand) options(app *App) tui.Options {
	column, err := unitlist.ParseColumn(app.Config.DefaultSort)
	if err != nil {
		app.Logger.Warn("Ignoring default sort", "error", err)
	}

	title := "servicedeck: system " + app.Config.UnitType + " units"
	if app.Config.UserMode {
		title = "servicedeck: user " + app.Config.UnitType + " units"
	}

	return tui.Options{
		Source:     app.Source,
		Binder:     app.NewBinder(),
		Logger:     app.Logger,
		SortColumn: column,
		Title:      title,
	}
}
