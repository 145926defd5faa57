// Package cmd provides the command line interface for servicedeck
package cmd

import (
	"errors"
	"io"

	"github.com/benbjohnson/clock"
	"github.com/spf13/cobra"

	"github.com/trly/servicedeck/internal/binder"
	"github.com/trly/servicedeck/internal/config"
	"github.com/trly/servicedeck/internal/execx"
	"github.com/trly/servicedeck/internal/history"
	"github.com/trly/servicedeck/internal/log"
	"github.com/trly/servicedeck/internal/systemd"
	"github.com/trly/servicedeck/internal/validate"
)

// App holds the application dependencies for command line interface.
type App struct {
	Logger         log.Logger
	Config         *config.Settings
	ConfigProvider config.Provider
	Runner         execx.Runner
	Source         systemd.Source
	Writer         systemd.UnitWriter
	// History is nil when the action journal is disabled or could not be opened.
	History   history.Repository
	Validator SystemValidator

	closers []io.Closer
}

// NewApp creates a new App with all dependencies initialized.
func NewApp(logger log.Logger, configProv config.Provider) *App {
	cfg := configProv.GetConfig()
	runner := execx.NewRealRunner()

	app := &App{
		Logger:         logger,
		Config:         cfg,
		ConfigProvider: configProv,
		Runner:         runner,
		Source:         systemd.NewSource(cfg, runner, systemd.NewConnectionFactory(logger), logger),
		Writer:         systemd.NewWriter(cfg, runner, logger),
		Validator:      validate.NewValidator(logger, runner, cfg.SystemctlPath),
	}
	app.closers = append(app.closers, app.Source)

	if repo, closer := openHistory(cfg, logger, clock.New()); repo != nil {
		app.History = repo
		app.closers = append(app.closers, closer)
	}

	return app
}

// openHistory opens the action journal. A journal that cannot be opened is
// logged and skipped; it never stops a unit from being controlled.
func openHistory(cfg *config.Settings, logger log.Logger, clk clock.Clock) (history.Repository, io.Closer) {
	if !cfg.HistoryEnabled {
		return nil, nil
	}

	db, err := history.Open(cfg.HistoryDBPath, logger)
	if err != nil {
		logger.Warn("Action history unavailable", "path", cfg.HistoryDBPath, "error", err)
		return nil, nil
	}
	return history.NewRepository(db, clk), db
}

// Journal returns the recorder for control actions.
func (a *App) Journal() history.Recorder {
	if a.History == nil {
		return history.NopRecorder{}
	}
	return a.History
}

// NewBinder builds a selection binder over the app's source and writer.
func (a *App) NewBinder() *binder.Binder {
	return binder.New(a.Source, a.Writer, a.Journal(), a.Logger, binder.Options{
		Scope: systemd.ScopeFor(a.Config.UserMode),
	})
}

// Close releases the source, the journal database and the log file.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// getApp retrieves the App from the command context.
func getApp(cmd *cobra.Command) *App {
	return cmd.Context().Value(appContextKey).(*App)
}

func lookupApp(cmd *cobra.Command) (*App, bool) {
	if cmd.Context() == nil {
		return nil, false
	}
	app, ok := cmd.Context().Value(appContextKey).(*App)
	return app, ok && app != nil
}
