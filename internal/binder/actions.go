package binder

import (
	"context"
	"fmt"

	"github.com/trly/servicedeck/internal/history"
	"github.com/trly/servicedeck/internal/systemd"
	"github.com/trly/servicedeck/internal/unit"
)

// Invoke runs action against the selected unit. Actions not offered for the
// unit's state are refused without touching the source. On success the unit
// is re-fetched and the notice carries the new record; on failure the
// selection is left unchanged.
func (b *Binder) Invoke(ctx context.Context, action unit.Action) Notice {
	if !b.selected {
		return errorNotice(ErrNoSelection, "Cannot %s", action)
	}

	name := b.current.Record.Name
	if !b.current.Allows(action) {
		err := fmt.Errorf("%s is not available while %s is %s", action, name, b.current.Record.State)
		return Notice{Level: LevelError, Message: err.Error(), Err: err}
	}

	b.logger.Info("Running unit action", "action", action, "name", name)
	if err := b.dispatch(ctx, action, name); err != nil {
		b.logger.Error("Unit action failed", "action", action, "name", name, "error", err)
		b.journalEntry(ctx, name, action.String(), err, "")
		return errorNotice(err, "Failed to %s %s", action, name)
	}

	updated, err := b.source.Show(ctx, name)
	if err != nil {
		b.logger.Warn("Could not refresh unit after action", "name", name, "error", err)
		b.journalEntry(ctx, name, action.String(), nil, "")
		return Notice{
			Level:   LevelWarn,
			Message: fmt.Sprintf("%s %s, but its state could not be refreshed: %v", pastTense[action], name, err),
			Err:     err,
		}
	}

	b.journalEntry(ctx, name, action.String(), nil, updated.State.String())
	b.current.Record = updated
	b.current.Controls = controlsFor(updated.State)

	n := infof("%s %s (%s)", pastTense[action], name, updated.State)
	n.Record = &updated
	return n
}

func (b *Binder) dispatch(ctx context.Context, action unit.Action, name string) error {
	switch action {
	case unit.Start:
		return b.source.Start(ctx, name)
	case unit.Stop:
		return b.source.Stop(ctx, name)
	case unit.Restart:
		return b.source.Restart(ctx, name)
	case unit.Enable:
		return b.source.Enable(ctx, name)
	case unit.Disable:
		return b.source.Disable(ctx, name)
	default:
		return fmt.Errorf("unknown action %d", action)
	}
}

// Save validates content and writes it over the selected unit's main file,
// then reloads the service manager and refreshes the detail view.
func (b *Binder) Save(ctx context.Context, content string) Notice {
	if !b.selected {
		return errorNotice(ErrNoSelection, "Cannot save")
	}
	detail := b.current.Detail
	name := b.current.Record.Name
	if !detail.Enabled {
		err := fmt.Errorf("%w: no unit file for %s", systemd.ErrMalformedOutput, name)
		return errorNotice(err, "Cannot save")
	}

	if content == detail.Editable {
		return infof("No changes to %s", detail.Title)
	}

	if err := systemd.ValidateUnitFile(content); err != nil {
		return errorNotice(err, "Not saving %s", detail.Title)
	}
	if b.writer == nil {
		err := fmt.Errorf("%w: unit file writing is not configured", systemd.ErrCommand)
		return errorNotice(err, "Failed to save %s", detail.Title)
	}

	if err := b.writer.Write(ctx, detail.Title, content); err != nil {
		b.logger.Error("Writing unit file failed", "path", detail.Title, "error", err)
		b.journalEntry(ctx, name, "edit", err, "")
		return errorNotice(err, "Failed to save %s", detail.Title)
	}
	if err := b.writer.Reload(ctx); err != nil {
		b.journalEntry(ctx, name, "edit", err, "")
		return errorNotice(err, "Saved %s but daemon-reload failed", detail.Title)
	}

	b.journalEntry(ctx, name, "edit", nil, "")
	b.current.Detail = b.fetchDetail(ctx, name)
	return infof("Saved %s", detail.Title)
}

func (b *Binder) journalEntry(ctx context.Context, name, action string, actionErr error, stateAfter string) {
	e := &history.Entry{
		Unit:       name,
		Action:     action,
		Scope:      b.opts.Scope.String(),
		Succeeded:  actionErr == nil,
		StateAfter: stateAfter,
	}
	if actionErr != nil {
		e.Error = actionErr.Error()
	}
	if _, err := b.journal.Record(ctx, e); err != nil {
		b.logger.Warn("Failed to journal action", "action", action, "name", name, "error", err)
	}
}
