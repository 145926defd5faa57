// Package binder ties the selected unit to the actions and detail view
// offered for it, and carries out those actions against a unit source.
package binder

import (
	"context"
	"errors"
	"fmt"

	"github.com/trly/servicedeck/internal/history"
	"github.com/trly/servicedeck/internal/log"
	"github.com/trly/servicedeck/internal/systemd"
	"github.com/trly/servicedeck/internal/unit"
)

// ErrNoSelection is returned when an operation needs a selected unit.
var ErrNoSelection = errors.New("no unit selected")

// Control is one action button and whether it is offered.
type Control struct {
	Action  unit.Action
	Visible bool
}

// Detail is the unit file view for the selected unit.
type Detail struct {
	Enabled bool
	// Title is the path of the unit's main file, parsed from the cat header.
	Title string
	// Text is the full cat output including drop-ins.
	Text string
	// Editable is the content of the main file alone.
	Editable string
	Err      error
}

// Controls is everything offered for the selected record.
type Controls struct {
	Record   unit.Record
	Controls []Control
	Detail   Detail
}

// Allows reports whether action is offered.
func (c Controls) Allows(action unit.Action) bool {
	for _, ctl := range c.Controls {
		if ctl.Action == action {
			return ctl.Visible
		}
	}
	return false
}

// Visible returns the offered actions in display order.
func (c Controls) Visible() []unit.Action {
	var out []unit.Action
	for _, ctl := range c.Controls {
		if ctl.Visible {
			out = append(out, ctl.Action)
		}
	}
	return out
}

// Options configures a Binder.
type Options struct {
	Scope systemd.Scope
}

// Binder reacts to selection changes and runs control actions. Like the
// collection it is owned by the UI loop and is not safe for concurrent use.
type Binder struct {
	source  systemd.Source
	writer  systemd.UnitWriter
	journal history.Recorder
	logger  log.Logger
	opts    Options

	current  Controls
	selected bool
}

// New creates a Binder. journal may be nil to disable journaling.
func New(source systemd.Source, writer systemd.UnitWriter, journal history.Recorder, logger log.Logger, opts Options) *Binder {
	if journal == nil {
		journal = history.NopRecorder{}
	}
	return &Binder{
		source:  source,
		writer:  writer,
		journal: journal,
		logger:  logger,
		opts:    opts,
	}
}

// Current returns the controls for the selected record.
func (b *Binder) Current() (Controls, bool) {
	return b.current, b.selected
}

// Clear drops the selection.
func (b *Binder) Clear() {
	b.current = Controls{}
	b.selected = false
}

// Select makes rec the selected record, computes its controls and fetches
// its unit file. A missing or malformed unit file leaves the detail disabled.
func (b *Binder) Select(ctx context.Context, rec unit.Record) Controls {
	b.current = Controls{
		Record:   rec,
		Controls: controlsFor(rec.State),
		Detail:   b.fetchDetail(ctx, rec.Name),
	}
	b.selected = true
	return b.current
}

func controlsFor(state unit.State) []Control {
	available := unit.Available(state)
	controls := make([]Control, 0, len(unit.AllActions))
	for _, a := range unit.AllActions {
		controls = append(controls, Control{Action: a, Visible: available.Has(a)})
	}
	return controls
}

func (b *Binder) fetchDetail(ctx context.Context, name string) Detail {
	text, err := b.source.Cat(ctx, name)
	if err != nil {
		b.logger.Debug("Unit file unavailable", "name", name, "error", err)
		return Detail{Err: err}
	}

	path, ok := systemd.ParseCatHeader(text)
	if !ok {
		b.logger.Debug("Unit file header missing", "name", name)
		return Detail{Text: text, Err: fmt.Errorf("%w: no file header for %s", systemd.ErrMalformedOutput, name)}
	}

	editable := text
	if files := systemd.SplitCat(text); len(files) > 0 {
		editable = files[0].Content
	}
	return Detail{Enabled: true, Title: path, Text: text, Editable: editable}
}
