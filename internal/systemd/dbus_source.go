package systemd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/coreos/go-systemd/v22/dbus"
	godbus "github.com/godbus/dbus/v5"

	"github.com/trly/servicedeck/internal/log"
	"github.com/trly/servicedeck/internal/unit"
)

// liveStates approximates what `systemctl list-units` shows without --all.
var liveStates = []string{"active", "reloading", "activating", "deactivating", "failed", "maintenance"}

// DBusOptions configures a DBusSource.
type DBusOptions struct {
	Scope           Scope
	UnitType        string
	IncludeInactive bool
	// ReadFile reads unit files for Cat. Defaults to os.ReadFile.
	ReadFile func(string) ([]byte, error)
}

// DBusSource implements Source over the systemd D-Bus API.
// A connection is opened per operation so the source may be used from
// the background listing goroutine and the UI loop alike.
type DBusSource struct {
	factory ConnectionFactory
	logger  log.Logger
	opts    DBusOptions
}

// NewDBusSource creates a D-Bus backed source.
func NewDBusSource(factory ConnectionFactory, logger log.Logger, opts DBusOptions) *DBusSource {
	if opts.ReadFile == nil {
		opts.ReadFile = os.ReadFile
	}
	return &DBusSource{factory: factory, logger: logger, opts: opts}
}

// ListUnits implements Source.
func (s *DBusSource) ListUnits(ctx context.Context) ([]unit.Record, error) {
	conn, err := s.factory.NewConnection(ctx, s.opts.Scope)
	if err != nil {
		return nil, NewError("list-units", "", s.opts.Scope, fmt.Errorf("%w: %w", ErrCommand, err))
	}
	defer func() { _ = conn.Close() }()

	var patterns []string
	if s.opts.UnitType != "" {
		patterns = []string{"*." + s.opts.UnitType}
	}
	var states []string
	if !s.opts.IncludeInactive {
		states = liveStates
	}

	units, err := conn.ListUnitsByPatterns(ctx, states, patterns)
	if err != nil {
		return nil, NewError("list-units", "", s.opts.Scope, fmt.Errorf("%w: %w", ErrCommand, err))
	}

	records := make([]unit.Record, 0, len(units))
	for _, u := range units {
		records = append(records, recordFromStatus(u))
	}
	s.logger.Debug("Listed units over D-Bus", "count", len(records), "type", s.opts.UnitType, "scope", s.opts.Scope)
	return records, nil
}

// Start implements Source.
func (s *DBusSource) Start(ctx context.Context, name string) error {
	return s.job(ctx, "start", name, func(conn Connection) (chan string, error) {
		return conn.StartUnit(ctx, name, "replace")
	})
}

// Stop implements Source.
func (s *DBusSource) Stop(ctx context.Context, name string) error {
	return s.job(ctx, "stop", name, func(conn Connection) (chan string, error) {
		return conn.StopUnit(ctx, name, "replace")
	})
}

// Restart implements Source.
func (s *DBusSource) Restart(ctx context.Context, name string) error {
	return s.job(ctx, "restart", name, func(conn Connection) (chan string, error) {
		return conn.RestartUnit(ctx, name, "replace")
	})
}

// Enable implements Source.
func (s *DBusSource) Enable(ctx context.Context, name string) error {
	return s.unitFiles(ctx, "enable", name, func(conn Connection) error {
		return conn.EnableUnitFiles(ctx, []string{name})
	})
}

// Disable implements Source.
func (s *DBusSource) Disable(ctx context.Context, name string) error {
	return s.unitFiles(ctx, "disable", name, func(conn Connection) error {
		return conn.DisableUnitFiles(ctx, []string{name})
	})
}

// Show implements Source.
func (s *DBusSource) Show(ctx context.Context, name string) (unit.Record, error) {
	props, err := s.properties(ctx, "show", name)
	if err != nil {
		return unit.Record{}, err
	}
	return recordFromProperties(name, props), nil
}

// Cat implements Source. Output mirrors `systemctl cat`: the fragment then
// each drop-in, every file preceded by a "# /path" line.
func (s *DBusSource) Cat(ctx context.Context, name string) (string, error) {
	props, err := s.properties(ctx, "cat", name)
	if err != nil {
		return "", err
	}

	var paths []string
	if p := props["FragmentPath"]; p != "" {
		paths = append(paths, p)
	}
	if dropIns := props["DropInPaths"]; dropIns != "" {
		paths = append(paths, strings.Fields(dropIns)...)
	}
	if len(paths) == 0 {
		return "", NewError("cat", name, s.opts.Scope, fmt.Errorf("%w: no files found for %s", ErrUnitNotFound, name))
	}

	var b strings.Builder
	for i, path := range paths {
		data, err := s.opts.ReadFile(path)
		if err != nil {
			return "", NewError("cat", name, s.opts.Scope, fmt.Errorf("%w: %w", ErrCommand, err))
		}
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "# %s\n", path)
		b.Write(data)
		if len(data) > 0 && data[len(data)-1] != '\n' {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// Close implements Source.
func (s *DBusSource) Close() error {
	return nil
}

func (s *DBusSource) job(ctx context.Context, op, name string, submit func(Connection) (chan string, error)) error {
	s.logger.Debug("Attempting unit operation", "op", op, "name", name)

	conn, err := s.factory.NewConnection(ctx, s.opts.Scope)
	if err != nil {
		return NewError(op, name, s.opts.Scope, fmt.Errorf("%w: %w", ErrCommand, err))
	}
	defer func() { _ = conn.Close() }()

	ch, err := submit(conn)
	if err != nil {
		return NewError(op, name, s.opts.Scope, classifyBusError(err))
	}

	select {
	case result := <-ch:
		if result != "done" {
			return NewError(op, name, s.opts.Scope, fmt.Errorf("%w: job finished with result %q", ErrCommand, result))
		}
	case <-ctx.Done():
		return NewError(op, name, s.opts.Scope, ctx.Err())
	}

	s.logger.Debug("Unit operation succeeded", "op", op, "name", name)
	return nil
}

func (s *DBusSource) unitFiles(ctx context.Context, op, name string, apply func(Connection) error) error {
	s.logger.Debug("Attempting unit operation", "op", op, "name", name)

	conn, err := s.factory.NewConnection(ctx, s.opts.Scope)
	if err != nil {
		return NewError(op, name, s.opts.Scope, fmt.Errorf("%w: %w", ErrCommand, err))
	}
	defer func() { _ = conn.Close() }()

	if err := apply(conn); err != nil {
		return NewError(op, name, s.opts.Scope, classifyBusError(err))
	}
	if err := conn.Reload(ctx); err != nil {
		return NewError(op, name, s.opts.Scope, fmt.Errorf("%w: %w", ErrCommand, err))
	}

	s.logger.Debug("Unit operation succeeded", "op", op, "name", name)
	return nil
}

func (s *DBusSource) properties(ctx context.Context, op, name string) (map[string]string, error) {
	conn, err := s.factory.NewConnection(ctx, s.opts.Scope)
	if err != nil {
		return nil, NewError(op, name, s.opts.Scope, fmt.Errorf("%w: %w", ErrCommand, err))
	}
	defer func() { _ = conn.Close() }()

	raw, err := conn.GetUnitProperties(ctx, name)
	if err != nil {
		return nil, NewError(op, name, s.opts.Scope, classifyBusError(err))
	}

	props := make(map[string]string, len(raw))
	for k, v := range raw {
		props[k] = propertyString(v)
	}
	if props["LoadState"] == "not-found" {
		return nil, NewError(op, name, s.opts.Scope, ErrUnitNotFound)
	}
	return props, nil
}

func recordFromStatus(u dbus.UnitStatus) unit.Record {
	return unit.Record{
		Name:        u.Name,
		Load:        unit.ParseLoadState(u.LoadState),
		State:       unit.ParseState(u.ActiveState),
		SubState:    u.SubState,
		Description: u.Description,
	}
}

// propertyString flattens a D-Bus property value. String slices become
// space separated lists, matching `systemctl show`.
func propertyString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		return strings.Join(val, " ")
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

// noSuchUnit is the bus error systemd replies with for unknown units.
const noSuchUnit = "org.freedesktop.systemd1.NoSuchUnit"

func classifyBusError(err error) error {
	var busErr godbus.Error
	if errors.As(err, &busErr) && busErr.Name == noSuchUnit {
		return fmt.Errorf("%w: %w", ErrUnitNotFound, err)
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "not found") || strings.Contains(msg, "nosuchunit") || strings.Contains(msg, "not loaded") {
		return fmt.Errorf("%w: %w", ErrUnitNotFound, err)
	}
	return fmt.Errorf("%w: %w", ErrCommand, err)
}
