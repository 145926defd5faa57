package systemd

import (
	"context"
	"fmt"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/trly/servicedeck/internal/log"
)

// DBusConnection implements Connection interface wrapping systemd D-Bus operations.
type DBusConnection struct {
	conn *dbus.Conn
}

// NewDBusConnection creates a new D-Bus connection wrapper.
func NewDBusConnection(conn *dbus.Conn) *DBusConnection {
	return &DBusConnection{conn: conn}
}

// ListUnitsByPatterns lists loaded units filtered by state and name glob.
func (d *DBusConnection) ListUnitsByPatterns(ctx context.Context, states, patterns []string) ([]dbus.UnitStatus, error) {
	units, err := d.conn.ListUnitsByPatternsContext(ctx, states, patterns)
	if err != nil {
		return nil, fmt.Errorf("error listing units: %w", err)
	}
	return units, nil
}

// GetUnitProperties gets all properties of a systemd unit.
func (d *DBusConnection) GetUnitProperties(ctx context.Context, unitName string) (map[string]interface{}, error) {
	props, err := d.conn.GetUnitPropertiesContext(ctx, unitName)
	if err != nil {
		return nil, fmt.Errorf("error getting unit properties for %s: %w", unitName, err)
	}
	return props, nil
}

// StartUnit starts a systemd unit.
func (d *DBusConnection) StartUnit(ctx context.Context, unitName, mode string) (chan string, error) {
	ch := make(chan string, 1)
	_, err := d.conn.StartUnitContext(ctx, unitName, mode, ch)
	if err != nil {
		return nil, fmt.Errorf("error starting unit %s: %w", unitName, err)
	}
	return ch, nil
}

// StopUnit stops a systemd unit.
func (d *DBusConnection) StopUnit(ctx context.Context, unitName, mode string) (chan string, error) {
	ch := make(chan string, 1)
	_, err := d.conn.StopUnitContext(ctx, unitName, mode, ch)
	if err != nil {
		return nil, fmt.Errorf("error stopping unit %s: %w", unitName, err)
	}
	return ch, nil
}

// RestartUnit restarts a systemd unit.
func (d *DBusConnection) RestartUnit(ctx context.Context, unitName, mode string) (chan string, error) {
	ch := make(chan string, 1)
	_, err := d.conn.RestartUnitContext(ctx, unitName, mode, ch)
	if err != nil {
		return nil, fmt.Errorf("error restarting unit %s: %w", unitName, err)
	}
	return ch, nil
}

// EnableUnitFiles enables the given unit files persistently.
func (d *DBusConnection) EnableUnitFiles(ctx context.Context, files []string) error {
	if _, _, err := d.conn.EnableUnitFilesContext(ctx, files, false, true); err != nil {
		return fmt.Errorf("error enabling %v: %w", files, err)
	}
	return nil
}

// DisableUnitFiles disables the given unit files persistently.
func (d *DBusConnection) DisableUnitFiles(ctx context.Context, files []string) error {
	if _, err := d.conn.DisableUnitFilesContext(ctx, files, false); err != nil {
		return fmt.Errorf("error disabling %v: %w", files, err)
	}
	return nil
}

// Reload reloads systemd configuration.
func (d *DBusConnection) Reload(ctx context.Context) error {
	err := d.conn.ReloadContext(ctx)
	if err != nil {
		return fmt.Errorf("error reloading systemd: %w", err)
	}
	return nil
}

// Close closes the D-Bus connection.
func (d *DBusConnection) Close() error {
	d.conn.Close()
	return nil
}

// DefaultConnectionFactory implements ConnectionFactory interface.
type DefaultConnectionFactory struct {
	logger log.Logger
}

// NewConnectionFactory creates a new connection factory with injected logger.
func NewConnectionFactory(logger log.Logger) *DefaultConnectionFactory {
	return &DefaultConnectionFactory{
		logger: logger,
	}
}

// NewConnection opens a bus connection to the service manager of the given scope.
func (f *DefaultConnectionFactory) NewConnection(ctx context.Context, scope Scope) (Connection, error) {
	var conn *dbus.Conn
	var err error

	if scope == ScopeUser {
		f.logger.Debug("Establishing user connection to systemd")
		conn, err = dbus.NewUserConnectionContext(ctx)
	} else {
		f.logger.Debug("Establishing system connection to systemd")
		conn, err = dbus.NewSystemConnectionContext(ctx)
	}

	if err != nil {
		return nil, NewConnectionError(scope, err)
	}

	return NewDBusConnection(conn), nil
}
