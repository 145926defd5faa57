// Package systemd provides the unit source: enumeration and control of
// systemd units through systemctl or the systemd D-Bus API.
package systemd

import (
	"context"

	"github.com/coreos/go-systemd/v22/dbus"
	"github.com/trly/servicedeck/internal/unit"
)

// Source enumerates units and issues control operations against them.
type Source interface {
	// ListUnits returns one record per unit of the configured type.
	ListUnits(ctx context.Context) ([]unit.Record, error)

	// Start starts a unit.
	Start(ctx context.Context, name string) error

	// Stop stops a unit.
	Stop(ctx context.Context, name string) error

	// Restart restarts a unit.
	Restart(ctx context.Context, name string) error

	// Enable enables a unit to start on boot.
	Enable(ctx context.Context, name string) error

	// Disable disables a unit from starting on boot.
	Disable(ctx context.Context, name string) error

	// Show re-fetches the status of a single unit.
	Show(ctx context.Context, name string) (unit.Record, error)

	// Cat returns the unit file contents, each file preceded by a "# /path" header.
	Cat(ctx context.Context, name string) (string, error)

	// Close releases resources held by the source.
	Close() error
}

// Connection wraps systemd D-Bus operations for testability.
type Connection interface {
	// ListUnitsByPatterns lists loaded units filtered by state and name glob.
	ListUnitsByPatterns(ctx context.Context, states, patterns []string) ([]dbus.UnitStatus, error)

	// GetUnitProperties gets all properties of a systemd unit.
	GetUnitProperties(ctx context.Context, unitName string) (map[string]interface{}, error)

	// StartUnit starts a systemd unit.
	StartUnit(ctx context.Context, unitName, mode string) (chan string, error)

	// StopUnit stops a systemd unit.
	StopUnit(ctx context.Context, unitName, mode string) (chan string, error)

	// RestartUnit restarts a systemd unit.
	RestartUnit(ctx context.Context, unitName, mode string) (chan string, error)

	// EnableUnitFiles enables the given unit files.
	EnableUnitFiles(ctx context.Context, files []string) error

	// DisableUnitFiles disables the given unit files.
	DisableUnitFiles(ctx context.Context, files []string) error

	// Reload reloads systemd configuration.
	Reload(ctx context.Context) error

	// Close closes the connection.
	Close() error
}

// ConnectionFactory creates Connection instances.
type ConnectionFactory interface {
	// NewConnection creates a new systemd connection for the given scope.
	NewConnection(ctx context.Context, scope Scope) (Connection, error)
}
