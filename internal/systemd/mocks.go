package systemd

import (
	"context"
	"fmt"
	"sync"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/trly/servicedeck/internal/unit"
)

// MockConnection implements Connection interface for testing.
type MockConnection struct {
	ListUnitsByPatternsFunc func(ctx context.Context, states, patterns []string) ([]dbus.UnitStatus, error)
	GetUnitPropertiesFunc   func(ctx context.Context, unitName string) (map[string]interface{}, error)
	StartUnitFunc           func(ctx context.Context, unitName, mode string) (chan string, error)
	StopUnitFunc            func(ctx context.Context, unitName, mode string) (chan string, error)
	RestartUnitFunc         func(ctx context.Context, unitName, mode string) (chan string, error)
	EnableUnitFilesFunc     func(ctx context.Context, files []string) error
	DisableUnitFilesFunc    func(ctx context.Context, files []string) error
	ReloadFunc              func(ctx context.Context) error
	CloseFunc               func() error
}

// ListUnitsByPatterns lists loaded units filtered by state and name glob.
func (m *MockConnection) ListUnitsByPatterns(ctx context.Context, states, patterns []string) ([]dbus.UnitStatus, error) {
	if m.ListUnitsByPatternsFunc != nil {
		return m.ListUnitsByPatternsFunc(ctx, states, patterns)
	}
	return nil, fmt.Errorf("mock not implemented")
}

// GetUnitProperties gets all properties of a systemd unit.
func (m *MockConnection) GetUnitProperties(ctx context.Context, unitName string) (map[string]interface{}, error) {
	if m.GetUnitPropertiesFunc != nil {
		return m.GetUnitPropertiesFunc(ctx, unitName)
	}
	return nil, fmt.Errorf("mock not implemented")
}

// StartUnit starts a systemd unit.
func (m *MockConnection) StartUnit(ctx context.Context, unitName, mode string) (chan string, error) {
	if m.StartUnitFunc != nil {
		return m.StartUnitFunc(ctx, unitName, mode)
	}
	return nil, fmt.Errorf("mock not implemented")
}

// StopUnit stops a systemd unit.
func (m *MockConnection) StopUnit(ctx context.Context, unitName, mode string) (chan string, error) {
	if m.StopUnitFunc != nil {
		return m.StopUnitFunc(ctx, unitName, mode)
	}
	return nil, fmt.Errorf("mock not implemented")
}

// RestartUnit restarts a systemd unit.
func (m *MockConnection) RestartUnit(ctx context.Context, unitName, mode string) (chan string, error) {
	if m.RestartUnitFunc != nil {
		return m.RestartUnitFunc(ctx, unitName, mode)
	}
	return nil, fmt.Errorf("mock not implemented")
}

// EnableUnitFiles enables the given unit files.
func (m *MockConnection) EnableUnitFiles(ctx context.Context, files []string) error {
	if m.EnableUnitFilesFunc != nil {
		return m.EnableUnitFilesFunc(ctx, files)
	}
	return fmt.Errorf("mock not implemented")
}

// DisableUnitFiles disables the given unit files.
func (m *MockConnection) DisableUnitFiles(ctx context.Context, files []string) error {
	if m.DisableUnitFilesFunc != nil {
		return m.DisableUnitFilesFunc(ctx, files)
	}
	return fmt.Errorf("mock not implemented")
}

// Reload reloads systemd configuration.
func (m *MockConnection) Reload(ctx context.Context) error {
	if m.ReloadFunc != nil {
		return m.ReloadFunc(ctx)
	}
	return fmt.Errorf("mock not implemented")
}

// Close closes the connection.
func (m *MockConnection) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// MockConnectionFactory implements ConnectionFactory interface for testing.
type MockConnectionFactory struct {
	NewConnectionFunc func(ctx context.Context, scope Scope) (Connection, error)
	Connection        Connection
}

// NewConnection returns the configured connection.
func (m *MockConnectionFactory) NewConnection(ctx context.Context, scope Scope) (Connection, error) {
	if m.NewConnectionFunc != nil {
		return m.NewConnectionFunc(ctx, scope)
	}
	if m.Connection != nil {
		return m.Connection, nil
	}
	return nil, fmt.Errorf("mock not configured")
}

// MockSource implements Source for testing. Unset funcs succeed with zero
// values. Every call is recorded as "op name".
type MockSource struct {
	ListUnitsFunc func(ctx context.Context) ([]unit.Record, error)
	StartFunc     func(ctx context.Context, name string) error
	StopFunc      func(ctx context.Context, name string) error
	RestartFunc   func(ctx context.Context, name string) error
	EnableFunc    func(ctx context.Context, name string) error
	DisableFunc   func(ctx context.Context, name string) error
	ShowFunc      func(ctx context.Context, name string) (unit.Record, error)
	CatFunc       func(ctx context.Context, name string) (string, error)
	CloseFunc     func() error

	mu    sync.Mutex
	calls []string
}

// ListUnits returns the configured records.
func (m *MockSource) ListUnits(ctx context.Context) ([]unit.Record, error) {
	m.record("list-units", "")
	if m.ListUnitsFunc != nil {
		return m.ListUnitsFunc(ctx)
	}
	return nil, nil
}

// Start starts a unit.
func (m *MockSource) Start(ctx context.Context, name string) error {
	m.record("start", name)
	if m.StartFunc != nil {
		return m.StartFunc(ctx, name)
	}
	return nil
}

// Stop stops a unit.
func (m *MockSource) Stop(ctx context.Context, name string) error {
	m.record("stop", name)
	if m.StopFunc != nil {
		return m.StopFunc(ctx, name)
	}
	return nil
}

// Restart restarts a unit.
func (m *MockSource) Restart(ctx context.Context, name string) error {
	m.record("restart", name)
	if m.RestartFunc != nil {
		return m.RestartFunc(ctx, name)
	}
	return nil
}

// Enable enables a unit.
func (m *MockSource) Enable(ctx context.Context, name string) error {
	m.record("enable", name)
	if m.EnableFunc != nil {
		return m.EnableFunc(ctx, name)
	}
	return nil
}

// Disable disables a unit.
func (m *MockSource) Disable(ctx context.Context, name string) error {
	m.record("disable", name)
	if m.DisableFunc != nil {
		return m.DisableFunc(ctx, name)
	}
	return nil
}

// Show returns the configured record.
func (m *MockSource) Show(ctx context.Context, name string) (unit.Record, error) {
	m.record("show", name)
	if m.ShowFunc != nil {
		return m.ShowFunc(ctx, name)
	}
	return unit.Record{Name: name}, nil
}

// Cat returns the configured unit file text.
func (m *MockSource) Cat(ctx context.Context, name string) (string, error) {
	m.record("cat", name)
	if m.CatFunc != nil {
		return m.CatFunc(ctx, name)
	}
	return "", nil
}

// Close releases nothing.
func (m *MockSource) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Calls returns the recorded calls in order.
func (m *MockSource) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockSource) record(op, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if name == "" {
		m.calls = append(m.calls, op)
		return
	}
	m.calls = append(m.calls, op+" "+name)
}

// MockWriter implements UnitWriter for testing.
type MockWriter struct {
	WriteFunc  func(ctx context.Context, path, content string) error
	ReloadFunc func(ctx context.Context) error
}

// Write replaces the file at path with content.
func (m *MockWriter) Write(ctx context.Context, path, content string) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, path, content)
	}
	return nil
}

// Reload asks the service manager to re-read unit files.
func (m *MockWriter) Reload(ctx context.Context) error {
	if m.ReloadFunc != nil {
		return m.ReloadFunc(ctx)
	}
	return nil
}

var (
	_ UnitWriter        = (*MockWriter)(nil)
	_ UnitWriter        = (*PrivilegedWriter)(nil)
	_ Connection        = (*MockConnection)(nil)
	_ ConnectionFactory = (*MockConnectionFactory)(nil)
	_ Source            = (*MockSource)(nil)
	_ Source            = (*CLISource)(nil)
	_ Source            = (*DBusSource)(nil)
)
