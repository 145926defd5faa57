package systemd

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/coreos/go-systemd/v22/dbus"
	godbus "github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trly/servicedeck/internal/log"
	"github.com/trly/servicedeck/internal/unit"
)

func doneChan(result string) chan string {
	ch := make(chan string, 1)
	ch <- result
	return ch
}

func newTestDBusSource(conn *MockConnection, opts DBusOptions) *DBusSource {
	return NewDBusSource(&MockConnectionFactory{Connection: conn}, log.Nop(), opts)
}

func TestDBusSource_ListUnits(t *testing.T) {
	ctx := context.Background()

	t.Run("maps unit status", func(t *testing.T) {
		var gotStates, gotPatterns []string
		conn := &MockConnection{
			ListUnitsByPatternsFunc: func(_ context.Context, states, patterns []string) ([]dbus.UnitStatus, error) {
				gotStates, gotPatterns = states, patterns
				return []dbus.UnitStatus{
					{Name: "sshd.service", LoadState: "loaded", ActiveState: "active", SubState: "running", Description: "OpenSSH"},
					{Name: "odd.service", LoadState: "loaded", ActiveState: "weird", SubState: "?"},
				}, nil
			},
		}
		src := newTestDBusSource(conn, DBusOptions{UnitType: "service", IncludeInactive: true})

		records, err := src.ListUnits(ctx)
		require.NoError(t, err)
		assert.Nil(t, gotStates)
		assert.Equal(t, []string{"*.service"}, gotPatterns)
		require.Len(t, records, 2)
		assert.Equal(t, unit.Record{Name: "sshd.service", Load: unit.LoadLoaded, State: unit.StateActive, SubState: "running", Description: "OpenSSH"}, records[0])
		assert.Equal(t, unit.StateUnknown, records[1].State)
	})

	t.Run("live units only", func(t *testing.T) {
		var gotStates []string
		conn := &MockConnection{
			ListUnitsByPatternsFunc: func(_ context.Context, states, _ []string) ([]dbus.UnitStatus, error) {
				gotStates = states
				return nil, nil
			},
		}
		_, err := newTestDBusSource(conn, DBusOptions{}).ListUnits(ctx)
		require.NoError(t, err)
		assert.Contains(t, gotStates, "active")
		assert.NotContains(t, gotStates, "inactive")
	})

	t.Run("connection failure", func(t *testing.T) {
		factory := &MockConnectionFactory{
			NewConnectionFunc: func(_ context.Context, scope Scope) (Connection, error) {
				return nil, NewConnectionError(scope, errors.New("no bus"))
			},
		}
		src := NewDBusSource(factory, log.Nop(), DBusOptions{Scope: ScopeUser})

		_, err := src.ListUnits(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCommand)
		assert.True(t, IsConnectionError(err))
	})
}

func TestDBusSource_jobs(t *testing.T) {
	ctx := context.Background()

	t.Run("start waits for done", func(t *testing.T) {
		var gotMode string
		conn := &MockConnection{
			StartUnitFunc: func(_ context.Context, _ string, mode string) (chan string, error) {
				gotMode = mode
				return doneChan("done"), nil
			},
		}
		require.NoError(t, newTestDBusSource(conn, DBusOptions{}).Start(ctx, "sshd.service"))
		assert.Equal(t, "replace", gotMode)
	})

	t.Run("failed job result", func(t *testing.T) {
		conn := &MockConnection{
			StopUnitFunc: func(context.Context, string, string) (chan string, error) {
				return doneChan("failed"), nil
			},
		}
		err := newTestDBusSource(conn, DBusOptions{}).Stop(ctx, "sshd.service")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCommand)
		assert.Contains(t, err.Error(), "failed")
	})

	t.Run("unknown unit from bus", func(t *testing.T) {
		conn := &MockConnection{
			RestartUnitFunc: func(context.Context, string, string) (chan string, error) {
				return nil, godbus.Error{Name: noSuchUnit, Body: []interface{}{"Unit ghost.service not loaded."}}
			},
		}
		err := newTestDBusSource(conn, DBusOptions{}).Restart(ctx, "ghost.service")
		assert.True(t, IsUnitNotFound(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		conn := &MockConnection{
			StartUnitFunc: func(context.Context, string, string) (chan string, error) {
				return make(chan string), nil
			},
		}
		err := newTestDBusSource(conn, DBusOptions{}).Start(cctx, "slow.service")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDBusSource_unitFiles(t *testing.T) {
	ctx := context.Background()

	var enabled, disabled []string
	reloads := 0
	conn := &MockConnection{
		EnableUnitFilesFunc:  func(_ context.Context, files []string) error { enabled = files; return nil },
		DisableUnitFilesFunc: func(_ context.Context, files []string) error { disabled = files; return nil },
		ReloadFunc:           func(context.Context) error { reloads++; return nil },
	}
	src := newTestDBusSource(conn, DBusOptions{})

	require.NoError(t, src.Enable(ctx, "a.service"))
	require.NoError(t, src.Disable(ctx, "b.service"))
	assert.Equal(t, []string{"a.service"}, enabled)
	assert.Equal(t, []string{"b.service"}, disabled)
	assert.Equal(t, 2, reloads)
}

func TestDBusSource_Show(t *testing.T) {
	ctx := context.Background()

	t.Run("maps properties", func(t *testing.T) {
		conn := &MockConnection{
			GetUnitPropertiesFunc: func(context.Context, string) (map[string]interface{}, error) {
				return map[string]interface{}{
					"Id":          "sshd.service",
					"LoadState":   "loaded",
					"ActiveState": "inactive",
					"SubState":    "dead",
					"Description": "OpenSSH",
				}, nil
			},
		}
		r, err := newTestDBusSource(conn, DBusOptions{}).Show(ctx, "sshd.service")
		require.NoError(t, err)
		assert.Equal(t, unit.StateInactive, r.State)
		assert.Equal(t, "dead", r.SubState)
	})

	t.Run("not-found load state", func(t *testing.T) {
		conn := &MockConnection{
			GetUnitPropertiesFunc: func(context.Context, string) (map[string]interface{}, error) {
				return map[string]interface{}{"LoadState": "not-found"}, nil
			},
		}
		_, err := newTestDBusSource(conn, DBusOptions{}).Show(ctx, "ghost.service")
		assert.True(t, IsUnitNotFound(err))
	})
}

func TestDBusSource_Cat(t *testing.T) {
	ctx := context.Background()
	files := map[string]string{
		"/usr/lib/systemd/system/sshd.service":             "[Service]\nExecStart=/usr/sbin/sshd -D",
		"/etc/systemd/system/sshd.service.d/override.conf": "[Service]\nRestart=always\n",
	}
	readFile := func(path string) ([]byte, error) {
		content, ok := files[path]
		if !ok {
			return nil, os.ErrNotExist
		}
		return []byte(content), nil
	}

	t.Run("renders fragment and drop-ins with headers", func(t *testing.T) {
		conn := &MockConnection{
			GetUnitPropertiesFunc: func(context.Context, string) (map[string]interface{}, error) {
				return map[string]interface{}{
					"LoadState":    "loaded",
					"FragmentPath": "/usr/lib/systemd/system/sshd.service",
					"DropInPaths":  []string{"/etc/systemd/system/sshd.service.d/override.conf"},
				}, nil
			},
		}
		src := newTestDBusSource(conn, DBusOptions{ReadFile: readFile})

		text, err := src.Cat(ctx, "sshd.service")
		require.NoError(t, err)
		assert.Equal(t, "# /usr/lib/systemd/system/sshd.service\n[Service]\nExecStart=/usr/sbin/sshd -D\n\n"+
			"# /etc/systemd/system/sshd.service.d/override.conf\n[Service]\nRestart=always\n", text)

		path, ok := ParseCatHeader(text)
		assert.True(t, ok)
		assert.Equal(t, "/usr/lib/systemd/system/sshd.service", path)
	})

	t.Run("no files", func(t *testing.T) {
		conn := &MockConnection{
			GetUnitPropertiesFunc: func(context.Context, string) (map[string]interface{}, error) {
				return map[string]interface{}{"LoadState": "loaded"}, nil
			},
		}
		_, err := newTestDBusSource(conn, DBusOptions{ReadFile: readFile}).Cat(ctx, "transient.scope")
		assert.True(t, IsUnitNotFound(err))
	})

	t.Run("unreadable file", func(t *testing.T) {
		conn := &MockConnection{
			GetUnitPropertiesFunc: func(context.Context, string) (map[string]interface{}, error) {
				return map[string]interface{}{"LoadState": "loaded", "FragmentPath": "/missing"}, nil
			},
		}
		_, err := newTestDBusSource(conn, DBusOptions{ReadFile: readFile}).Cat(ctx, "x.service")
		assert.ErrorIs(t, err, ErrCommand)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
