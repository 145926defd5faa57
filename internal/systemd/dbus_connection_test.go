package systemd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trly/servicedeck/internal/log"
)

func TestDBusConnection(t *testing.T) {
	// A real dbus.Conn needs a running systemd; only the wrapper is checked here.
	wrapper := NewDBusConnection(nil)
	assert.NotNil(t, wrapper)
}

func TestConnectionFactory(t *testing.T) {
	factory := NewConnectionFactory(log.Nop())
	assert.NotNil(t, factory)
}

func TestMockConnectionFactory(t *testing.T) {
	t.Run("returns configured connection", func(t *testing.T) {
		mockConn := &MockConnection{}
		factory := &MockConnectionFactory{Connection: mockConn}

		conn, err := factory.NewConnection(context.Background(), ScopeSystem)
		require.NoError(t, err)
		assert.Equal(t, mockConn, conn)
	})

	t.Run("calls custom function with scope", func(t *testing.T) {
		var got Scope
		factory := &MockConnectionFactory{
			NewConnectionFunc: func(_ context.Context, scope Scope) (Connection, error) {
				got = scope
				return nil, errors.New("no bus")
			},
		}

		_, err := factory.NewConnection(context.Background(), ScopeUser)
		require.Error(t, err)
		assert.Equal(t, ScopeUser, got)
	})

	t.Run("unconfigured factory errors", func(t *testing.T) {
		_, err := (&MockConnectionFactory{}).NewConnection(context.Background(), ScopeSystem)
		assert.Error(t, err)
	})
}
