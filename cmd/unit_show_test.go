package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/trly/servicedeck/internal/systemd"
	"github.com/trly/servicedeck/internal/unit"
)

func TestShowCommand_ValidationFailure(t *testing.T) {
	app := NewAppBuilder(t).
		WithValidator(&MockValidator{
			SystemRequirementsFunc: func() error {
				return errors.New("systemd not found")
			},
		}).
		Build(t)

	cmd := NewShowCommand().GetCobraCommand()
	SetupCommandContext(cmd, app)

	err := cmd.PreRunE(cmd, []string{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "systemd not found")
}

func TestShowCommand_Success(t *testing.T) {
	src := &systemd.MockSource{
		ShowFunc: func(_ context.Context, name string) (unit.Record, error) {
			return unit.Record{Name: name, Load: unit.LoadLoaded, State: unit.StateActive, SubState: "running", Description: "OpenSSH server daemon"}, nil
		},
	}
	app := NewAppBuilder(t).WithSource(src).Build(t)

	cmd := NewShowCommand().GetCobraCommand()
	SetupCommandContext(cmd, app)

	AssertCommandOutput(t, cmd, []string{"sshd"},
		"sshd.service",
		"loaded",
		"active (running)",
		"OpenSSH server daemon",
		"stop, restart, disable",
	)
	assert.Equal(t, []string{"show sshd.service"}, src.Calls())
}

func TestShowCommand_NoActions(t *testing.T) {
	src := &systemd.MockSource{
		ShowFunc: func(_ context.Context, name string) (unit.Record, error) {
			return unit.Record{Name: name, Load: unit.LoadLoaded, State: unit.StateFailed}, nil
		},
	}
	app := NewAppBuilder(t).WithSource(src).Build(t)

	cmd := NewShowCommand().GetCobraCommand()
	SetupCommandContext(cmd, app)

	AssertCommandOutput(t, cmd, []string{"crash.service"}, "failed", "none")
}

func TestShowCommand_YAML(t *testing.T) {
	src := &systemd.MockSource{
		ShowFunc: func(_ context.Context, name string) (unit.Record, error) {
			return unit.Record{Name: name, Load: unit.LoadLoaded, State: unit.StateInactive, SubState: "dead"}, nil
		},
	}
	app := NewAppBuilder(t).WithSource(src).Build(t)
	deps, out := testDeps(app, "")

	err := NewShowCommand().Run(context.Background(), app, ShowOptions{Output: "yaml"}, ShowDeps{CommonDeps: deps}, "cups.socket")
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "cups.socket", got["name"])
	assert.Equal(t, "inactive", got["state"])
	assert.Equal(t, []interface{}{"start", "enable"}, got["actions"])
}

func TestShowCommand_Error(t *testing.T) {
	src := &systemd.MockSource{
		ShowFunc: func(_ context.Context, name string) (unit.Record, error) {
			return unit.Record{}, systemd.NewError("show", name, systemd.ScopeSystem, systemd.ErrUnitNotFound)
		},
	}
	app := NewAppBuilder(t).WithSource(src).Build(t)

	cmd := NewShowCommand().GetCobraCommand()
	SetupCommandContext(cmd, app)

	AssertCommandFailure(t, cmd, []string{"ghost"}, "error showing ghost.service")
}
