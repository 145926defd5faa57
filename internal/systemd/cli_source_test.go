package systemd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trly/servicedeck/internal/log"
	"github.com/trly/servicedeck/internal/testutil/fakerunner"
	"github.com/trly/servicedeck/internal/unit"
)

var listArgs = []string{"list-units", "--type=service", "--all", "--no-pager", "--no-legend", "--plain"}

func newTestCLISource(runner *fakerunner.Runner, scope Scope) *CLISource {
	return NewCLISource(runner, log.Nop(), CLIOptions{
		Scope:           scope,
		UnitType:        "service",
		IncludeInactive: true,
	})
}

func TestCLISource_ListUnits(t *testing.T) {
	ctx := context.Background()

	t.Run("parses listing", func(t *testing.T) {
		runner := fakerunner.New()
		runner.SetOutput("systemctl", listArgs, []byte(listOutput))
		src := newTestCLISource(runner, ScopeSystem)

		records, err := src.ListUnits(ctx)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, []string{"a.service", "b.socket", "c.service"}, []string{records[0].Name, records[1].Name, records[2].Name})
	})

	t.Run("user scope prefixes --user", func(t *testing.T) {
		runner := fakerunner.New()
		src := newTestCLISource(runner, ScopeUser)

		_, err := src.ListUnits(ctx)
		require.NoError(t, err)

		calls := runner.GetCalls()
		require.Len(t, calls, 1)
		assert.Equal(t, append([]string{"--user"}, listArgs...), calls[0].Args)
	})

	t.Run("active only omits --all", func(t *testing.T) {
		runner := fakerunner.New()
		src := NewCLISource(runner, log.Nop(), CLIOptions{Systemctl: "/usr/bin/systemctl", UnitType: "socket"})

		_, err := src.ListUnits(ctx)
		require.NoError(t, err)
		assert.Equal(t, "/usr/bin/systemctl list-units --type=socket --no-pager --no-legend --plain", runner.GetCalls()[0].String())
	})

	t.Run("command failure is an IO error", func(t *testing.T) {
		runner := fakerunner.New()
		runner.SetError("systemctl", listArgs, errors.New("exec: not found"))
		src := newTestCLISource(runner, ScopeSystem)

		records, err := src.ListUnits(ctx)
		assert.Nil(t, records)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCommand)
		assert.True(t, IsError(err))
	})
}

func TestCLISource_controlActions(t *testing.T) {
	ctx := context.Background()

	actions := map[string]func(*CLISource, string) error{
		"start":   func(s *CLISource, n string) error { return s.Start(ctx, n) },
		"stop":    func(s *CLISource, n string) error { return s.Stop(ctx, n) },
		"restart": func(s *CLISource, n string) error { return s.Restart(ctx, n) },
		"enable":  func(s *CLISource, n string) error { return s.Enable(ctx, n) },
		"disable": func(s *CLISource, n string) error { return s.Disable(ctx, n) },
	}

	for verb, fn := range actions {
		t.Run(verb+" invokes systemctl", func(t *testing.T) {
			runner := fakerunner.New()
			src := newTestCLISource(runner, ScopeSystem)

			require.NoError(t, fn(src, "sshd.service"))
			calls := runner.GetCalls()
			require.Len(t, calls, 1)
			assert.Equal(t, "systemctl "+verb+" sshd.service", calls[0].String())
		})

		t.Run(verb+" failure returns error", func(t *testing.T) {
			runner := fakerunner.New()
			runner.SetOutput("systemctl", []string{verb, "sshd.service"}, []byte("Access denied"))
			runner.SetError("systemctl", []string{verb, "sshd.service"}, errors.New("exit status 1"))
			src := newTestCLISource(runner, ScopeSystem)

			err := fn(src, "sshd.service")
			require.Error(t, err)

			var sErr *Error
			require.True(t, errors.As(err, &sErr))
			assert.Equal(t, verb, sErr.Op)
			assert.Equal(t, "sshd.service", sErr.Unit)
			assert.ErrorIs(t, err, ErrCommand)
			assert.Contains(t, err.Error(), "Access denied")
		})
	}

	t.Run("missing unit is classified", func(t *testing.T) {
		runner := fakerunner.New()
		runner.SetOutput("systemctl", []string{"start", "ghost.service"}, []byte("Failed to start ghost.service: Unit ghost.service not found."))
		runner.SetError("systemctl", []string{"start", "ghost.service"}, errors.New("exit status 5"))
		src := newTestCLISource(runner, ScopeSystem)

		err := src.Start(ctx, "ghost.service")
		assert.True(t, IsUnitNotFound(err))
	})
}

func TestCLISource_Show(t *testing.T) {
	ctx := context.Background()
	showArgs := []string{"show", "sshd.service", "--no-pager", "--property=" + showProperties}

	t.Run("returns record", func(t *testing.T) {
		runner := fakerunner.New()
		runner.SetOutput("systemctl", showArgs, []byte("Id=sshd.service\nLoadState=loaded\nActiveState=active\nSubState=running\nDescription=OpenSSH server daemon\n"))
		src := newTestCLISource(runner, ScopeSystem)

		r, err := src.Show(ctx, "sshd.service")
		require.NoError(t, err)
		assert.Equal(t, unit.Record{
			Name:        "sshd.service",
			Load:        unit.LoadLoaded,
			State:       unit.StateActive,
			SubState:    "running",
			Description: "OpenSSH server daemon",
		}, r)
	})

	t.Run("not-found load state is an error, not a panic", func(t *testing.T) {
		runner := fakerunner.New()
		runner.SetOutput("systemctl", showArgs, []byte("Id=sshd.service\nLoadState=not-found\nActiveState=inactive\n"))
		src := newTestCLISource(runner, ScopeSystem)

		_, err := src.Show(ctx, "sshd.service")
		assert.True(t, IsUnitNotFound(err))
	})
}

func TestCLISource_Cat(t *testing.T) {
	ctx := context.Background()
	content := "# /usr/lib/systemd/system/sshd.service\n[Unit]\nDescription=OpenSSH server daemon\n"

	t.Run("returns contents", func(t *testing.T) {
		runner := fakerunner.New()
		runner.SetOutput("systemctl", []string{"cat", "sshd.service", "--no-pager"}, []byte(content))
		src := newTestCLISource(runner, ScopeSystem)

		got, err := src.Cat(ctx, "sshd.service")
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("missing files are recoverable", func(t *testing.T) {
		runner := fakerunner.New()
		runner.SetOutput("systemctl", []string{"cat", "ghost.service", "--no-pager"}, []byte("No files found for ghost.service."))
		runner.SetError("systemctl", []string{"cat", "ghost.service", "--no-pager"}, errors.New("exit status 1"))
		src := newTestCLISource(runner, ScopeSystem)

		got, err := src.Cat(ctx, "ghost.service")
		assert.Empty(t, got)
		assert.True(t, IsUnitNotFound(err))
	})
}

func TestCLISource_Close(t *testing.T) {
	assert.NoError(t, newTestCLISource(fakerunner.New(), ScopeSystem).Close())
}
