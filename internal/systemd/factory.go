package systemd

import (
	"github.com/trly/servicedeck/internal/config"
	"github.com/trly/servicedeck/internal/execx"
	"github.com/trly/servicedeck/internal/log"
)

// NewSource builds the Source selected by cfg.Backend.
func NewSource(cfg *config.Settings, runner execx.Runner, connFactory ConnectionFactory, logger log.Logger) Source {
	scope := ScopeFor(cfg.UserMode)
	if cfg.Backend == config.BackendDBus {
		logger.Debug("Using D-Bus backend", "scope", scope)
		return NewDBusSource(connFactory, logger, DBusOptions{
			Scope:           scope,
			UnitType:        cfg.UnitType,
			IncludeInactive: cfg.IncludeInactive,
		})
	}

	logger.Debug("Using systemctl backend", "scope", scope, "systemctl", cfg.SystemctlPath)
	return NewCLISource(runner, logger, CLIOptions{
		Systemctl:       cfg.SystemctlPath,
		Scope:           scope,
		UnitType:        cfg.UnitType,
		IncludeInactive: cfg.IncludeInactive,
	})
}

// NewWriter builds the unit file writer for cfg.
func NewWriter(cfg *config.Settings, runner execx.Runner, logger log.Logger) *PrivilegedWriter {
	return NewPrivilegedWriter(runner, logger, WriterOptions{
		Systemctl: cfg.SystemctlPath,
		Scope:     ScopeFor(cfg.UserMode),
		Elevate:   cfg.ElevateCommand,
	})
}
