package systemd

import (
	"context"
	"fmt"
	"strings"

	"github.com/trly/servicedeck/internal/execx"
	"github.com/trly/servicedeck/internal/log"
)

// UnitWriter persists edited unit files and makes the manager pick them up.
type UnitWriter interface {
	// Write replaces the file at path with content.
	Write(ctx context.Context, path, content string) error

	// Reload asks the service manager to re-read unit files.
	Reload(ctx context.Context) error
}

// WriterOptions configures a PrivilegedWriter.
type WriterOptions struct {
	Systemctl string
	Scope     Scope
	// Elevate is the helper used to gain privileges for system scope, e.g. "pkexec".
	// Empty runs commands directly.
	Elevate string
}

// PrivilegedWriter writes unit files through `tee`, prefixed with an
// elevation helper when operating on the system manager.
type PrivilegedWriter struct {
	runner execx.Runner
	logger log.Logger
	opts   WriterOptions
}

// NewPrivilegedWriter creates a writer.
func NewPrivilegedWriter(runner execx.Runner, logger log.Logger, opts WriterOptions) *PrivilegedWriter {
	if opts.Systemctl == "" {
		opts.Systemctl = "systemctl"
	}
	return &PrivilegedWriter{runner: runner, logger: logger, opts: opts}
}

// Write implements UnitWriter.
func (w *PrivilegedWriter) Write(ctx context.Context, path, content string) error {
	if path == "" {
		return NewError("write", "", w.opts.Scope, fmt.Errorf("%w: empty unit file path", ErrCommand))
	}

	name, args := w.command("tee", path)
	w.logger.Debug("Writing unit file", "path", path, "elevate", name != "tee")

	out, err := w.runner.RunWithInput(ctx, strings.NewReader(content), name, args...)
	if err != nil {
		return NewError("write", path, w.opts.Scope, commandError(err, out))
	}
	return nil
}

// Reload implements UnitWriter.
func (w *PrivilegedWriter) Reload(ctx context.Context) error {
	sysArgs := []string{"daemon-reload"}
	if w.opts.Scope == ScopeUser {
		sysArgs = append([]string{"--user"}, sysArgs...)
	}
	name, args := w.command(w.opts.Systemctl, sysArgs...)

	out, err := w.runner.CombinedOutput(ctx, name, args...)
	if err != nil {
		return NewError("daemon-reload", "", w.opts.Scope, commandError(err, out))
	}
	w.logger.Debug("Reloaded service manager", "scope", w.opts.Scope)
	return nil
}

func (w *PrivilegedWriter) command(name string, args ...string) (string, []string) {
	if w.opts.Scope == ScopeUser || w.opts.Elevate == "" {
		return name, args
	}
	return w.opts.Elevate, append([]string{name}, args...)
}
