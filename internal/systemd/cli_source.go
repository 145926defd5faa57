package systemd

import (
	"context"
	"fmt"
	"strings"

	"github.com/trly/servicedeck/internal/execx"
	"github.com/trly/servicedeck/internal/log"
	"github.com/trly/servicedeck/internal/unit"
)

// CLIOptions configures a CLISource.
type CLIOptions struct {
	Systemctl       string
	Scope           Scope
	UnitType        string
	IncludeInactive bool
}

// CLISource implements Source by running systemctl.
type CLISource struct {
	runner execx.Runner
	logger log.Logger
	opts   CLIOptions
}

// NewCLISource creates a systemctl-backed source.
func NewCLISource(runner execx.Runner, logger log.Logger, opts CLIOptions) *CLISource {
	if opts.Systemctl == "" {
		opts.Systemctl = "systemctl"
	}
	return &CLISource{runner: runner, logger: logger, opts: opts}
}

// ListUnits implements Source.
func (s *CLISource) ListUnits(ctx context.Context) ([]unit.Record, error) {
	args := []string{"list-units"}
	if s.opts.UnitType != "" {
		args = append(args, "--type="+s.opts.UnitType)
	}
	if s.opts.IncludeInactive {
		args = append(args, "--all")
	}
	args = append(args, "--no-pager", "--no-legend", "--plain")

	out, err := s.run(ctx, args...)
	if err != nil {
		return nil, NewError("list-units", "", s.opts.Scope, commandError(err, out))
	}

	records := ParseListUnits(string(out))
	s.logger.Debug("Listed units", "count", len(records), "type", s.opts.UnitType, "scope", s.opts.Scope)
	return records, nil
}

// Start implements Source.
func (s *CLISource) Start(ctx context.Context, name string) error {
	return s.control(ctx, "start", name)
}

// Stop implements Source.
func (s *CLISource) Stop(ctx context.Context, name string) error {
	return s.control(ctx, "stop", name)
}

// Restart implements Source.
func (s *CLISource) Restart(ctx context.Context, name string) error {
	return s.control(ctx, "restart", name)
}

// Enable implements Source.
func (s *CLISource) Enable(ctx context.Context, name string) error {
	return s.control(ctx, "enable", name)
}

// Disable implements Source.
func (s *CLISource) Disable(ctx context.Context, name string) error {
	return s.control(ctx, "disable", name)
}

// Show implements Source.
func (s *CLISource) Show(ctx context.Context, name string) (unit.Record, error) {
	out, err := s.run(ctx, "show", name, "--no-pager", "--property="+showProperties)
	if err != nil {
		return unit.Record{}, NewError("show", name, s.opts.Scope, commandError(err, out))
	}

	props := ParseShow(string(out))
	if props["LoadState"] == "not-found" || len(props) == 0 {
		return unit.Record{}, NewError("show", name, s.opts.Scope, ErrUnitNotFound)
	}
	return recordFromProperties(name, props), nil
}

// Cat implements Source.
func (s *CLISource) Cat(ctx context.Context, name string) (string, error) {
	out, err := s.run(ctx, "cat", name, "--no-pager")
	if err != nil {
		return "", NewError("cat", name, s.opts.Scope, commandError(err, out))
	}
	return string(out), nil
}

// Close implements Source.
func (s *CLISource) Close() error {
	return nil
}

func (s *CLISource) control(ctx context.Context, verb, name string) error {
	s.logger.Debug("Attempting unit operation", "op", verb, "name", name)

	out, err := s.run(ctx, verb, name)
	if err != nil {
		return NewError(verb, name, s.opts.Scope, commandError(err, out))
	}

	s.logger.Debug("Unit operation succeeded", "op", verb, "name", name)
	return nil
}

func (s *CLISource) run(ctx context.Context, args ...string) ([]byte, error) {
	if s.opts.Scope == ScopeUser {
		args = append([]string{"--user"}, args...)
	}
	return s.runner.CombinedOutput(ctx, s.opts.Systemctl, args...)
}

// commandError classifies a failed systemctl invocation using its output.
func commandError(err error, out []byte) error {
	msg := strings.TrimSpace(string(out))
	kind := ErrCommand
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "not found") || strings.Contains(lower, "not loaded") || strings.Contains(lower, "no files found") {
		kind = ErrUnitNotFound
	}
	if msg == "" {
		return fmt.Errorf("%w: %w", kind, err)
	}
	return fmt.Errorf("%w: %w: %s", kind, err, msg)
}
