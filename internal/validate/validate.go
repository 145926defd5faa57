// Package validate provides functions to validate various aspects of the application.
package validate

import (
	"context"
	"fmt"
	"regexp"
	"runtime"
	"strings"

	"github.com/trly/servicedeck/internal/execx"
	"github.com/trly/servicedeck/internal/log"
)

// MaxUnitNameLen is the longest unit name systemd accepts.
const MaxUnitNameLen = 255

var unitNamePattern = regexp.MustCompile(`^[A-Za-z0-9:_.\\@-]+\.[a-z]+$`)

// Validator provides system requirements validation with dependency injection.
type Validator struct {
	logger    log.Logger
	runner    execx.Runner
	osGetter  func() string // For testing, defaults to runtime.GOOS
	systemctl string
}

// NewValidator creates a new Validator with the provided logger and command runner.
func NewValidator(logger log.Logger, runner execx.Runner, systemctl string) *Validator {
	if systemctl == "" {
		systemctl = "systemctl"
	}
	return &Validator{
		logger:    logger,
		runner:    runner,
		osGetter:  func() string { return runtime.GOOS },
		systemctl: systemctl,
	}
}

// WithOSGetter sets a custom OS getter for testing.
func (v *Validator) WithOSGetter(osGetter func() string) *Validator {
	v.osGetter = osGetter
	return v
}

// SystemRequirements checks that systemd and its management tool are present.
// This is the only condition treated as fatal at startup.
func (v *Validator) SystemRequirements() error {
	ctx := context.Background()

	if goos := v.osGetter(); goos != "linux" {
		return fmt.Errorf("unsupported platform: %s (servicedeck requires Linux with systemd)", goos)
	}

	v.logger.Debug("Validating systemd availability", "systemctl", v.systemctl)

	out, err := v.runner.CombinedOutput(ctx, v.systemctl, "--version")
	if err != nil {
		return fmt.Errorf("systemd not found: %w", err)
	}

	if !strings.Contains(string(out), "systemd") {
		return fmt.Errorf("systemd not properly installed")
	}

	return nil
}

// UnitName checks that name is a plausible systemd unit name with a type suffix.
func UnitName(name string) error {
	if name == "" {
		return fmt.Errorf("unit name must not be empty")
	}
	if len(name) > MaxUnitNameLen {
		return fmt.Errorf("unit name exceeds %d characters", MaxUnitNameLen)
	}
	if !unitNamePattern.MatchString(name) {
		return fmt.Errorf("invalid unit name %q", name)
	}
	return nil
}

// NormalizeUnitName appends .<unitType> to names given without a suffix.
func NormalizeUnitName(name, unitType string) string {
	if unitType == "" || strings.Contains(name, ".") {
		return name
	}
	return name + "." + unitType
}
