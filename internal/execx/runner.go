// Package execx provides a testable abstraction for command execution.
package execx

import (
	"bytes"
	"context"
	"io"
	"os/exec"
)

// Runner defines an interface for executing external commands.
type Runner interface {
	// CombinedOutput executes a command and returns its combined stdout and stderr.
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)
	// RunWithInput executes a command with stdin fed from input and returns its combined output.
	RunWithInput(ctx context.Context, input io.Reader, name string, args ...string) ([]byte, error)
}

// RealRunner implements Runner using os/exec.
type RealRunner struct{}

// NewRealRunner creates a new RealRunner.
func NewRealRunner() *RealRunner {
	return &RealRunner{}
}

// CombinedOutput executes a command and returns its combined stdout and stderr output.
func (r *RealRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// RunWithInput executes a command with input attached to stdin.
func (r *RealRunner) RunWithInput(ctx context.Context, input io.Reader, name string, args ...string) ([]byte, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = input
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}
