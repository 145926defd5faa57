package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

// ExecuteCommandWithCapture executes a cobra command and captures all output (stdout/stderr).
// This handles both cmd.Print* and fmt.Print* outputs by redirecting os.Stdout/os.Stderr.
func ExecuteCommandWithCapture(t *testing.T, cmd *cobra.Command, args []string) (output string, err error) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	r, w, _ := os.Pipe()
	os.Stdout = w
	os.Stderr = w

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)

	outputCh := make(chan string, 1)
	go func() {
		var output bytes.Buffer
		_, _ = io.Copy(&output, r)
		outputCh <- output.String()
	}()

	err = cmd.Execute()

	_ = w.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	capturedOutput := <-outputCh

	return capturedOutput + buf.String(), err
}

// ExecuteCommand is a simpler helper for commands that don't need output capture.
func ExecuteCommand(t *testing.T, cmd *cobra.Command, args []string) error {
	t.Helper()
	cmd.SetArgs(args)
	return cmd.Execute()
}

// AssertCommandOutput verifies command output contains expected strings.
func AssertCommandOutput(t *testing.T, cmd *cobra.Command, args []string, expectedOutputs ...string) {
	t.Helper()
	output, err := ExecuteCommandWithCapture(t, cmd, args)
	assert.NoError(t, err)

	for _, expected := range expectedOutputs {
		assert.Contains(t, output, expected, "Expected output to contain: %s\nActual output: %s", expected, output)
	}
}

// AssertCommandFailure verifies a command fails with expected error.
func AssertCommandFailure(t *testing.T, cmd *cobra.Command, args []string, expectedError string) {
	t.Helper()
	_, err := ExecuteCommandWithCapture(t, cmd, args)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), expectedError)
	}
}

// SetupCommandContext creates a command with app context for testing.
func SetupCommandContext(cmd *cobra.Command, app *App) {
	ctx := context.WithValue(context.Background(), appContextKey, app)
	cmd.SetContext(ctx)
}

// testDeps returns CommonDeps writing to a buffer and reading stdin from input.
func testDeps(app *App, input string) (CommonDeps, *bytes.Buffer) {
	var out bytes.Buffer
	fs := NewFileSystemOps()
	return CommonDeps{
		Clock:      clock.NewMock(),
		FileSystem: &fs,
		Logger:     app.Logger,
		Stdin:      strings.NewReader(input),
		Stdout:     &out,
	}, &out
}
