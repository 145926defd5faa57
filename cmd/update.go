/*
Copyright © 2025 Travis Lyons travis.lyons@gmail.com

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// binaryUpdater replaces the executable at exe with the release asset.
type binaryUpdater func(ctx context.Context, assetURL, assetName, exe string) error

// UpdateOptions holds update command options.
type UpdateOptions struct {
	CheckOnly bool
}

// UpdateDeps holds update dependencies.
type UpdateDeps struct {
	CommonDeps
}

// UpdateCommand represents the update command.
type UpdateCommand struct {
	detect     releaseDetector
	executable func() (string, error)
	apply      binaryUpdater
}

// NewUpdateCommand creates a new UpdateCommand backed by GitHub releases.
func NewUpdateCommand() *UpdateCommand {
	return &UpdateCommand{
		detect:     detectLatest,
		executable: selfupdate.ExecutablePath,
		apply:      selfupdate.UpdateTo,
	}
}

// GetCobraCommand returns the cobra command for updating the binary.
func (c *UpdateCommand) GetCobraCommand() *cobra.Command {
	var opts UpdateOptions

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update servicedeck to the latest version",
		Long:  `Update servicedeck to the latest version from GitHub releases.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps := UpdateDeps{CommonDeps: NewRootDeps(getApp(cmd))}
			deps.Stdout = cmd.OutOrStdout()
			return c.Run(cmd.Context(), opts, deps)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	updateCmd.Flags().BoolVar(&opts.CheckOnly, "check", false, "Only report whether an update is available")

	return updateCmd
}

// Run executes the update command with injected dependencies.
func (c *UpdateCommand) Run(ctx context.Context, opts UpdateOptions, deps UpdateDeps) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := deps.Stdout

	fmt.Fprintf(out, "Current version: %s\n", Version)
	fmt.Fprintln(out, "Checking for updates...")

	latest, found, err := c.detect(ctx, Version)
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		fmt.Fprintln(out, "No release found")
		return nil
	}
	if !latest.Newer {
		fmt.Fprintln(out, "You are already running the latest version.")
		return nil
	}

	fmt.Fprintf(out, "Update available! New version: %s\n", latest.Version)
	if opts.CheckOnly {
		return nil
	}

	exe, err := c.executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	deps.Logger.Info("Applying update", "version", latest.Version, "asset", latest.AssetName, "path", exe)
	fmt.Fprintln(out, "Downloading and applying update...")
	if err := c.apply(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update %s to %s: %w", exe, latest.Version, err)
	}

	fmt.Fprintln(out, "Update completed successfully! Please restart servicedeck to use the new version.")
	return nil
}
