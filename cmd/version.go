// Package cmd provides the command line interface for servicedeck
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
	"io"
	"runtime"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// Build information set by goreleaser.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// repositorySlug is the GitHub repository releases are published to.
const repositorySlug = "trly/servicedeck"

// releaseInfo is the newest published release, compared against the
// running build.
type releaseInfo struct {
	Version   string
	AssetURL  string
	AssetName string
	Newer     bool
}

// releaseDetector finds the newest published release.
type releaseDetector func(ctx context.Context, current string) (releaseInfo, bool, error)

func detectLatest(ctx context.Context, current string) (releaseInfo, bool, error) {
	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repositorySlug))
	if err != nil || !found {
		return releaseInfo{}, found, err
	}
	return releaseInfo{
		Version:   latest.Version(),
		AssetURL:  latest.AssetURL,
		AssetName: latest.AssetName,
		Newer:     !latest.LessOrEqual(current),
	}, true, nil
}

// VersionCommand represents the version command.
type VersionCommand struct {
	detect releaseDetector
}

// NewVersionCommand creates a new VersionCommand.
func NewVersionCommand() *VersionCommand {
	return &VersionCommand{detect: detectLatest}
}

// GetCobraCommand returns the cobra command for displaying version information.
func (c *VersionCommand) GetCobraCommand() *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show version information for servicedeck.`,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "servicedeck version %s\n", Version)
			fmt.Fprintf(out, "  commit: %s\n", Commit)
			fmt.Fprintf(out, "  built: %s\n", Date)
			fmt.Fprintf(out, "  go: %s\n", runtime.Version())

			c.checkForUpdates(cmd.Context(), out)
		},
	}

	return versionCmd
}

// checkForUpdates checks if a newer version is available and prints a message if so.
func (c *VersionCommand) checkForUpdates(ctx context.Context, out io.Writer) {
	if Version == "dev" {
		fmt.Fprintln(out, "\nSkipping update check for development build.")
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Fprintln(out, "\nChecking for updates...")

	latest, found, err := c.detect(ctx, Version)
	if err != nil {
		fmt.Fprintf(out, "Failed to check for updates: %v\n", err)
		return
	}

	if !found {
		fmt.Fprintln(out, "No release found")
		return
	}

	if !latest.Newer {
		fmt.Fprintln(out, "You are running the latest version.")
		return
	}

	fmt.Fprintf(out, "Update available! New version: %s\n", latest.Version)
	fmt.Fprintln(out, "Run 'servicedeck update' to update to the latest version.")
}
