package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set at release build time via ldflags. Source builds fall
// back to the module version recorded by the Go toolchain.
var version = ""

// getVersion returns the version string reported by the version command
// and embedded in JSON reports.
func getVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// vcsInfo returns the short revision and commit time the Go toolchain
// stamped into the binary, or "unknown" for anything absent.
func vcsInfo() (revision, buildTime string) {
	revision, buildTime = "unknown", "unknown"
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return revision, buildTime
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.time":
			buildTime = s.Value
		}
	}
	return revision, buildTime
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of webdoctor.`,
		Run: func(cmd *cobra.Command, _ []string) {
			revision, buildTime := vcsInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "webdoctor version %s\n", getVersion())
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", revision)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", buildTime)
		},
	}
}
