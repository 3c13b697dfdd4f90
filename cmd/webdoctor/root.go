// Package main provides the entry point for the webdoctor CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for webdoctor.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webdoctor",
		Short: "Website health auditing tool",
		Long: `Webdoctor audits the health of a website. It crawls the site politely,
respecting robots.txt and sitemaps, extracts structural facts from every
page, and reports SEO and content issues with a 0-100 health score.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAuditCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
