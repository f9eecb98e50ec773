// Package main is the entry point for the plotcast CLI.
//
// plotcast can be embedded as a library (SDK) or run as a standalone binary
// managing one local viewer server. This CLI provides the standalone
// approach plus lifecycle tooling for external processes:
//
//	plotcast serve            # Start the viewer server
//	plotcast status           # Check whether a server is running
//	plotcast stop             # Stop the running server
//	plotcast open             # Open the viewer UI in a browser
//	plotcast config init      # Write a default config file
//	plotcast version          # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "plotcast",
	Short: "A local broadcast server for plots",
	Long: `plotcast is a local, ephemeral broadcast server for visual artifacts.

A producer process (e.g. a data-analysis script) pushes plots to the server,
which streams them to any number of browser viewers over WebSocket. New
viewers replay recent history before going live. History is memory-only and
lost on shutdown.

Quick start:
  1. Run: plotcast serve
  2. A browser opens with the viewer UI (the token is in the URL)
  3. POST plots to http://<addr>/api/publish`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this plotcast binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("plotcast %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
