// Package cli implements the pulse commands: the interactive sessions
// table, the analytics dashboard, and the user performance listing.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	app "github.com/perfpulse/pulse/internal"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// application is set once during startup, before Execute.
var application *app.App

// SetApp injects the wired application into the command layer.
func SetApp(a *app.App) {
	application = a
}

var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "pulse - sales-call analytics in your terminal",
	Long: `Pulse is a terminal client for the PerfPulse sales-call analytics API.

It provides an interactive sessions browser with filtering, sorting and
bulk feedback editing, plus read-only dashboard and user performance
views.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pulse %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
