package main

import (
	"fmt"
	"os"

	app "github.com/perfpulse/pulse/internal"
	"github.com/perfpulse/pulse/internal/cli"
	"github.com/perfpulse/pulse/internal/core"
)

// Set by goreleaser ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)

	a, err := app.NewApp(core.ResolveBasePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing pulse: %v\n", err)
		os.Exit(1)
	}
	cli.SetApp(a)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
