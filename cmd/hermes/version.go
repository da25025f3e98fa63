package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build metadata, overridden at release time via
// -ldflags "-X main.Version=... -X main.GitCommit=... -X main.BuildDate=...".
var (
	// Version is the gateway release version
	Version = "0.1.0"
	// GitCommit is the git commit hash the binary was built from
	GitCommit = "unknown"
	// BuildDate is the build timestamp
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the hermes release version, the commit and date it was built from, and the Go runtime it was built with.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hermes %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
		fmt.Printf("%s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
