package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "hermes",
	Short: "Meridian Hermes - multi-tenant LLM gateway",
	Long: `Meridian Hermes is a multi-tenant gateway for LLM chat completion traffic.

It accepts OpenAI-compatible requests and routes each one to an upstream
provider, providing:
  - Policy-based provider ordering (cost-optimized, performance-first, balanced)
  - Sequential failover with per-attempt deadlines
  - Per-provider circuit breaking and background health probing
  - Per-tenant API key authentication, rate limits, and usage quotas`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (optional)")
}
