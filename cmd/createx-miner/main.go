package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile     string
	verbose     bool
	metricsAddr string
	version     = "dev" // Will be set by build flags
)

var rootCmd = &cobra.Command{
	Use:   "createx-miner",
	Short: "GPU-accelerated vanity address miner for CreateX CREATE2/CREATE3 deployments",
	Long: `createx-miner searches for CREATE2/CREATE3 deployment salts whose resulting
address satisfies a structural predicate (leading zeros, total zeros, or a
literal pattern), using an OpenCL device when available.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML defaults file (default is none)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus /metrics on (default is disabled)")

	rootCmd.AddCommand(create2Cmd)
	rootCmd.AddCommand(create3Cmd)
}

// Subcommands are defined in separate files:
// - create2Cmd in create2.go
// - create3Cmd in create3.go

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
