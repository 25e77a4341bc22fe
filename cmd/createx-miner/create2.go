package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var create2Cmd = &cobra.Command{
	Use:   "create2",
	Args:  cobra.NoArgs,
	Short: "Mine a vanity CREATE2 deployment address",
	Long:  `Searches for a salt whose CREATE2-derived address (given an init-code hash) satisfies the configured predicate.`,
	RunE:  runCreate2,
}

func init() {
	addSharedFlags(create2Cmd)
	create2Cmd.Flags().String("code-hash", "", "32-byte init-code hash")
	create2Cmd.Flags().String("ch", "", "alias for --code-hash")
}

func runCreate2(cmd *cobra.Command, args []string) error {
	cliArgs, err := sharedFlags(cmd)
	if err != nil {
		return err
	}

	// --code-hash is required for create2 (spec.md §6); an all-zero hash
	// (spec.md §8's CrosschainSender scenario) is a legitimate value, so
	// presence is checked via Changed, not by testing for an empty string.
	var codeHash string
	switch {
	case cmd.Flags().Changed("code-hash"):
		codeHash, _ = cmd.Flags().GetString("code-hash")
	case cmd.Flags().Changed("ch"):
		codeHash, _ = cmd.Flags().GetString("ch")
	default:
		return fmt.Errorf("create2 requires --code-hash (or --ch)")
	}
	cliArgs.InitCodeHash = codeHash

	return runMiner(cmd, cliArgs)
}
