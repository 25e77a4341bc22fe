package main

import (
	"github.com/spf13/cobra"
)

var create3Cmd = &cobra.Command{
	Use:   "create3",
	Args:  cobra.NoArgs,
	Short: "Mine a vanity CREATE3 deployment address",
	Long:  `Searches for a salt whose CREATE3-derived address satisfies the configured predicate.`,
	RunE:  runCreate3,
}

func init() {
	addSharedFlags(create3Cmd)
}

func runCreate3(cmd *cobra.Command, args []string) error {
	cliArgs, err := sharedFlags(cmd)
	if err != nil {
		return err
	}
	return runMiner(cmd, cliArgs)
}
