// Package cmd provides the command-line interface for motesim.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "motesim",
	Short: "Motesim simulates wireless sensor networks with a " +
		"deterministic discrete-event engine.",
	Long: `Motesim simulates small wireless sensor networks: periodic ` +
		`measurement-reporting motes transmit readings to a gateway over a ` +
		`simulated channel, driven by a virtual clock rather than wall time.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
