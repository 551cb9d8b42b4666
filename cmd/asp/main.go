// Command asp runs scripts and interactive sessions on the embedded asp
// runtime through the bridge package.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "asp",
	Short: "Embedded asp runtime host",
	Long:  `asp runs scripts, one-off expressions and an interactive session on the embedded asp runtime.`,
	Args:  cobra.NoArgs,
	// bare asp drops into the interactive session
	RunE: replCmd.RunE,
}

func main() {
	rootCmd.Version = version
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("config", "", "path to asp.toml (default: walk up from the working directory)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
