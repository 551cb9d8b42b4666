package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a script file on the embedded runtime",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openSession(cmd)
		if err != nil {
			return err
		}
		if err := s.RunFile(args[0]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return err
		}
		return nil
	},
}
