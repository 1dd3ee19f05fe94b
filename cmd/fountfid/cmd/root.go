package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd returns the fountfid root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fountfid",
		Short: "FountFi vault daemon and operator tooling",
	}
	rootCmd.AddCommand(
		ServeCommand(),
		SignRequestCommand(),
	)
	return rootCmd
}
