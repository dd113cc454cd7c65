package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/isbnscan/internal/api"
	"github.com/jackzampolin/isbnscan/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		if cmd.Flags().Changed("output") && api.IsStructuredOutput() {
			return api.Output(info)
		}
		cmd.Printf("isbnscan %s\n", info.Release)
		cmd.Printf("  Go:     %s\n", info.Go)
		cmd.Printf("  Commit: %s\n", info.Commit)
		cmd.Printf("  Date:   %s\n", info.CommitDate)
		return nil
	},
}
