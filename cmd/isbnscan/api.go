package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/isbnscan/internal/api"
	"github.com/jackzampolin/isbnscan/internal/server/endpoints"
)

var serverURL string

// getServerURL returns the server URL at runtime (after flag parsing).
// Without --server it is derived from the configured listen address.
func getServerURL() string {
	if serverURL != "" {
		return serverURL
	}
	if cfgMgr != nil {
		return cfgMgr.Get().Server.URL()
	}
	return "http://127.0.0.1:8280"
}

func newAPICmd() *cobra.Command {
	registry := api.NewRegistry()
	for _, ep := range endpoints.All() {
		registry.Register(ep)
	}

	apiCmd := registry.BuildCommands(getServerURL)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "", "Server URL (default: derived from server.host and server.port)",
	)
	apiCmd.AddCommand(newWaitCmd())
	return apiCmd
}

func newWaitCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Block until the server answers /health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if err := client.WaitReady(cmd.Context(), timeout); err != nil {
				return err
			}
			cmd.Println("ready:", client.BaseURL())
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "How long to wait")
	return cmd
}

func init() {
	rootCmd.AddCommand(newAPICmd())
}
