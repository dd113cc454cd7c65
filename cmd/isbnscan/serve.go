package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/isbnscan/internal/metrics"
	"github.com/jackzampolin/isbnscan/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the isbnscan server",
	Long: `Start the isbnscan HTTP server.

The server provides:
  - /health                   - Basic server health check
  - /status                   - Uptime, config, pool and counters
  - /api/isbn/extract         - Extract an ISBN from one OCR document
  - /api/isbn/extract/batch   - Extract ISBNs from many documents
  - /api/isbn/validate        - Validate and convert a code
  - /api/metrics              - Stage hit counters
  - /swagger                  - API documentation

When a config file is in use it is watched; log level and the request
body limit follow edits without a restart.

Examples:
  isbnscan serve                    # Start on 127.0.0.1:8280
  isbnscan serve --port 3000        # Start on custom port
  isbnscan serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cmd.Flags().Changed("host") {
			if err := cfgMgr.Override("server.host", serveHost); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("port") {
			if err := cfgMgr.Override("server.port", servePort); err != nil {
				return err
			}
		}

		if err := homePath.EnsureExists(); err != nil {
			return err
		}

		srv, err := server.New(server.Config{
			ConfigManager: cfgMgr,
			Metrics:       metrics.NewRecorder(0),
			Home:          homePath,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		if file := cfgMgr.ConfigFile(); file != "" {
			logger.Info("watching config file", "path", file)
			cfgMgr.WatchConfig()
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to (overrides server.host)")
	serveCmd.Flags().StringVar(&servePort, "port", "8280", "Port to listen on (overrides server.port)")

	rootCmd.AddCommand(serveCmd)
}
