package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/isbnscan/internal/api"
	"github.com/jackzampolin/isbnscan/internal/config"
	"github.com/jackzampolin/isbnscan/internal/home"
	"github.com/jackzampolin/isbnscan/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string

	// Set by the root PersistentPreRunE for every subcommand.
	cfgMgr   *config.Manager
	homePath *home.Dir
	logger   *slog.Logger
	logLevel = new(slog.LevelVar)
)

var rootCmd = &cobra.Command{
	Use:   "isbnscan",
	Short: "Find ISBNs in OCR output of scanned book pages",
	Long: `isbnscan recovers a valid ISBN from noisy OCR text.

Pages are run through a cascade of extraction stages, from an explicit
"ISBN" label down to digit soup with every separator stripped, and every
candidate is checked against the ISBN-10 or ISBN-13 checksum.

Input can be plain text or hOCR. Use it one page at a time (extract),
over a directory of OCR output (scan), or as an HTTP service (serve).`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.isbnscan/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "isbnscan home directory (default: ~/.isbnscan)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml, json or text",
	)

	// Set output format, config and logging before any command runs
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if _, err := api.ParseOutputFormat(outputFormat); err != nil {
			return err
		}
		api.SetOutputFormat(outputFormat)

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		homePath = h

		file := cfgFile
		if file == "" && h.ConfigExists() {
			file = h.ConfigPath()
		}
		mgr, err := config.NewManager(file)
		if err != nil {
			return err
		}
		cfgMgr = mgr

		logger, err = newLogger(os.Stderr, mgr.Get().Log)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)

		mgr.OnChange(func(c *config.Config) {
			if level, err := c.Log.SlogLevel(); err == nil {
				logLevel.Set(level)
			}
		})
		mgr.OnError(func(err error) {
			logger.Warn("config reload rejected, keeping previous config", "error", err)
		})
		return nil
	}

	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the process logger. The level lives in logLevel so a
// config reload can change it in place.
func newLogger(w io.Writer, cfg config.LogCfg) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	logLevel.Set(level)

	opts := &slog.HandlerOptions{Level: logLevel}
	switch cfg.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("%w: log.format %q", config.ErrInvalidConfig, cfg.Format)
	}
}
