package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/isbnscan/internal/api"
	"github.com/jackzampolin/isbnscan/internal/config"
	"github.com/jackzampolin/isbnscan/internal/extract"
	"github.com/jackzampolin/isbnscan/internal/scan"
	"github.com/jackzampolin/isbnscan/internal/server/endpoints"
)

var (
	scanWorkers    int
	scanExtensions []string
	scanReportFile string
	scanNoSave     bool
	scanMissing    bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <path>...",
	Short: "Extract ISBNs from every OCR file under the given paths",
	Long: `Walk files and directories for OCR output and run each file through
the extraction cascade on a pool of workers.

The report (one result per file, plus hits per stage) is printed and saved
under the home reports directory, or scan.report_dir when configured.

Examples:
  isbnscan scan ./ocr
  isbnscan scan ./ocr --workers 8 --ext .txt
  isbnscan scan ./ocr --missing -o text       # files with no ISBN
  isbnscan scan ./ocr --report out.json       # save as JSON`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := cfgMgr.Get()

		workers := cfg.Scan.Workers
		if cmd.Flags().Changed("workers") {
			workers = scanWorkers
		}
		extensions := cfg.Scan.Extensions
		if cmd.Flags().Changed("ext") {
			extensions = scanExtensions
		}

		var docs []scan.Document
		for _, root := range args {
			found, err := scan.Collect(ctx, root, extensions)
			if err != nil {
				return err
			}
			docs = append(docs, found...)
		}
		if len(docs) == 0 {
			return fmt.Errorf("no OCR files (%s) under %s",
				strings.Join(extensions, ", "), strings.Join(args, ", "))
		}
		logger.Info("scanning", "documents", len(docs), "workers", workers)

		pool := scan.NewPool(scan.PoolConfig{
			Name:        "cli-scan",
			Source:      "cli",
			Logger:      logger,
			WorkerCount: workers,
			QueueSize:   cfg.Scan.QueueSize,
			Extractor:   extract.New(),
		})
		report, err := pool.Scan(ctx, docs)
		if report == nil {
			return err
		}

		if !scanNoSave {
			path, pathErr := reportPath(cfg, report.RunID)
			if pathErr != nil {
				return pathErr
			}
			if saveErr := api.OutputToFile(report, path); saveErr != nil {
				return saveErr
			}
			logger.Info("report saved", "path", path)
		}

		if scanMissing {
			missing := *report
			missing.Results = report.Missing()
			if outErr := api.Output(endpoints.BatchExtractResponse{Report: missing}); outErr != nil {
				return outErr
			}
		} else if outErr := api.Output(endpoints.BatchExtractResponse{Report: *report}); outErr != nil {
			return outErr
		}
		// A cancelled scan still saves and prints what finished.
		return err
	},
}

// reportPath picks where a run's report is saved: --report, then
// scan.report_dir, then the home reports directory.
func reportPath(cfg *config.Config, runID string) (string, error) {
	if scanReportFile != "" {
		return scanReportFile, nil
	}
	if cfg.Scan.ReportDir != "" {
		return filepath.Join(cfg.Scan.ReportDir, "scan_"+runID+".yaml"), nil
	}
	if err := homePath.EnsureExists(); err != nil {
		return "", err
	}
	return homePath.ReportPath(runID, "yaml"), nil
}

var scanReportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List saved scan reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		reports, err := homePath.Reports()
		if err != nil {
			return err
		}
		if !api.IsStructuredOutput() {
			for _, r := range reports {
				cmd.Println(r)
			}
			return nil
		}
		if reports == nil {
			reports = []string{}
		}
		return api.Output(reports)
	},
}

func init() {
	scanCmd.Flags().IntVarP(&scanWorkers, "workers", "w", 0, "Worker count (default: scan.workers, 0 means one per CPU)")
	scanCmd.Flags().StringSliceVar(&scanExtensions, "ext", nil, "File extensions to scan (default: scan.extensions)")
	scanCmd.Flags().StringVar(&scanReportFile, "report", "", "Save the report to this path (.json or .yaml)")
	scanCmd.Flags().BoolVar(&scanNoSave, "no-save", false, "Do not save the report")
	scanCmd.Flags().BoolVar(&scanMissing, "missing", false, "Print only files with no ISBN")

	scanCmd.AddCommand(scanReportsCmd)
	rootCmd.AddCommand(scanCmd)
}
