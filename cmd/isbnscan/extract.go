package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/isbnscan/internal/api"
	"github.com/jackzampolin/isbnscan/internal/extract"
	"github.com/jackzampolin/isbnscan/internal/ocrtext"
	"github.com/jackzampolin/isbnscan/internal/server/endpoints"
)

var (
	extractFormat string
	extractStages []string
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract an ISBN from an OCR file or stdin",
	Long: `Run the extraction cascade over one page of OCR output.

Reads the file argument, or stdin when it is missing or "-". hOCR is
detected from the file extension or content; use --format to force it.

Examples:
  isbnscan extract page_0004.txt
  tesseract page.png - | isbnscan extract -o text
  isbnscan extract page.hocr --stages labeled,prefixed13`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		extractor, err := newExtractor(extractStages)
		if err != nil {
			return err
		}

		name, text, err := loadText(cmd.InOrStdin(), args, extractFormat)
		if err != nil {
			return err
		}

		start := time.Now()
		result, found := extractor.Find(text)
		elapsed := time.Since(start)
		logger.Debug("isbn extraction", "name", name, "found", found, "stage", result.Stage, "duration", elapsed)

		resp := endpoints.ExtractResponse{
			Name:       name,
			Found:      found,
			DurationMS: float64(elapsed.Microseconds()) / 1000,
		}
		if found {
			resp.ISBN = result.ISBN
			resp.Kind = string(result.Kind)
			resp.Stage = result.Stage
		}
		return api.Output(resp)
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "", "Input format: text or hocr (default: detect)")
	extractCmd.Flags().StringSliceVar(&extractStages, "stages", nil, "Run only these stages, in cascade order")

	rootCmd.AddCommand(extractCmd)
}

// newExtractor builds an extractor limited to the named stages. No names
// means the full cascade.
func newExtractor(names []string) (*extract.Extractor, error) {
	if len(names) == 0 {
		return extract.New(), nil
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[strings.ToLower(strings.TrimSpace(n))] = true
	}

	var stages []extract.Stage
	for _, s := range extract.DefaultStages() {
		if want[s.Name] {
			stages = append(stages, s)
			delete(want, s.Name)
		}
	}
	if len(want) > 0 {
		var unknown []string
		for n := range want {
			unknown = append(unknown, n)
		}
		return nil, fmt.Errorf("unknown stage(s): %s (have %s)",
			strings.Join(unknown, ", "), strings.Join(extract.New().Stages(), ", "))
	}
	return extract.New(stages...), nil
}

// loadText reads a file, or stdin when args is empty or "-", and returns
// its name and cleaned text.
func loadText(stdin io.Reader, args []string, format string) (string, string, error) {
	if len(args) == 1 && args[0] != "-" && format == "" {
		text, err := ocrtext.ReadFile(args[0])
		return filepath.Base(args[0]), text, err
	}

	var (
		name string
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		name = "stdin"
		data, err = io.ReadAll(stdin)
	} else {
		name = filepath.Base(args[0])
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", name, err)
	}

	f := ocrtext.DetectFormat(name, data)
	if format != "" {
		if f, err = ocrtext.ParseFormat(format); err != nil {
			return "", "", err
		}
	}
	text, err := ocrtext.Parse(data, f)
	return name, text, err
}
