package endpoints

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/isbnscan/internal/api"
	"github.com/jackzampolin/isbnscan/internal/metrics"
	"github.com/jackzampolin/isbnscan/internal/ocrtext"
	"github.com/jackzampolin/isbnscan/internal/svcctx"
)

// ExtractRequest is the body for POST /api/isbn/extract.
type ExtractRequest struct {
	Name   string `json:"name,omitempty" example:"page_0004.txt"`
	Text   string `json:"text" example:"ISBN 978-0-306-40615-7"`
	Format string `json:"format,omitempty" enums:"text,hocr" example:"text"`
}

// ExtractResponse is the result of a single extraction.
type ExtractResponse struct {
	Name       string  `json:"name,omitempty" yaml:"name,omitempty"`
	Found      bool    `json:"found" yaml:"found"`
	ISBN       string  `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	Kind       string  `json:"kind,omitempty" yaml:"kind,omitempty"`
	Stage      string  `json:"stage,omitempty" yaml:"stage,omitempty"`
	DurationMS float64 `json:"duration_ms" yaml:"duration_ms"`
	RequestID  string  `json:"request_id,omitempty" yaml:"request_id,omitempty"`
}

// WriteText prints the ISBN or a not-found line.
func (r ExtractResponse) WriteText(w io.Writer) error {
	if !r.Found {
		_, err := fmt.Fprintln(w, "no ISBN found")
		return err
	}
	_, err := fmt.Fprintf(w, "%s\t%s\t%s\n", r.ISBN, r.Kind, r.Stage)
	return err
}

// ExtractEndpoint handles POST /api/isbn/extract.
type ExtractEndpoint struct{}

func (e *ExtractEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/isbn/extract", e.handler
}

func (e *ExtractEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Extract an ISBN
//	@Description	Run the extraction cascade over OCR text (plain or hOCR) and return the first validated ISBN
//	@Tags			isbn
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ExtractRequest	true	"OCR text"
//	@Success		200		{object}	ExtractResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		413		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/isbn/extract [post]
func (e *ExtractEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	extractor := svcctx.ExtractorFrom(ctx)
	if extractor == nil {
		writeError(w, http.StatusServiceUnavailable, "extractor not initialized")
		return
	}

	var req ExtractRequest
	if !decodeRequest(w, r, extractSchema, &req) {
		return
	}

	format, err := ocrtext.ParseFormat(req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	text, err := ocrtext.Parse([]byte(req.Text), format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	result, found := extractor.Find(text)
	elapsed := time.Since(start)

	resp := ExtractResponse{
		Name:       req.Name,
		Found:      found,
		DurationMS: float64(elapsed.Microseconds()) / 1000,
		RequestID:  svcctx.RequestIDFrom(ctx),
	}
	if found {
		resp.ISBN = result.ISBN
		resp.Kind = string(result.Kind)
		resp.Stage = result.Stage
	}

	if rec := svcctx.MetricsFrom(ctx); rec != nil {
		rec.Record(metrics.Metric{
			Source:   "http",
			RunID:    resp.RequestID,
			Document: req.Name,
			Found:    resp.Found,
			ISBN:     resp.ISBN,
			Kind:     resp.Kind,
			Stage:    resp.Stage,
			Duration: elapsed,
		})
	}
	if logger := svcctx.LoggerFrom(ctx); logger != nil {
		logger.Debug("isbn extraction", "found", found, "stage", resp.Stage, "duration", elapsed)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *ExtractEndpoint) Command(getServerURL func() string) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract an ISBN from an OCR file (or stdin) on the server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readExtractRequest(cmd.InOrStdin(), args, format)
			if err != nil {
				return err
			}

			client := api.NewClient(getServerURL())
			var resp ExtractResponse
			if err := client.Post(cmd.Context(), "/api/isbn/extract", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format: text or hocr (default: detect from file)")
	return cmd
}

// readExtractRequest builds a request from a file path, or stdin when
// args is empty or "-". An empty format is detected from the file.
// hOCR is parsed here and sent as text, since its declared charset only
// applies to the raw bytes and would be lost in the JSON body.
func readExtractRequest(stdin io.Reader, args []string, format string) (ExtractRequest, error) {
	var (
		data []byte
		name string
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
		return ExtractRequest{}, fmt.Errorf("failed to read %s: %w", name, err)
	}

	f := ocrtext.DetectFormat(name, data)
	if format != "" {
		if f, err = ocrtext.ParseFormat(format); err != nil {
			return ExtractRequest{}, err
		}
	}
	if f != ocrtext.FormatHOCR {
		return ExtractRequest{Name: name, Text: string(data), Format: string(f)}, nil
	}

	text, err := ocrtext.Parse(data, f)
	if err != nil {
		return ExtractRequest{}, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return ExtractRequest{Name: name, Text: text, Format: string(ocrtext.FormatText)}, nil
}
