package endpoints

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/isbnscan/internal/api"
	"github.com/jackzampolin/isbnscan/internal/ocrtext"
	"github.com/jackzampolin/isbnscan/internal/scan"
	"github.com/jackzampolin/isbnscan/internal/svcctx"
)

// BatchExtractRequest is the body for POST /api/isbn/extract/batch.
type BatchExtractRequest struct {
	Documents []ExtractRequest `json:"documents"`
}

// BatchExtractResponse is a scan report over the submitted documents.
type BatchExtractResponse struct {
	RequestID   string `json:"request_id,omitempty" yaml:"request_id,omitempty"`
	scan.Report `yaml:",inline"`
}

// WriteText prints one line per document.
func (r BatchExtractResponse) WriteText(w io.Writer) error {
	for _, res := range r.Results {
		var line string
		switch {
		case res.Error != "":
			line = fmt.Sprintf("%s\terror: %s", res.Name, res.Error)
		case res.Found:
			line = fmt.Sprintf("%s\t%s\t%s\t%s", res.Name, res.ISBN, res.Kind, res.Stage)
		default:
			line = fmt.Sprintf("%s\t-", res.Name)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d documents, %d found, %d not found, %d errors\n",
		r.Documents, r.Found, r.NotFound, r.Errors)
	return err
}

// BatchExtractEndpoint handles POST /api/isbn/extract/batch.
type BatchExtractEndpoint struct{}

func (e *BatchExtractEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/isbn/extract/batch", e.handler
}

func (e *BatchExtractEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Extract ISBNs from many documents
//	@Description	Runs each document through the scan worker pool and returns a report in input order
//	@Tags			isbn
//	@Accept			json
//	@Produce		json
//	@Param			request	body		BatchExtractRequest	true	"Documents"
//	@Success		200		{object}	BatchExtractResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		413		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/isbn/extract/batch [post]
func (e *BatchExtractEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pool := svcctx.ScanPoolFrom(ctx)
	if pool == nil {
		writeError(w, http.StatusServiceUnavailable, "scan pool not initialized")
		return
	}

	var req BatchExtractRequest
	if !decodeRequest(w, r, batchExtractSchema, &req) {
		return
	}

	docs := make([]scan.Document, len(req.Documents))
	for i, d := range req.Documents {
		format, err := ocrtext.ParseFormat(d.Format)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("documents[%d]: %v", i, err))
			return
		}
		name := d.Name
		if name == "" {
			name = "document-" + strconv.Itoa(i)
		}
		docs[i] = requestDocument(strconv.Itoa(i), name, d.Text, format)
	}

	report, err := pool.Scan(ctx, docs)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, BatchExtractResponse{
		RequestID: svcctx.RequestIDFrom(ctx),
		Report:    *report,
	})
}

// requestDocument defers OCR parsing to the worker that picks the document up.
func requestDocument(id, name, text string, format ocrtext.Format) scan.Document {
	return scan.Document{
		ID:   id,
		Name: name,
		Load: func(context.Context) (string, error) {
			return ocrtext.Parse([]byte(text), format)
		},
	}
}

func (e *BatchExtractEndpoint) Command(getServerURL func() string) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "extract-batch <file>...",
		Short: "Extract ISBNs from several OCR files on the server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req BatchExtractRequest
			for _, path := range args {
				doc, err := readExtractRequest(cmd.InOrStdin(), []string{path}, format)
				if err != nil {
					return err
				}
				req.Documents = append(req.Documents, doc)
			}

			client := api.NewClient(getServerURL())
			var resp BatchExtractResponse
			if err := client.Post(cmd.Context(), "/api/isbn/extract/batch", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format for all files: text or hocr (default: detect per file)")
	return cmd
}
