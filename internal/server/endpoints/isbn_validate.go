package endpoints

import (
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/isbnscan/internal/api"
	"github.com/jackzampolin/isbnscan/internal/isbn"
)

// ValidateRequest is the body for POST /api/isbn/validate.
type ValidateRequest struct {
	Code string `json:"code" example:"0-306-40615-2"`
}

// ValidateResponse describes a code and its equivalent forms.
type ValidateResponse struct {
	Code    string `json:"code" yaml:"code"`
	Cleaned string `json:"cleaned" yaml:"cleaned"`
	Valid   bool   `json:"valid" yaml:"valid"`
	Kind    string `json:"kind,omitempty" yaml:"kind,omitempty"`
	ISBN13  string `json:"isbn13,omitempty" yaml:"isbn13,omitempty"`
	ISBN10  string `json:"isbn10,omitempty" yaml:"isbn10,omitempty"`
}

// WriteText prints the verdict and both forms.
func (r ValidateResponse) WriteText(w io.Writer) error {
	if !r.Valid {
		_, err := fmt.Fprintf(w, "%s\tinvalid\n", r.Code)
		return err
	}
	isbn10 := r.ISBN10
	if isbn10 == "" {
		isbn10 = "-"
	}
	_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Code, r.Kind, r.ISBN13, isbn10)
	return err
}

// Validate checks code and fills in the ISBN-13 and, where one exists,
// the ISBN-10 form.
func Validate(code string) ValidateResponse {
	resp := ValidateResponse{
		Code:    code,
		Cleaned: isbn.Clean(code),
	}
	kind := isbn.KindOf(resp.Cleaned)
	if kind == isbn.KindNone {
		return resp
	}

	resp.Valid = true
	resp.Kind = string(kind)
	if isbn13, err := isbn.ToISBN13(resp.Cleaned); err == nil {
		resp.ISBN13 = isbn13
	}
	if isbn10, err := isbn.ToISBN10(resp.Cleaned); err == nil {
		resp.ISBN10 = isbn10
	}
	return resp
}

// ValidateEndpoint handles POST /api/isbn/validate.
type ValidateEndpoint struct{}

func (e *ValidateEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/isbn/validate", e.handler
}

func (e *ValidateEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Validate an ISBN
//	@Description	Checks an ISBN-10 or ISBN-13 (hyphens and spaces allowed) and returns both forms
//	@Tags			isbn
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ValidateRequest	true	"Code to check"
//	@Success		200		{object}	ValidateResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/api/isbn/validate [post]
func (e *ValidateEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if !decodeRequest(w, r, validateSchema, &req) {
		return
	}
	writeJSON(w, http.StatusOK, Validate(req.Code))
}

func (e *ValidateEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <code>",
		Short: "Validate an ISBN on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ValidateResponse
			if err := client.Post(cmd.Context(), "/api/isbn/validate", ValidateRequest{Code: args[0]}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
