package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/isbnscan/internal/api"
	"github.com/jackzampolin/isbnscan/internal/server/endpoints"
)

var validateCmd = &cobra.Command{
	Use:   "validate <code>...",
	Short: "Check ISBN-10 and ISBN-13 codes",
	Long: `Validate one or more ISBNs and print both forms of each.

Hyphens and spaces are ignored. A 979 ISBN-13 has no ISBN-10 form.
Exits non-zero when any code is invalid.

Examples:
  isbnscan validate 0-306-40615-2
  isbnscan validate -o text 9780306406157 080442957X`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results := make([]endpoints.ValidateResponse, len(args))
		invalid := 0
		for i, code := range args {
			results[i] = endpoints.Validate(code)
			if !results[i].Valid {
				invalid++
			}
		}

		var err error
		if len(results) == 1 {
			err = api.Output(results[0])
		} else {
			err = api.Output(validateResults(results))
		}
		if err != nil {
			return err
		}

		if invalid > 0 {
			return fmt.Errorf("%d of %d codes are not valid ISBNs", invalid, len(args))
		}
		return nil
	},
}

// validateResults renders one line per code in text mode.
type validateResults []endpoints.ValidateResponse

func (r validateResults) WriteText(w io.Writer) error {
	for _, v := range r {
		if err := v.WriteText(w); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
