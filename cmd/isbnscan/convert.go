package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/isbnscan/internal/api"
	"github.com/jackzampolin/isbnscan/internal/isbn"
)

var convertTo string

// ConvertResult is the output of the convert command.
type ConvertResult struct {
	Input string `json:"input" yaml:"input"`
	From  string `json:"from" yaml:"from"`
	To    string `json:"to" yaml:"to"`
	ISBN  string `json:"isbn" yaml:"isbn"`
}

func (r ConvertResult) WriteText(w io.Writer) error {
	_, err := fmt.Fprintln(w, r.ISBN)
	return err
}

var convertCmd = &cobra.Command{
	Use:   "convert <code>",
	Short: "Convert between ISBN-10 and ISBN-13",
	Long: `Convert a valid ISBN to its other form.

ISBN-10 always converts to a 978 ISBN-13. Only 978 ISBN-13s convert
back; a 979 code has no ISBN-10.

Examples:
  isbnscan convert 0-306-40615-2            # 9780306406157
  isbnscan convert 9780306406157 --to 10    # 0306406152`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code := isbn.Clean(args[0])
		from := isbn.KindOf(code)
		if from == isbn.KindNone {
			return fmt.Errorf("%w: %s", isbn.ErrInvalidISBN, args[0])
		}

		to := convertTo
		if to == "" {
			to = "13"
			if from == isbn.KindISBN13 {
				to = "10"
			}
		}

		var (
			out string
			err error
		)
		switch to {
		case "13":
			out, err = isbn.ToISBN13(code)
		case "10":
			out, err = isbn.ToISBN10(code)
		default:
			return fmt.Errorf("--to must be 10 or 13, got %q", to)
		}
		if err != nil {
			return err
		}

		return api.Output(ConvertResult{
			Input: args[0],
			From:  string(from),
			To:    "isbn" + to,
			ISBN:  out,
		})
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertTo, "to", "", "Target form: 10 or 13 (default: the other form)")

	rootCmd.AddCommand(convertCmd)
}
