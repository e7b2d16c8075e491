// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bookmeta-cli/internal/bootstrap"
)

var (
	importFormat string

	importCmd = &cobra.Command{
		Use:   "import <file>",
		Short: "Batch-import books from a CSV or text file",
		Long: `Import a batch file. CSV files may use localized headers (书名,
作者, ISBN, 检索词 and their English equivalents) or carry one query per
row without a header; plain-text files hold one query per line. GBK
encoded files are decoded transparently. The format is taken from the
file extension unless --format overrides it; '-' reads queries from
stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck // best-effort close on shutdown

			if err := bootstrap.EnsureDataDirs(a.cfg); err != nil {
				return err
			}

			var (
				data []byte
				name string
			)
			if args[0] == "-" {
				if data, err = io.ReadAll(cmd.InOrStdin()); err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				name = "stdin.txt"
			} else {
				if data, err = os.ReadFile(args[0]); err != nil {
					return fmt.Errorf("read import file: %w", err)
				}
				name = filepath.Base(args[0])
			}
			switch importFormat {
			case "":
				// keep the file's own extension
			case "csv", "txt":
				name = "batch." + importFormat
			default:
				return fmt.Errorf("unsupported format %q (use csv or txt)", importFormat)
			}

			result, err := a.pipeline.ImportFile(ctx, name, data)
			if err != nil {
				return err
			}

			fmt.Println(SuccessStyle.Render(fmt.Sprintf("Imported %d of %d", result.OK, result.Total)))
			if result.Failed > 0 {
				fmt.Println(WarningStyle.Render(fmt.Sprintf("%d queries had no match:", result.Failed)))
				for _, q := range result.Failures {
					fmt.Println("  - " + q)
				}
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
)

func init() {
	importCmd.Flags().StringVar(&importFormat, "format", "", "force the input format: csv or txt")
}
