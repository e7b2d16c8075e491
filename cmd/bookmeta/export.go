// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"bookmeta-cli/internal/catalog"
	"bookmeta-cli/internal/provider"
)

var (
	exportFormat string

	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Export the catalog to stdout",
		Long: `Export every book as CSV or JSON on stdout. CSV suits
spreadsheets; JSON uses the offline catalog format, so the output can be
saved and used as a localjson lookup source.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck // best-effort close on shutdown

			books, err := a.repo.Search(ctx, "", 0)
			if err != nil {
				return err
			}

			switch exportFormat {
			case "json":
				return exportJSON(books)
			case "csv":
				return exportCSV(books)
			default:
				return fmt.Errorf("unsupported format %q (use csv or json)", exportFormat)
			}
		},
	}
)

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or json")
}

// exportJSON writes the books in the offline catalog format, so the output
// file can be pointed at by the localjson provider directly.
func exportJSON(books []*catalog.Book) error {
	items := make([]provider.OfflineItem, 0, len(books))
	for _, b := range books {
		items = append(items, provider.OfflineItemFromBook(b))
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func exportCSV(books []*catalog.Book) error {
	w := csv.NewWriter(os.Stdout)
	header := []string{"title", "authors", "publisher", "pub_year", "isbn", "pages", "clc", "language", "summary"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, b := range books {
		row := []string{
			b.Title,
			b.Authors,
			b.Publisher,
			zeroBlank(b.PubYear),
			b.ISBN,
			zeroBlank(b.Pages),
			b.CLC,
			b.Language,
			b.Summary,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func zeroBlank(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
