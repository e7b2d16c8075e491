// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bookmeta-cli/internal/catalog"
)

var (
	listLimit int

	listCmd = &cobra.Command{
		Use:   "list [query]",
		Short: "Search the catalog",
		Long: `List books matching a query against title, authors and ISBN.
Without a query the most recently updated books are shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck // best-effort close on shutdown

			query := ""
			if len(args) > 0 {
				query = args[0]
			}

			books, err := a.repo.Search(ctx, query, listLimit)
			if err != nil {
				return err
			}

			if len(books) == 0 {
				fmt.Println(SubtitleStyle.Render("No books found."))
				return nil
			}

			for _, b := range books {
				printBookLine(b)
			}
			fmt.Println()
			fmt.Println(SubtitleStyle.Render(fmt.Sprintf("%d books", len(books))))
			return nil
		},
	}
)

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "maximum number of books to list")
}

func printBookLine(b *catalog.Book) {
	var meta []string
	if b.Authors != "" {
		meta = append(meta, b.Authors)
	}
	if b.Publisher != "" {
		meta = append(meta, b.Publisher)
	}
	if b.PubYear != 0 {
		meta = append(meta, fmt.Sprintf("%d", b.PubYear))
	}
	if b.ISBN != "" {
		meta = append(meta, b.ISBN)
	}

	line := CmdStyle.Render(fmt.Sprintf("#%-4d", b.ID)) + " " + TitleStyle.Render(b.Title)
	if b.CLC != "" {
		line += " " + SuccessStyle.Render("["+b.CLC+"]")
	}
	fmt.Println(line)
	if len(meta) > 0 {
		fmt.Println("      " + SubtitleStyle.Render(strings.Join(meta, " · ")))
	}
}
