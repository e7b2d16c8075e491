// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bookmeta-cli/internal/bootstrap"
	"bookmeta-cli/internal/classify"
	"bookmeta-cli/internal/pipeline"
)

var addCmd = &cobra.Command{
	Use:   "add <title, author or ISBN>",
	Short: "Catalog a single book",
	Long: `Resolve a free-form query against the configured metadata providers
and store the best match. The query can be an ISBN, a bare title, or a
title followed by the author.`,
	Args: cobra.MinimumNArgs(1),
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

		query := strings.Join(args, " ")
		book, err := a.pipeline.Ingest(ctx, query)
		if err != nil {
			if errors.Is(err, pipeline.ErrNoMatch) {
				fmt.Println(WarningStyle.Render("No match: ") + query)
				return &ExitError{Code: 1, Err: err}
			}
			return err
		}

		fmt.Println(SuccessStyle.Render("Cataloged: ") + book.Title)
		if book.Authors != "" {
			fmt.Println("  " + SubtitleStyle.Render("authors:  ") + book.Authors)
		}
		if book.ISBN != "" {
			fmt.Println("  " + SubtitleStyle.Render("isbn:     ") + book.ISBN)
		}
		if book.CLC != "" {
			fmt.Println("  " + SubtitleStyle.Render("clc:      ") + book.CLC + " " + classify.Label(book.CLC))
		}
		return nil
	},
}
