// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var coversCmd = &cobra.Command{
	Use:   "covers",
	Short: "Manage the cover image cache",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var coversCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete cover files no book references",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck // best-effort close on shutdown

		used, err := a.repo.ListCoverPaths(ctx)
		if err != nil {
			return err
		}

		deleted, err := a.covers.CleanOrphans(used)
		if err != nil {
			return err
		}

		if deleted == 0 {
			fmt.Println(SubtitleStyle.Render("No orphaned covers."))
			return nil
		}
		fmt.Println(SuccessStyle.Render(fmt.Sprintf("Deleted %d orphaned cover files.", deleted)))
		return nil
	},
}

func init() {
	coversCmd.AddCommand(coversCleanCmd)
}
