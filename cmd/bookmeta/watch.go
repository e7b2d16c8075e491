// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookmeta-cli/internal/bootstrap"
	"bookmeta-cli/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the inbox directory for dropped-in files",
	Long: `Watch the inbox directory and catalog whatever lands in it.
CSV and text files are batch-imported; any other file is looked up by
its name without the extension, so dropping "9787020024759.pdf" or
"围城 钱锺书.epub" catalogs that book.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck // best-effort close on shutdown

		if err := bootstrap.EnsureDataDirs(a.cfg); err != nil {
			return err
		}

		inbox, err := watch.NewInbox(watch.InboxConfig{
			Dir:      a.cfg.InboxDir(),
			Importer: a.pipeline,
			Logger:   a.logger,
		})
		if err != nil {
			return err
		}

		fmt.Println(SubtitleStyle.Render("Watching ") + CmdStyle.Render(a.cfg.InboxDir()) + SubtitleStyle.Render("  (Ctrl+C to stop)"))
		return inbox.Run(ctx)
	},
}
