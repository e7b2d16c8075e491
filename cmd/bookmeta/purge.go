// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	purgeYes bool

	purgeCmd = &cobra.Command{
		Use:   "purge",
		Short: "Delete every book from the catalog",
		Long: `Delete all books and their source records. Cover files stay on
disk; run 'bookmeta covers clean' afterwards to remove them. Pass --yes
to skip the confirmation prompt.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !purgeYes && !confirmPurge(cmd) {
				fmt.Println(WarningStyle.Render("Aborted."))
				return &ExitError{Code: 1}
			}

			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck // best-effort close on shutdown

			deleted, err := a.repo.Purge(ctx)
			if err != nil {
				return err
			}

			fmt.Println(SuccessStyle.Render(fmt.Sprintf("Deleted %d books.", deleted)))
			return nil
		},
	}
)

func init() {
	purgeCmd.Flags().BoolVar(&purgeYes, "yes", false, "skip the confirmation prompt")
}

// confirmPurge asks on the command's input stream and only accepts a literal
// "yes". EOF or anything else aborts.
func confirmPurge(cmd *cobra.Command) bool {
	fmt.Print(WarningStyle.Render("This deletes every book. Type 'yes' to confirm: "))
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.TrimSpace(line) == "yes"
}
