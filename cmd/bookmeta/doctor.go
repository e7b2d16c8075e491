// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bookmeta-cli/internal/classify"
	"bookmeta-cli/internal/config"
	"bookmeta-cli/internal/covers"
	"bookmeta-cli/internal/doctor"
	"bookmeta-cli/internal/pipeline"
	"bookmeta-cli/internal/provider"
	"bookmeta-cli/internal/store"
)

var (
	doctorFix bool

	doctorCmd = &cobra.Command{
		Use:   "doctor",
		Short: "Check installation and catalog health",
		Long: `Run health checks over the configuration, the data directories,
the required tools and the catalog database, and report anything that
needs attention. With --fix, safe repairs are applied: references to
missing cover files are cleared and books whose title was lost are
re-ingested by ISBN.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}

			logger := newLogger()

			// A broken database is itself a finding, not a reason to abort.
			var repo *store.Repository
			db, dbErr := store.Open(cfg.DBPath())
			if dbErr == nil {
				repo = store.NewRepository(db)
				defer store.Close(db) //nolint:errcheck // best-effort close
			} else {
				logger.Warn("could not open database", "error", dbErr)
			}

			d := doctor.New(cfg, repo, logger)
			if repo != nil && doctorFix {
				chain := provider.FromConfig(cfg, logger)
				coverStore := covers.NewStore(cfg.CoversDir(), provider.NewClient(cfg.HTTP))
				d = d.WithIngestor(pipeline.New(repo, chain, coverStore, &classify.Classifier{}, logger))
			}

			report, err := d.Run(ctx, doctorFix)
			if err != nil {
				return err
			}

			width := 0
			if w, _, sizeErr := term.GetSize(int(os.Stdout.Fd())); sizeErr == nil {
				width = w
			}
			fmt.Print(report.Render(width))

			if !report.Healthy() {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "apply safe repairs")
}
