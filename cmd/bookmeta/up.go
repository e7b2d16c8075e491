// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"bookmeta-cli/internal/bootstrap"
	"bookmeta-cli/internal/config"
	"bookmeta-cli/internal/server"
	"bookmeta-cli/internal/watch"
	"bookmeta-cli/pkg/platform"
)

var (
	upNoBrowser bool

	upCmd = &cobra.Command{
		Use:   "up",
		Short: "Launch the web UI and the inbox watcher",
		Long: `Launch the full bookmeta stack: run the preflight tool checks,
create the data directories, load the .env file, run any configured
pre-launch hooks, then start the web UI server together with the inbox
watcher. With server.open_browser enabled the UI opens in the default
browser once the server is listening; --no-browser suppresses that.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}

			// Preflight gates everything after it: a missing tool must not
			// leave a freshly provisioned data directory or database behind.
			if err := bootstrap.CheckTools(cfg.Preflight.Tools); err != nil {
				return err
			}

			a, err := newAppFor(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck // best-effort close on shutdown

			if err := bootstrap.EnsureDataDirs(a.cfg); err != nil {
				return err
			}

			applied, err := bootstrap.LoadEnvFile(a.cfg.EnvFilePath())
			if err != nil {
				return err
			}
			for _, key := range applied {
				a.logger.Debug("applied env default", "key", key)
			}

			if err := bootstrap.RunHooks(ctx, a.cfg.Hooks.PreLaunch, a.cfg.DataDir, os.Stdout, os.Stderr, a.logger); err != nil {
				var hookErr *bootstrap.HookError
				if errors.As(err, &hookErr) {
					fmt.Fprintln(os.Stderr, ErrorStyle.Render("pre-launch hook failed: ")+hookErr.Hook)
					return &ExitError{Code: hookErr.ExitCode, Err: err}
				}
				return err
			}

			srv := server.New(a.cfg.Server, server.NewBookHandler(a.repo, a.pipeline, a.logger), a.cfg.CoversDir(), a.logger)

			inbox, err := watch.NewInbox(watch.InboxConfig{
				Dir:      a.cfg.InboxDir(),
				Importer: a.pipeline,
				Logger:   a.logger,
			})
			if err != nil {
				return err
			}

			if a.cfg.Server.OpenBrowser && !upNoBrowser {
				url := srv.URL()
				go func() {
					// Give the listener a moment before pointing a browser at it.
					time.Sleep(300 * time.Millisecond)
					if openErr := platform.OpenBrowser(url); openErr != nil {
						a.logger.Warn("could not open browser", "url", url, "error", openErr)
					}
				}()
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return srv.Run(gctx) })
			g.Go(func() error { return inbox.Run(gctx) })
			return g.Wait()
		},
	}
)

func init() {
	upCmd.Flags().BoolVar(&upNoBrowser, "no-browser", false, "do not open the web UI in a browser")
}
