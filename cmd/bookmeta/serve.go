// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"bookmeta-cli/internal/bootstrap"
	"bookmeta-cli/internal/server"
)

var (
	serveHost string
	servePort int

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI server only",
		Long: `Run the web UI server without the inbox watcher, the preflight
checks or the pre-launch hooks. Useful behind a process supervisor or
when the watcher runs separately via 'bookmeta watch'.`,
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

			if serveHost != "" {
				a.cfg.Server.Host = serveHost
			}
			if servePort != 0 {
				a.cfg.Server.Port = servePort
			}

			srv := server.New(a.cfg.Server, server.NewBookHandler(a.repo, a.pipeline, a.logger), a.cfg.CoversDir(), a.logger)
			return srv.Run(ctx)
		},
	}
)

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "bind address (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
}
