// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"os"

	"bookmeta-cli/internal/config"
	"bookmeta-cli/internal/issue"
)

// EnsureDataDirs creates the data directory tree: the data root, the covers
// directory and the inbox watched for drop-in import files. Existing
// directories are left untouched.
func EnsureDataDirs(cfg *config.Config) error {
	for _, dir := range []string{cfg.DataDir, cfg.CoversDir(), cfg.InboxDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return issue.NewErrorContext().
				WithOperation("create data directory").
				WithResource(dir).
				WithSuggestion("check permissions on the parent directory, or point data_dir at a writable location").
				Wrap(err).
				Build()
		}
	}
	return nil
}
