// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"bookmeta-cli/internal/catalog"
	"bookmeta-cli/internal/pipeline"
)

// Importer is the subset of the ingest pipeline the inbox watcher needs.
// *pipeline.Pipeline satisfies it.
type Importer interface {
	// Ingest resolves a free-form query (title, "title author" or ISBN)
	// against the metadata providers and stores the result.
	Ingest(ctx context.Context, query string) (*catalog.Book, error)

	// ImportFile parses a batch file (CSV or plain-text query list) and
	// ingests every row. The name is used to choose the parser by
	// extension.
	ImportFile(ctx context.Context, name string, data []byte) (*pipeline.ImportResult, error)
}

// InboxConfig holds the parameters for an inbox watcher.
type InboxConfig struct {
	// Dir is the inbox directory to monitor.
	Dir string

	// Debounce overrides the default settle period before dropped files
	// are processed.
	Debounce time.Duration

	// Importer receives the work. Batch files (.csv, .txt) are parsed and
	// imported row by row; any other file is treated as a lookup request
	// and its name without the extension is ingested as a query.
	Importer Importer

	// Logger reports per-file outcomes. nil falls back to log.Default().
	Logger *log.Logger
}

// NewInbox builds a Watcher over the inbox directory. Dropping a file named
// "围城 钱锺书著.txt" would import its contents as a query list, while
// "9787020024759.pdf" would trigger a lookup for that ISBN.
func NewInbox(cfg InboxConfig) (*Watcher, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	handle := func(ctx context.Context, changed []string) error {
		for _, rel := range changed {
			if err := ctx.Err(); err != nil {
				return err
			}
			processInboxFile(ctx, cfg, logger, rel)
		}
		return nil
	}

	return New(Config{
		BaseDir:  cfg.Dir,
		Debounce: cfg.Debounce,
		OnChange: handle,
	})
}

// processInboxFile routes a single changed file. Failures are logged rather
// than propagated: one bad drop must not stop the watcher.
func processInboxFile(ctx context.Context, cfg InboxConfig, logger *log.Logger, rel string) {
	abs := filepath.Join(cfg.Dir, rel)

	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		// Deleted before the debounce fired, or a directory event.
		return
	}

	base := filepath.Base(rel)
	ext := strings.ToLower(filepath.Ext(base))

	switch ext {
	case ".csv", ".txt":
		data, readErr := os.ReadFile(abs)
		if readErr != nil {
			logger.Warn("failed to read inbox file", "file", rel, "error", readErr)
			return
		}
		result, importErr := cfg.Importer.ImportFile(ctx, base, data)
		if importErr != nil {
			logger.Warn("inbox import failed", "file", rel, "error", importErr)
			return
		}
		logger.Info("imported inbox file", "file", rel, "ok", result.OK, "failed", result.Failed)
	default:
		query := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
		if query == "" {
			return
		}
		book, ingestErr := cfg.Importer.Ingest(ctx, query)
		if ingestErr != nil {
			logger.Warn("inbox lookup failed", "query", query, "error", ingestErr)
			return
		}
		logger.Info("ingested inbox file", "query", query, "title", book.Title)
	}
}
