// SPDX-License-Identifier: MPL-2.0

// Package doctor runs health checks over the configuration, the data
// directories, the external tool requirements and the catalog database,
// and renders the findings as a terminal report. With fix enabled it
// repairs what it safely can: clearing cover paths that point at missing
// files, and re-ingesting rows whose title was lost but whose ISBN is
// still known.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"bookmeta-cli/internal/catalog"
	"bookmeta-cli/internal/config"
	"bookmeta-cli/internal/covers"
	"bookmeta-cli/internal/store"
)

// Status classifies a single check outcome.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

type (
	// Check is one named finding in a report.
	Check struct {
		Name   string
		Status Status
		Detail string
	}

	// Report aggregates all checks from a doctor run.
	Report struct {
		Checks []Check
		// Fixed counts repairs applied when fix mode was on.
		Fixed int
	}

	// Doctor inspects a configuration and its catalog database.
	Doctor struct {
		cfg    *config.Config
		repo   *store.Repository
		ingest Ingestor
		logger *log.Logger
	}
)

// Ingestor re-resolves a book from a lookup query. Satisfied by the
// ingest pipeline; optional, only used by fix mode.
type Ingestor interface {
	Ingest(ctx context.Context, query string) (*catalog.Book, error)
}

// knownProviders are the site names the registry can construct.
var knownProviders = []string{"douban", "googlebooks", "openlibrary", "localjson"}

// New creates a Doctor. repo may be nil when the database could not be
// opened; the database checks then report the failure instead of running.
func New(cfg *config.Config, repo *store.Repository, logger *log.Logger) *Doctor {
	if logger == nil {
		logger = log.Default()
	}
	return &Doctor{cfg: cfg, repo: repo, logger: logger}
}

// WithIngestor enables title repair in fix mode.
func (d *Doctor) WithIngestor(i Ingestor) *Doctor {
	d.ingest = i
	return d
}

// Healthy reports whether the report contains no failures.
func (r *Report) Healthy() bool {
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			return false
		}
	}
	return true
}

func (r *Report) add(name string, status Status, format string, args ...any) {
	r.Checks = append(r.Checks, Check{
		Name:   name,
		Status: status,
		Detail: fmt.Sprintf(format, args...),
	})
}

// Run executes all checks. With fix enabled it also clears references to
// missing cover files and, when an Ingestor is set, re-ingests books that
// lost their title.
func (d *Doctor) Run(ctx context.Context, fix bool) (*Report, error) {
	report := &Report{}

	d.checkConfig(report)
	d.checkDirs(report)
	d.checkTools(report)

	if d.repo == nil {
		report.add("database", StatusFail, "database is not available")
		return report, nil
	}

	if err := d.checkDatabase(ctx, report); err != nil {
		return nil, err
	}
	if err := d.checkRecords(ctx, report, fix); err != nil {
		return nil, err
	}

	return report, nil
}

func (d *Doctor) checkConfig(report *Report) {
	if len(d.cfg.Providers) == 0 {
		report.add("providers", StatusFail, "no metadata providers configured")
	} else {
		var unknown []string
		for _, name := range d.cfg.Providers {
			if !slices.Contains(knownProviders, name) {
				unknown = append(unknown, name)
			}
		}
		if len(unknown) > 0 {
			report.add("providers", StatusWarn, "unknown providers will be skipped: %s", strings.Join(unknown, ", "))
		} else {
			report.add("providers", StatusOK, "%s", strings.Join(d.cfg.Providers, " > "))
		}
	}

	if d.cfg.HTTP.TimeoutSeconds <= 0 || d.cfg.HTTP.FastTimeoutSeconds <= 0 {
		report.add("http timeouts", StatusFail, "timeouts must be positive (timeout=%ds fast=%ds)",
			d.cfg.HTTP.TimeoutSeconds, d.cfg.HTTP.FastTimeoutSeconds)
	} else {
		report.add("http timeouts", StatusOK, "timeout=%ds fast=%ds",
			d.cfg.HTTP.TimeoutSeconds, d.cfg.HTTP.FastTimeoutSeconds)
	}

	if d.cfg.Server.Port < 1 || d.cfg.Server.Port > 65535 {
		report.add("server port", StatusFail, "port %d out of range", d.cfg.Server.Port)
	} else {
		report.add("server port", StatusOK, "%s:%d", d.cfg.Server.Host, d.cfg.Server.Port)
	}

	if d.cfg.Classify.LLMEnabled {
		if _, set := os.LookupEnv("GEMINI_API_KEY"); set {
			report.add("llm classifier", StatusOK, "enabled, model %s", d.cfg.Classify.LLMModel)
		} else {
			report.add("llm classifier", StatusWarn, "enabled but GEMINI_API_KEY is not set; rule-based fallback only")
		}
	} else {
		report.add("llm classifier", StatusOK, "disabled")
	}
}

func (d *Doctor) checkDirs(report *Report) {
	dirs := map[string]string{
		"data dir":   d.cfg.DataDir,
		"covers dir": d.cfg.CoversDir(),
		"inbox dir":  d.cfg.InboxDir(),
	}
	for name, path := range dirs {
		info, err := os.Stat(path)
		switch {
		case os.IsNotExist(err):
			report.add(name, StatusWarn, "%s does not exist (created on 'bookmeta up')", path)
		case err != nil:
			report.add(name, StatusFail, "%s: %v", path, err)
		case !info.IsDir():
			report.add(name, StatusFail, "%s exists but is not a directory", path)
		default:
			report.add(name, StatusOK, "%s", path)
		}
	}

	envPath := d.cfg.EnvFilePath()
	if _, err := os.Stat(envPath); err == nil {
		report.add("env file", StatusOK, "%s (applied on launch)", envPath)
	} else {
		report.add("env file", StatusOK, "%s not present (optional)", envPath)
	}
}

func (d *Doctor) checkTools(report *Report) {
	if len(d.cfg.Preflight.Tools) == 0 {
		report.add("required tools", StatusOK, "none configured")
		return
	}

	var missing []string
	for _, tool := range d.cfg.Preflight.Tools {
		if _, err := exec.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		report.add("required tools", StatusFail, "not found in PATH: %s", strings.Join(missing, ", "))
		return
	}
	report.add("required tools", StatusOK, "%s", strings.Join(d.cfg.Preflight.Tools, ", "))
}

func (d *Doctor) checkDatabase(ctx context.Context, report *Report) error {
	migrator := d.repo.DB().WithContext(ctx).Migrator()
	for _, table := range []string{"books", "sources"} {
		if !migrator.HasTable(table) {
			report.add("database schema", StatusFail, "table %q is missing", table)
			return nil
		}
	}
	if !migrator.HasColumn(&store.BookModel{}, "isbn") {
		report.add("database schema", StatusFail, "books table has no isbn column")
		return nil
	}
	if !migrator.HasIndex(&store.BookModel{}, "ISBN") {
		report.add("database schema", StatusWarn, "isbn unique index is missing; duplicate detection degrades")
	}

	count, err := d.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count books: %w", err)
	}
	report.add("database schema", StatusOK, "%d books cataloged", count)
	return nil
}

// checkRecords scans for suspicious rows: lost titles, implausible years,
// malformed ISBNs, missing classification and cover paths pointing at
// deleted files.
func (d *Doctor) checkRecords(ctx context.Context, report *Report, fix bool) error {
	books, err := d.repo.Search(ctx, "", 0)
	if err != nil {
		return fmt.Errorf("scan records: %w", err)
	}

	var (
		lostTitles int
		reingested int
		badYears   int
		badISBNs   int
		missingCLC int
		lostCovers int
	)
	maxYear := time.Now().Year() + 1
	coverStore := covers.NewStore(d.cfg.CoversDir(), nil)

	for _, b := range books {
		if b.ISBN != "" && utf8.RuneCountInString(strings.TrimSpace(b.Title)) < 2 {
			lostTitles++
			if fix && d.ingest != nil {
				if _, ingErr := d.ingest.Ingest(ctx, b.ISBN); ingErr != nil {
					d.logger.Warn("could not re-ingest book", "id", b.ID, "isbn", b.ISBN, "error", ingErr)
				} else {
					reingested++
					report.Fixed++
				}
			}
		}
		if b.PubYear != 0 && (b.PubYear < 1800 || b.PubYear > maxYear) {
			badYears++
		}
		if n := len(catalog.NormalizeISBN(b.ISBN)); b.ISBN != "" && n != 10 && n != 13 {
			badISBNs++
		}
		if b.CLC == "" {
			missingCLC++
		}
		if b.CoverPath != "" {
			if _, statErr := os.Stat(coverStore.Resolve(b.CoverPath)); os.IsNotExist(statErr) {
				lostCovers++
				if fix {
					// Targeted column update: the row may not pass full
					// validation (a lost title, for one) and must still heal.
					if clearErr := d.repo.ClearCoverPath(ctx, b.ID); clearErr != nil {
						return clearErr
					}
					report.Fixed++
				}
			}
		}
	}

	switch {
	case lostTitles > 0 && reingested == lostTitles:
		report.add("titles", StatusOK, "re-ingested %d books with lost titles", reingested)
	case lostTitles > 0 && fix && d.ingest != nil:
		report.add("titles", StatusWarn, "re-ingested %d of %d books with lost titles", reingested, lostTitles)
	case lostTitles > 0:
		report.add("titles", StatusWarn, "%d books have an ISBN but no usable title (run with --fix)", lostTitles)
	default:
		report.add("titles", StatusOK, "all books titled")
	}

	if badYears > 0 {
		report.add("publication years", StatusWarn, "%d books with implausible years", badYears)
	} else {
		report.add("publication years", StatusOK, "all plausible")
	}

	if badISBNs > 0 {
		report.add("isbn format", StatusWarn, "%d books with malformed ISBNs", badISBNs)
	} else {
		report.add("isbn format", StatusOK, "all well-formed")
	}

	if missingCLC > 0 {
		report.add("classification", StatusWarn, "%d books without a CLC code (run 'bookmeta backfill')", missingCLC)
	} else {
		report.add("classification", StatusOK, "all books classified")
	}

	switch {
	case lostCovers > 0 && fix:
		report.add("cover files", StatusOK, "cleared %d references to missing cover files", lostCovers)
	case lostCovers > 0:
		report.add("cover files", StatusWarn, "%d books reference missing cover files (run with --fix)", lostCovers)
	default:
		report.add("cover files", StatusOK, "all cover files present")
	}

	return nil
}
