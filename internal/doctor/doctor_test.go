// SPDX-License-Identifier: MPL-2.0

package doctor

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"bookmeta-cli/internal/catalog"
	"bookmeta-cli/internal/config"
	"bookmeta-cli/internal/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	return cfg
}

func newTestDoctor(t *testing.T, cfg *config.Config) (*Doctor, *store.Repository) {
	t.Helper()

	db, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(db) })

	repo := store.NewRepository(db)
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return New(cfg, repo, logger), repo
}

func findCheck(t *testing.T, report *Report, name string) Check {
	t.Helper()
	for _, c := range report.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q not found in %+v", name, report.Checks)
	return Check{}
}

func TestRunHealthyConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Classify.LLMEnabled = false
	require.NoError(t, os.MkdirAll(cfg.CoversDir(), 0o755))
	require.NoError(t, os.MkdirAll(cfg.InboxDir(), 0o755))

	d, _ := newTestDoctor(t, cfg)
	report, err := d.Run(context.Background(), false)
	require.NoError(t, err)

	require.True(t, report.Healthy())
	require.Equal(t, StatusOK, findCheck(t, report, "providers").Status)
	require.Equal(t, StatusOK, findCheck(t, report, "database schema").Status)
}

func TestRunFlagsBadConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Providers = []string{"douban", "notasite"}
	cfg.HTTP.TimeoutSeconds = 0
	cfg.Server.Port = 99999
	cfg.Preflight.Tools = []string{"definitely-not-a-real-tool-xyz"}

	d, _ := newTestDoctor(t, cfg)
	report, err := d.Run(context.Background(), false)
	require.NoError(t, err)

	require.False(t, report.Healthy())
	require.Equal(t, StatusWarn, findCheck(t, report, "providers").Status)
	require.Equal(t, StatusFail, findCheck(t, report, "http timeouts").Status)
	require.Equal(t, StatusFail, findCheck(t, report, "server port").Status)
	require.Equal(t, StatusFail, findCheck(t, report, "required tools").Status)
}

func TestRunFlagsSuspiciousRecords(t *testing.T) {
	cfg := testConfig(t)
	d, repo := newTestDoctor(t, cfg)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, &catalog.Detail{Title: "坏年份", PubYear: 1234, ISBN: "9787020024759"})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, &catalog.Detail{Title: "坏书号", ISBN: "12345678901"})
	require.NoError(t, err)

	report, err := d.Run(ctx, false)
	require.NoError(t, err)

	require.Equal(t, StatusWarn, findCheck(t, report, "publication years").Status)
	require.Equal(t, StatusWarn, findCheck(t, report, "isbn format").Status)
	require.Equal(t, StatusWarn, findCheck(t, report, "classification").Status)
}

func TestRunFixClearsLostCovers(t *testing.T) {
	cfg := testConfig(t)
	d, repo := newTestDoctor(t, cfg)
	ctx := context.Background()

	book, err := repo.Upsert(ctx, &catalog.Detail{Title: "围城", ISBN: "9787020024759"})
	require.NoError(t, err)
	require.NoError(t, repo.SetCoverPath(ctx, book.ID, filepath.Join("covers", "gone.jpg")))

	report, err := d.Run(ctx, false)
	require.NoError(t, err)
	require.Equal(t, StatusWarn, findCheck(t, report, "cover files").Status)
	require.Zero(t, report.Fixed)

	report, err = d.Run(ctx, true)
	require.NoError(t, err)
	require.Equal(t, 1, report.Fixed)

	got, err := repo.GetByID(ctx, book.ID)
	require.NoError(t, err)
	require.Empty(t, got.CoverPath)
}

func TestRunFixClearsCoverOnTitlelessRow(t *testing.T) {
	cfg := testConfig(t)
	d, repo := newTestDoctor(t, cfg)
	ctx := context.Background()

	book, err := repo.Upsert(ctx, &catalog.Detail{ISBN: "9787020024759"})
	require.NoError(t, err)
	require.NoError(t, repo.SetCoverPath(ctx, book.ID, filepath.Join("covers", "gone.jpg")))

	report, err := d.Run(ctx, true)
	require.NoError(t, err)
	require.Equal(t, 1, report.Fixed)

	got, err := repo.GetByID(ctx, book.ID)
	require.NoError(t, err)
	require.Empty(t, got.CoverPath)
}

type fakeIngestor struct {
	repo    *store.Repository
	queries []string
}

func (f *fakeIngestor) Ingest(ctx context.Context, query string) (*catalog.Book, error) {
	f.queries = append(f.queries, query)
	return f.repo.Upsert(ctx, &catalog.Detail{Title: "补全的书名", ISBN: query})
}

func TestRunFixReingestsLostTitles(t *testing.T) {
	cfg := testConfig(t)
	d, repo := newTestDoctor(t, cfg)
	ctx := context.Background()

	book, err := repo.Upsert(ctx, &catalog.Detail{ISBN: "9787020024759"})
	require.NoError(t, err)

	report, err := d.Run(ctx, false)
	require.NoError(t, err)
	require.Equal(t, StatusWarn, findCheck(t, report, "titles").Status)
	require.Zero(t, report.Fixed)

	ing := &fakeIngestor{repo: repo}
	report, err = d.WithIngestor(ing).Run(ctx, true)
	require.NoError(t, err)
	require.Equal(t, 1, report.Fixed)
	require.Equal(t, []string{"9787020024759"}, ing.queries)

	got, err := repo.GetByID(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, "补全的书名", got.Title)
}

func TestRunReportsEnvFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.DataDir = filepath.Join(cfg.DataDir, "data")
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0o755))
	require.NoError(t, os.WriteFile(cfg.EnvFilePath(), []byte("GEMINI_API_KEY=x\n"), 0o600))

	d, _ := newTestDoctor(t, cfg)
	report, err := d.Run(context.Background(), false)
	require.NoError(t, err)

	check := findCheck(t, report, "env file")
	require.Equal(t, StatusOK, check.Status)
	require.Contains(t, check.Detail, "applied on launch")
}

func TestReportMarkdown(t *testing.T) {
	t.Parallel()

	report := &Report{}
	report.add("providers", StatusOK, "douban")
	report.add("database schema", StatusFail, "table missing")

	md := report.Markdown()
	require.True(t, strings.Contains(md, "✓ **providers**"))
	require.True(t, strings.Contains(md, "✗ **database schema**"))
	require.True(t, strings.Contains(md, "Some checks failed"))

	report = &Report{Fixed: 2}
	report.add("cover files", StatusOK, "cleared")
	md = report.Markdown()
	require.True(t, strings.Contains(md, "Applied 2 fixes"))
	require.True(t, strings.Contains(md, "All checks passed"))
}
