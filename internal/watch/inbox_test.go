// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"bookmeta-cli/internal/catalog"
	"bookmeta-cli/internal/pipeline"
)

type fakeImporter struct {
	mu      sync.Mutex
	queries []string
	files   map[string]string
}

func (f *fakeImporter) Ingest(_ context.Context, query string) (*catalog.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return &catalog.Book{Title: query}, nil
}

func (f *fakeImporter) ImportFile(_ context.Context, name string, data []byte) (*pipeline.ImportResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.files == nil {
		f.files = map[string]string{}
	}
	f.files[name] = string(data)
	return &pipeline.ImportResult{Total: 1, OK: 1}, nil
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestProcessInboxFileRoutesBatchFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	imp := &fakeImporter{}
	cfg := InboxConfig{Dir: dir, Importer: imp}

	if err := os.WriteFile(filepath.Join(dir, "list.csv"), []byte("title\n围城\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	processInboxFile(context.Background(), cfg, quietLogger(), "list.csv")

	if got := imp.files["list.csv"]; got != "title\n围城\n" {
		t.Errorf("ImportFile content = %q", got)
	}
	if len(imp.queries) != 0 {
		t.Errorf("unexpected Ingest calls: %v", imp.queries)
	}
}

func TestProcessInboxFileIngestsFileStem(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	imp := &fakeImporter{}
	cfg := InboxConfig{Dir: dir, Importer: imp}

	name := "围城 钱锺书著.pdf"
	if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	processInboxFile(context.Background(), cfg, quietLogger(), name)

	if len(imp.queries) != 1 || imp.queries[0] != "围城 钱锺书著" {
		t.Errorf("queries = %v, want [围城 钱锺书著]", imp.queries)
	}
}

func TestProcessInboxFileSkipsVanishedAndDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	imp := &fakeImporter{}
	cfg := InboxConfig{Dir: dir, Importer: imp}

	if err := os.Mkdir(filepath.Join(dir, "subdir"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	processInboxFile(context.Background(), cfg, quietLogger(), "gone.txt")
	processInboxFile(context.Background(), cfg, quietLogger(), "subdir")

	if len(imp.queries) != 0 || len(imp.files) != 0 {
		t.Errorf("expected no importer calls, got queries=%v files=%v", imp.queries, imp.files)
	}
}

func TestNewInboxProcessesDroppedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	imp := &fakeImporter{}

	w, err := NewInbox(InboxConfig{
		Dir:      dir,
		Debounce: 50 * time.Millisecond,
		Importer: imp,
		Logger:   quietLogger(),
	})
	if err != nil {
		t.Fatalf("NewInbox: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)

	if writeErr := os.WriteFile(filepath.Join(dir, "9787020024759.epub"), []byte("x"), 0o644); writeErr != nil {
		t.Fatalf("write: %v", writeErr)
	}

	deadline := time.After(5 * time.Second)
	for {
		imp.mu.Lock()
		n := len(imp.queries)
		imp.mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for inbox ingest")
		case <-time.After(20 * time.Millisecond):
		}
	}

	cancel()
	if runErr := <-done; runErr != nil {
		t.Fatalf("Run: %v", runErr)
	}

	imp.mu.Lock()
	defer imp.mu.Unlock()
	if imp.queries[0] != "9787020024759" {
		t.Errorf("query = %q, want 9787020024759", imp.queries[0])
	}
}
