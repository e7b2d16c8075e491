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
)

func TestNewValidatesPatterns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid glob patterns",
			cfg:  Config{Patterns: []string{"*.csv", "**/*.txt"}},
		},
		{
			name:    "invalid watch pattern",
			cfg:     Config{Patterns: []string{"[unclosed"}},
			wantErr: true,
		},
		{
			name:    "invalid ignore pattern",
			cfg:     Config{Ignore: []string{"[unclosed"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := tt.cfg
			cfg.BaseDir = t.TempDir()
			cfg.Stderr = io.Discard

			w, err := New(cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if closeErr := w.fsw.Close(); closeErr != nil {
				t.Fatalf("close: %v", closeErr)
			}
		})
	}
}

func TestIsIgnored(t *testing.T) {
	t.Parallel()

	w, err := New(Config{
		BaseDir: t.TempDir(),
		Ignore:  []string{"**/archive/**"},
		Stderr:  io.Discard,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.fsw.Close() //nolint:errcheck

	tests := []struct {
		path string
		want bool
	}{
		{"book.csv", false},
		{"list.txt", false},
		{"download.csv.part", true},
		{"download.csv.crdownload", true},
		{"notes.txt.tmp", true},
		{".hidden", true},
		{".DS_Store", true},
		{"backup~", true},
		{"archive/old.csv", true},
	}

	for _, tt := range tests {
		if got := w.isIgnored(tt.path); got != tt.want {
			t.Errorf("isIgnored(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestMatchesPatterns(t *testing.T) {
	t.Parallel()

	w, err := New(Config{
		BaseDir:  t.TempDir(),
		Patterns: []string{"*.csv"},
		Stderr:   io.Discard,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.fsw.Close() //nolint:errcheck

	if !w.matchesPatterns("books.csv") {
		t.Error("books.csv should match *.csv")
	}
	if w.matchesPatterns("books.txt") {
		t.Error("books.txt should not match *.csv")
	}

	all, err := New(Config{BaseDir: t.TempDir(), Stderr: io.Discard})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer all.fsw.Close() //nolint:errcheck

	if !all.matchesPatterns("anything.pdf") {
		t.Error("empty pattern list should match everything")
	}
}

func TestRunFiresDebouncedCallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var (
		mu      sync.Mutex
		batches [][]string
	)
	gotChange := make(chan struct{}, 4)

	w, err := New(Config{
		BaseDir:  dir,
		Debounce: 50 * time.Millisecond,
		Stderr:   io.Discard,
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			batches = append(batches, changed)
			mu.Unlock()
			gotChange <- struct{}{}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the event loop a moment to start before writing.
	time.Sleep(50 * time.Millisecond)

	for _, name := range []string{"one.txt", "two.txt"} {
		if writeErr := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); writeErr != nil {
			t.Fatalf("write %s: %v", name, writeErr)
		}
	}

	select {
	case <-gotChange:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for debounced callback")
	}

	cancel()
	if runErr := <-done; runErr != nil {
		t.Fatalf("Run: %v", runErr)
	}

	mu.Lock()
	defer mu.Unlock()
	seen := map[string]bool{}
	for _, batch := range batches {
		for _, p := range batch {
			seen[p] = true
		}
	}
	if !seen["one.txt"] || !seen["two.txt"] {
		t.Errorf("expected both files in callbacks, got %v", batches)
	}
}

func TestRunIgnoresTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fired := make(chan []string, 4)

	w, err := New(Config{
		BaseDir:  dir,
		Debounce: 50 * time.Millisecond,
		Stderr:   io.Discard,
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)

	if writeErr := os.WriteFile(filepath.Join(dir, "partial.csv.part"), []byte("x"), 0o644); writeErr != nil {
		t.Fatalf("write: %v", writeErr)
	}

	select {
	case changed := <-fired:
		t.Fatalf("callback fired for ignored file: %v", changed)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	if runErr := <-done; runErr != nil {
		t.Fatalf("Run: %v", runErr)
	}
}

func TestRunRejectsSecondCall(t *testing.T) {
	t.Parallel()

	w, err := New(Config{BaseDir: t.TempDir(), Stderr: io.Discard})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	if secondErr := w.Run(ctx); secondErr == nil {
		t.Error("expected error from second Run call")
	}

	cancel()
	if runErr := <-done; runErr != nil {
		t.Fatalf("Run: %v", runErr)
	}
}

func TestDefaultIgnoresReturnsCopy(t *testing.T) {
	t.Parallel()

	a := DefaultIgnores()
	if len(a) == 0 {
		t.Fatal("expected non-empty defaults")
	}
	a[0] = "mutated"
	if b := DefaultIgnores(); b[0] == "mutated" {
		t.Error("DefaultIgnores must return a copy")
	}
}
