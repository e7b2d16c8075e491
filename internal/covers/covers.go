// SPDX-License-Identifier: MPL-2.0

// Package covers downloads and manages book cover images under the data
// directory. Covers are stored as "covers/<sha1-of-url>.jpg" and the
// database keeps the relative path, so the data directory can move.
package covers

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"bookmeta-cli/internal/provider"
)

// Store manages the covers directory and downloads through the shared
// provider client so the same User-Agent and timeouts apply.
type Store struct {
	dir    string
	client *provider.Client
}

// NewStore returns a cover store rooted at dir (usually "<data>/covers").
func NewStore(dir string, client *provider.Client) *Store {
	return &Store{dir: dir, client: client}
}

// Fetch downloads a cover and returns its relative path "covers/<name>.jpg".
// An empty URL or a failed download returns an empty path without error;
// covers are decoration, not data.
func (s *Store) Fetch(ctx context.Context, url string) string {
	if url == "" {
		return ""
	}

	name := FileName(url)
	abs := filepath.Join(s.dir, name)
	if _, err := os.Stat(abs); err == nil {
		return relPath(name)
	}

	body, _, err := s.client.Get(ctx, url, nil)
	if err != nil {
		return ""
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return ""
	}
	if err := os.WriteFile(abs, body, 0o644); err != nil {
		return ""
	}
	return relPath(name)
}

// Resolve turns a stored cover path into an absolute one. Stored paths are
// normally "covers/<name>.jpg" relative to the data directory, but older
// rows may hold bare file names, renamed extensions or absolute paths, so
// resolution falls back to a basename lookup and a stem-prefix glob before
// giving up.
func (s *Store) Resolve(stored string) string {
	if stored == "" {
		return ""
	}

	if filepath.IsAbs(stored) {
		if _, err := os.Stat(stored); err == nil {
			return stored
		}
		stored = filepath.Base(stored)
	}

	abs := filepath.Join(filepath.Dir(s.dir), filepath.FromSlash(stored))
	if _, err := os.Stat(abs); err == nil {
		return abs
	}

	base := filepath.Base(filepath.FromSlash(stored))
	if byName := filepath.Join(s.dir, base); byName != abs {
		if _, err := os.Stat(byName); err == nil {
			return byName
		}
	}

	stem := base[:len(base)-len(filepath.Ext(base))]
	if stem != "" {
		if matches, err := filepath.Glob(filepath.Join(s.dir, stem+".*")); err == nil && len(matches) > 0 {
			return matches[0]
		}
	}

	return abs
}

// CleanOrphans deletes cover files no book references and reports how many
// were removed. used holds the relative paths stored in the database.
func (s *Store) CleanOrphans(used []string) (int, error) {
	keep := make(map[string]bool, len(used))
	for _, rel := range used {
		if rel != "" {
			keep[filepath.Base(filepath.FromSlash(rel))] = true
		}
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read covers directory: %w", err)
	}

	deleted := 0
	for _, e := range entries {
		if e.IsDir() || keep[e.Name()] {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			return deleted, fmt.Errorf("remove orphan cover %s: %w", e.Name(), err)
		}
		deleted++
	}
	return deleted, nil
}

// FileName derives the stable cover file name for a URL.
func FileName(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:]) + ".jpg"
}

func relPath(name string) string {
	return "covers/" + name
}
