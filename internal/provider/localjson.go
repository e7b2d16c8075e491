// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sahilm/fuzzy"

	"bookmeta-cli/internal/catalog"
	"bookmeta-cli/internal/nlp"
)

// LocalJSON serves lookups from an offline catalog file, a JSON array of
// book records. It is the only provider that works without network access.
type LocalJSON struct {
	path string
}

// NewLocalJSON returns a provider reading the offline catalog at path. The
// file is re-read on every lookup so edits take effect immediately.
func NewLocalJSON(path string) *LocalJSON {
	return &LocalJSON{path: path}
}

func (l *LocalJSON) Site() string { return "localjson" }

// OfflineItem is one record of the offline catalog file. The export command
// writes the same shape, so an exported catalog can serve as a lookup source.
type OfflineItem struct {
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Publisher string   `json:"publisher"`
	PubYear   int      `json:"pub_year"`
	ISBN      string   `json:"isbn"`
	Edition   string   `json:"edition"`
	Pages     int      `json:"pages"`
	Summary   string   `json:"summary"`
	AuthorBio string   `json:"author_bio"`
	Language  string   `json:"language"`
	CoverURL  string   `json:"cover_url"`
	CIP       string   `json:"cip"`
}

// OfflineItemFromBook converts a stored book into an offline catalog record.
func OfflineItemFromBook(b *catalog.Book) OfflineItem {
	return OfflineItem{
		Title:     b.Title,
		Authors:   b.AuthorList(),
		Publisher: b.Publisher,
		PubYear:   b.PubYear,
		ISBN:      b.ISBN,
		Edition:   b.Edition,
		Pages:     b.Pages,
		Summary:   b.Summary,
		AuthorBio: b.AuthorBio,
		Language:  b.Language,
		CIP:       b.CIP,
	}
}

func (l *LocalJSON) load() ([]OfflineItem, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read offline catalog %s: %w", l.path, err)
	}
	var items []OfflineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse offline catalog %s: %w", l.path, err)
	}
	return items, nil
}

func (l *LocalJSON) Search(ctx context.Context, query string) ([]catalog.SearchResult, error) {
	items, err := l.load()
	if err != nil {
		return nil, err
	}
	hit := bestMatch(query, items)
	if hit == nil {
		return nil, nil
	}

	key := hit.ISBN
	if key == "" {
		key = hit.Title
	}
	return []catalog.SearchResult{{
		Title:   hit.Title,
		Authors: hit.Authors,
		URL:     "local://" + key,
		ISBN:    hit.ISBN,
	}}, nil
}

func (l *LocalJSON) GetByISBN(ctx context.Context, isbn string) (*catalog.Detail, error) {
	items, err := l.load()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if catalog.SameISBN(items[i].ISBN, isbn) {
			return items[i].toDetail(), nil
		}
	}
	return nil, ErrNotFound
}

func (l *LocalJSON) GetDetail(ctx context.Context, url string) (*catalog.Detail, error) {
	key := strings.TrimPrefix(url, "local://")
	items, err := l.load()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ISBN == key || items[i].Title == key {
			return items[i].toDetail(), nil
		}
	}
	return nil, ErrNotFound
}

func (it *OfflineItem) toDetail() *catalog.Detail {
	lang := it.Language
	if lang == "" {
		lang = "中文"
	}
	return &catalog.Detail{
		Title:     it.Title,
		Authors:   it.Authors,
		Publisher: it.Publisher,
		PubYear:   it.PubYear,
		ISBN:      it.ISBN,
		Edition:   it.Edition,
		Pages:     it.Pages,
		Summary:   it.Summary,
		AuthorBio: it.AuthorBio,
		Language:  lang,
		CoverURL:  it.CoverURL,
		CIP:       it.CIP,
	}
}

// bestMatch tries an exact normalized-title match first, then a fuzzy match
// over all titles. A fuzzy hit has to cover the full query to count.
func bestMatch(query string, items []OfflineItem) *OfflineItem {
	if len(items) == 0 {
		return nil
	}

	qn := normalizeTitle(query)
	for i := range items {
		if normalizeTitle(items[i].Title) == qn {
			return &items[i]
		}
	}

	titles := make([]string, len(items))
	for i := range items {
		titles[i] = normalizeTitle(items[i].Title)
	}
	matches := fuzzy.Find(qn, titles)
	if len(matches) == 0 {
		return nil
	}
	return &items[matches[0].Index]
}

func normalizeTitle(s string) string {
	return strings.ToLower(nlp.CleanLine(strings.TrimSpace(s)))
}
