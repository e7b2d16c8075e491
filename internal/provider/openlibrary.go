// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"

	"bookmeta-cli/internal/catalog"
)

const openLibraryBase = "https://openlibrary.org"

var olYearRe = regexp.MustCompile(`(19|20)\d{2}`)

// OpenLibrary queries the Open Library JSON API. It supports title search
// and ISBN lookup; there is no separate detail page to parse.
type OpenLibrary struct {
	client *Client
	base   string
}

// NewOpenLibrary returns an Open Library provider on the shared client.
func NewOpenLibrary(client *Client) *OpenLibrary {
	return &OpenLibrary{client: client, base: openLibraryBase}
}

func (o *OpenLibrary) Site() string { return "openlibrary" }

func (o *OpenLibrary) Search(ctx context.Context, query string) ([]catalog.SearchResult, error) {
	u := fmt.Sprintf("%s/search.json?title=%s", o.base, url.QueryEscape(query))
	body, _, err := o.client.GetFast(ctx, u, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Docs []struct {
			Key        string   `json:"key"`
			Title      string   `json:"title"`
			AuthorName []string `json:"author_name"`
			ISBN       []string `json:"isbn"`
		} `json:"docs"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode openlibrary search: %w", err)
	}

	docs := resp.Docs
	if len(docs) > 5 {
		docs = docs[:5]
	}
	out := make([]catalog.SearchResult, 0, len(docs))
	for _, d := range docs {
		isbn := ""
		if len(d.ISBN) > 0 {
			isbn = d.ISBN[0]
		}
		out = append(out, catalog.SearchResult{
			Title:   d.Title,
			Authors: d.AuthorName,
			URL:     o.base + d.Key,
			ISBN:    isbn,
		})
	}
	return out, nil
}

func (o *OpenLibrary) GetByISBN(ctx context.Context, isbn string) (*catalog.Detail, error) {
	u := fmt.Sprintf("%s/isbn/%s.json", o.base, url.PathEscape(isbn))
	body, finalURL, err := o.client.Get(ctx, u, nil)
	if err != nil {
		return nil, err
	}

	var d struct {
		Title         string   `json:"title"`
		NumberOfPages int      `json:"number_of_pages"`
		Covers        []int    `json:"covers"`
		Publishers    []string `json:"publishers"`
		PublishDate   string   `json:"publish_date"`
	}
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, fmt.Errorf("decode openlibrary edition: %w", err)
	}

	detail := &catalog.Detail{
		Title:     d.Title,
		Pages:     d.NumberOfPages,
		ISBN:      isbn,
		SourceURL: finalURL,
	}
	if len(d.Publishers) > 0 {
		detail.Publisher = d.Publishers[0]
	}
	if m := olYearRe.FindString(d.PublishDate); m != "" {
		if y, err := strconv.Atoi(m); err == nil {
			detail.PubYear = y
		}
	}
	if len(d.Covers) > 0 {
		detail.CoverURL = fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-L.jpg", d.Covers[0])
	}
	return detail, nil
}

func (o *OpenLibrary) GetDetail(ctx context.Context, url string) (*catalog.Detail, error) {
	return nil, ErrNotSupported
}
