// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"bookmeta-cli/internal/catalog"
)

const googleBooksAPI = "https://www.googleapis.com/books/v1/volumes"

// GoogleBooks queries the Google Books volumes API.
type GoogleBooks struct {
	client *Client
	// base is overridable for tests.
	base string
}

// NewGoogleBooks returns a Google Books provider on the shared client.
func NewGoogleBooks(client *Client) *GoogleBooks {
	return &GoogleBooks{client: client, base: googleBooksAPI}
}

func (g *GoogleBooks) Site() string { return "googlebooks" }

type gbVolume struct {
	SelfLink   string `json:"selfLink"`
	VolumeInfo struct {
		Title               string   `json:"title"`
		Authors             []string `json:"authors"`
		Publisher           string   `json:"publisher"`
		PublishedDate       string   `json:"publishedDate"`
		Description         string   `json:"description"`
		PageCount           int      `json:"pageCount"`
		Language            string   `json:"language"`
		IndustryIdentifiers []struct {
			Type       string `json:"type"`
			Identifier string `json:"identifier"`
		} `json:"industryIdentifiers"`
		ImageLinks struct {
			Thumbnail      string `json:"thumbnail"`
			SmallThumbnail string `json:"smallThumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

type gbResponse struct {
	Items []gbVolume `json:"items"`
}

func (g *GoogleBooks) Search(ctx context.Context, query string) ([]catalog.SearchResult, error) {
	u := fmt.Sprintf("%s?q=%s&maxResults=5&printType=books", g.base, url.QueryEscape(query))
	body, _, err := g.client.GetFast(ctx, u, nil)
	if err != nil {
		return nil, err
	}

	var resp gbResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode googlebooks search: %w", err)
	}

	out := make([]catalog.SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		out = append(out, catalog.SearchResult{
			Title:   item.VolumeInfo.Title,
			Authors: item.VolumeInfo.Authors,
			URL:     item.SelfLink,
			ISBN:    gbISBN(item),
		})
	}
	return out, nil
}

func (g *GoogleBooks) GetByISBN(ctx context.Context, isbn string) (*catalog.Detail, error) {
	u := fmt.Sprintf("%s?q=%s&maxResults=1", g.base, url.QueryEscape("isbn:"+isbn))
	body, _, err := g.client.Get(ctx, u, nil)
	if err != nil {
		return nil, err
	}

	var resp gbResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode googlebooks isbn lookup: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, ErrNotFound
	}
	return gbDetail(resp.Items[0]), nil
}

func (g *GoogleBooks) GetDetail(ctx context.Context, detailURL string) (*catalog.Detail, error) {
	body, _, err := g.client.Get(ctx, detailURL, nil)
	if err != nil {
		return nil, err
	}

	var item gbVolume
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, fmt.Errorf("decode googlebooks volume: %w", err)
	}
	d := gbDetail(item)
	d.SourceURL = detailURL
	return d, nil
}

func gbISBN(item gbVolume) string {
	for _, ident := range item.VolumeInfo.IndustryIdentifiers {
		if ident.Type == "ISBN_13" || ident.Type == "ISBN_10" {
			return ident.Identifier
		}
	}
	return ""
}

func gbDetail(item gbVolume) *catalog.Detail {
	vi := item.VolumeInfo

	var year int
	if len(vi.PublishedDate) >= 4 {
		if y, err := strconv.Atoi(vi.PublishedDate[:4]); err == nil {
			year = y
		}
	}

	cover := vi.ImageLinks.Thumbnail
	if cover == "" {
		cover = vi.ImageLinks.SmallThumbnail
	}

	return &catalog.Detail{
		Title:     vi.Title,
		Authors:   vi.Authors,
		Publisher: vi.Publisher,
		PubYear:   year,
		ISBN:      gbISBN(item),
		Pages:     vi.PageCount,
		Summary:   vi.Description,
		Language:  vi.Language,
		CoverURL:  cover,
		SourceURL: item.SelfLink,
	}
}
