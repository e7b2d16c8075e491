// SPDX-License-Identifier: MPL-2.0

package catalog

import "strings"

type (
	// SearchResult is a lightweight search hit, carrying just enough to
	// reach a detail page or an ISBN lookup.
	SearchResult struct {
		Title   string   `json:"title"`
		Authors []string `json:"authors"`
		URL     string   `json:"url,omitempty"`
		ISBN    string   `json:"isbn,omitempty"`
	}

	// Detail is the provider-neutral book metadata extracted from one
	// source. Every field besides Title may be empty: different sites
	// expose different subsets, and the merge step only overwrites
	// persisted fields with non-empty values.
	Detail struct {
		Title   string   `json:"title"`
		Authors []string `json:"authors"`

		Publisher string `json:"publisher,omitempty"`
		PubYear   int    `json:"pub_year,omitempty"`
		ISBN      string `json:"isbn,omitempty"`
		Edition   string `json:"edition,omitempty"`
		Pages     int    `json:"pages,omitempty"`

		Summary   string `json:"summary,omitempty"`
		AuthorBio string `json:"author_bio,omitempty"`
		Language  string `json:"language,omitempty"`

		CoverURL string `json:"cover_url,omitempty"`

		// CIP carries the cataloging-in-publication / CLC code when the
		// source exposes one; it short-circuits classification.
		CIP string `json:"cip,omitempty"`

		// SourceURL is the page the detail was extracted from.
		SourceURL string `json:"source_url,omitempty"`
	}
)

// JoinAuthors renders the author list the way the catalog persists it.
func JoinAuthors(authors []string) string {
	return strings.Join(authors, ",")
}

// SameISBN reports whether two ISBNs refer to the same book after
// normalization. Empty values never match.
func SameISBN(a, b string) bool {
	na, nb := NormalizeISBN(a), NormalizeISBN(b)
	return na != "" && na == nb
}
