// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"errors"

	"bookmeta-cli/internal/catalog"
)

var (
	// ErrNotSupported is returned by operations a provider does not
	// implement (for example ISBN lookup on a search-only site).
	ErrNotSupported = errors.New("operation not supported by this provider")

	// ErrNotFound is returned when a lookup completes but matches nothing.
	ErrNotFound = errors.New("no matching record")
)

// Provider is one metadata source. Implementations may back any subset of
// the three lookups with ErrNotSupported.
//
//   - Search returns lightweight hits; an empty slice means no results.
//   - GetByISBN resolves a normalized ISBN directly to a detail record.
//   - GetDetail parses the detail page behind a SearchResult URL.
type Provider interface {
	Site() string
	Search(ctx context.Context, query string) ([]catalog.SearchResult, error)
	GetByISBN(ctx context.Context, isbn string) (*catalog.Detail, error)
	GetDetail(ctx context.Context, url string) (*catalog.Detail, error)
}
