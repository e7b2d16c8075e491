// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/charmbracelet/log"

	"bookmeta-cli/internal/catalog"
	"bookmeta-cli/internal/classify"
	"bookmeta-cli/internal/covers"
	"bookmeta-cli/internal/nlp"
	"bookmeta-cli/internal/provider"
	"bookmeta-cli/internal/store"
)

// ErrNoMatch is returned when no provider yields a usable detail for a
// query.
var ErrNoMatch = errors.New("no provider matched the query")

// Pipeline wires the ingest path together.
type Pipeline struct {
	repo       *store.Repository
	providers  []provider.Provider
	covers     *covers.Store
	classifier *classify.Classifier
	logger     *log.Logger
}

// New builds a pipeline. covers and classifier may be nil for callers that
// only need lookups (tests, dry runs); those steps are then skipped.
func New(repo *store.Repository, providers []provider.Provider, cv *covers.Store, cl *classify.Classifier, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{
		repo:       repo,
		providers:  providers,
		covers:     cv,
		classifier: cl,
		logger:     logger,
	}
}

// Ingest resolves one query to a persisted book. The query may be an ISBN,
// a bare title, or a "title author" line; providers are tried in order and
// the first usable detail wins.
func (p *Pipeline) Ingest(ctx context.Context, query string) (*catalog.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNoMatch
	}

	title, authors := nlp.SplitTitleAuthor(query)
	isbnInput := nlp.FindISBN(query)

	// Candidate queries from strongest to weakest: the cleaned title, the
	// title plus first author, then the raw input.
	var candidates []string
	if title != "" {
		candidates = append(candidates, title)
		if len(authors) > 0 && authors[0] != "" {
			candidates = append(candidates, title+" "+authors[0])
		}
	}
	candidates = append(candidates, query)

	for _, prov := range p.providers {
		detail := p.lookup(ctx, prov, isbnInput, candidates)
		if detail == nil {
			p.logger.Debug("provider had no result", "provider", prov.Site())
			continue
		}

		// When the user supplied an ISBN, a detail naming a different one
		// is a wrong book, not a partial match.
		if isbnInput != "" && detail.ISBN != "" && !catalog.SameISBN(detail.ISBN, isbnInput) {
			p.logger.Warn("isbn mismatch, skipping provider",
				"provider", prov.Site(), "got", detail.ISBN, "want", isbnInput)
			continue
		}
		if isbnInput != "" && detail.ISBN == "" {
			detail.ISBN = isbnInput
		}

		book, err := p.persist(ctx, prov, detail)
		if err != nil {
			return nil, err
		}
		return book, nil
	}

	return nil, ErrNoMatch
}

// lookup tries ISBN first, then each candidate query, against one provider.
func (p *Pipeline) lookup(ctx context.Context, prov provider.Provider, isbn string, candidates []string) *catalog.Detail {
	if isbn != "" {
		detail, err := prov.GetByISBN(ctx, isbn)
		if err == nil && detail != nil {
			return detail
		}
		if err != nil && !errors.Is(err, provider.ErrNotFound) && !errors.Is(err, provider.ErrNotSupported) {
			p.logger.Debug("isbn lookup failed", "provider", prov.Site(), "err", err)
		}
	}

	for _, q := range candidates {
		results, err := prov.Search(ctx, q)
		if err != nil {
			if !errors.Is(err, provider.ErrNotSupported) {
				p.logger.Debug("search failed", "provider", prov.Site(), "query", q, "err", err)
			}
			continue
		}
		if len(results) == 0 {
			continue
		}

		hit := results[0]
		if hit.URL != "" {
			if detail, err := prov.GetDetail(ctx, hit.URL); err == nil && detail != nil {
				return detail
			}
		}
		if hit.ISBN != "" {
			if detail, err := prov.GetByISBN(ctx, hit.ISBN); err == nil && detail != nil {
				return detail
			}
		}
	}
	return nil
}

// persist writes the detail through the merge rule, then runs the cover and
// classification side effects and records provenance.
func (p *Pipeline) persist(ctx context.Context, prov provider.Provider, detail *catalog.Detail) (*catalog.Book, error) {
	book, err := p.repo.Upsert(ctx, detail)
	if err != nil {
		return nil, err
	}

	if p.covers != nil && book.CoverPath == "" && detail.CoverURL != "" {
		if rel := p.covers.Fetch(ctx, detail.CoverURL); rel != "" {
			if err := p.repo.SetCoverPath(ctx, book.ID, rel); err != nil {
				return nil, err
			}
		}
	}

	if p.classifier != nil && book.CLC == "" {
		res := p.classifier.Classify(ctx, classify.Input{
			Title:   book.Title,
			Authors: book.AuthorList(),
			Summary: book.Summary,
			CIP:     book.CIP,
		})
		if code := strings.TrimSpace(res.Code); code != "" {
			if err := p.repo.SetCLC(ctx, book.ID, code); err != nil {
				return nil, err
			}
			p.logger.Debug("classified book",
				"id", book.ID, "clc", code, "source", res.Source, "confidence", res.Confidence)
		}
	}

	extracted, err := json.Marshal(detail)
	if err != nil {
		return nil, err
	}
	src := &catalog.SourceRecord{
		BookID:    book.ID,
		Site:      prov.Site(),
		URL:       detail.SourceURL,
		Extracted: string(extracted),
	}
	if err := p.repo.AddSource(ctx, src); err != nil {
		return nil, err
	}

	return p.repo.GetByID(ctx, book.ID)
}
