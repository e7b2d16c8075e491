// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate is shared across Validate calls; validator instances cache
// struct metadata and are safe for concurrent use.
var validate = validator.New()

type (
	// Book is the persisted catalog record. String fields other than Title
	// are empty when unknown; numeric fields are zero when unknown.
	Book struct {
		ID        uint   `json:"id"`
		Title     string `json:"title" validate:"required"`
		Authors   string `json:"authors"` // comma-joined, matching the import formats
		Publisher string `json:"publisher"`
		PubYear   int    `json:"pub_year"`

		// ISBN is normalized (no dashes/spaces) and unique across the catalog.
		ISBN    string `json:"isbn" validate:"omitempty,min=9,max=13"`
		Edition string `json:"edition"`
		Pages   int    `json:"pages"`

		Summary   string `json:"summary"`
		AuthorBio string `json:"author_bio"`
		Language  string `json:"language"`

		// CoverPath is relative to the data directory, e.g. "covers/ab12…f.jpg".
		CoverPath string `json:"cover_path"`

		// CIP is the cataloging-in-publication code as printed in the book.
		CIP string `json:"cip"`
		// CLC is the assigned Chinese Library Classification code.
		CLC string `json:"clc"`

		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	// SourceRecord captures which provider a book's metadata came from,
	// with the raw extracted detail preserved as JSON for later audits.
	SourceRecord struct {
		ID        uint      `json:"id"`
		BookID    uint      `json:"book_id"`
		Site      string    `json:"site" validate:"required"`
		URL       string    `json:"url"`
		Extracted string    `json:"extracted"`
		CreatedAt time.Time `json:"created_at"`
	}
)

// Validate checks the business rules on a Book before persistence.
func (b *Book) Validate() error {
	return validate.Struct(b)
}

// Validate checks the business rules on a SourceRecord before persistence.
func (s *SourceRecord) Validate() error {
	return validate.Struct(s)
}

// AuthorList splits the comma-joined Authors field, dropping empties.
func (b *Book) AuthorList() []string {
	if b.Authors == "" {
		return nil
	}
	parts := strings.Split(b.Authors, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormalizeISBN strips dashes and spaces and uppercases a trailing X so
// ISBN-10 check characters compare consistently.
func NormalizeISBN(isbn string) string {
	s := strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(isbn))
	return strings.ToUpper(s)
}
