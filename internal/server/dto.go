// SPDX-License-Identifier: MPL-2.0

package server

import (
	"bookmeta-cli/internal/catalog"
)

type (
	// ErrorResponse is the uniform error payload for all API failures.
	ErrorResponse struct {
		Message string `json:"message"`
	}

	// IngestRequest asks the pipeline to resolve a single free-form query.
	IngestRequest struct {
		Query string `json:"query" binding:"required"`
	}

	// ImportRequest carries an inline batch of queries. File uploads use
	// multipart form data instead.
	ImportRequest struct {
		Queries []string `json:"queries" binding:"required,min=1"`
	}

	// BookUpdateRequest is the editable subset of a book record. Pointer
	// fields distinguish "leave unchanged" from "set to empty".
	BookUpdateRequest struct {
		Title     *string `json:"title"`
		Authors   *string `json:"authors"`
		Publisher *string `json:"publisher"`
		PubYear   *int    `json:"pub_year"`
		Edition   *string `json:"edition"`
		Pages     *int    `json:"pages"`
		Summary   *string `json:"summary"`
		AuthorBio *string `json:"author_bio"`
		Language  *string `json:"language"`
		CLC       *string `json:"clc"`
	}

	// BookResponse augments the stored record with the shelf bucket derived
	// from its classification code.
	BookResponse struct {
		catalog.Book
		CLCLabel  string `json:"clc_label,omitempty"`
		CLCBucket string `json:"clc_bucket,omitempty"`
	}

	// StatsResponse summarises the catalog for the UI header.
	StatsResponse struct {
		Books      int64 `json:"books"`
		MissingCLC int   `json:"missing_clc"`
	}
)

func errorResponse(msg string) ErrorResponse {
	return ErrorResponse{Message: msg}
}
