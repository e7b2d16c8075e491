// SPDX-License-Identifier: MPL-2.0

// Package provider implements the metadata sources the ingest pipeline
// queries: Google Books, Open Library, Douban and a local offline catalog.
// Each source implements the Provider interface; operations a site cannot
// serve return ErrNotSupported so the pipeline can move on to the next one.
package provider
