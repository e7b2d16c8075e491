// SPDX-License-Identifier: MPL-2.0

// Package store persists the catalog in a SQLite database through GORM.
// Domain types live in internal/catalog; this package owns the database
// models, the connection and the repository operations, including the
// merge-by-ISBN rule used during ingest.
package store
