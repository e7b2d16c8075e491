// SPDX-License-Identifier: MPL-2.0

// Package server exposes the catalog over HTTP: a JSON API under /api/v1
// for book CRUD, ingestion and batch import, static cover images under
// /covers, and a small embedded web UI at the root.
package server
