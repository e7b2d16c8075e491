// SPDX-License-Identifier: MPL-2.0

// Package catalog defines the domain types shared across the metadata
// pipeline, the store, and the web UI: the persisted Book record, the
// provider-neutral Detail of a fetched book, and lightweight search hits.
package catalog
