// SPDX-License-Identifier: MPL-2.0

// Package pipeline turns free-form queries into catalog records. One query
// runs through the provider chain, the merge-by-ISBN store, cover fetching
// and classification; batch import feeds CSV or plain-text files through
// the same path with a bounded worker pool.
package pipeline
