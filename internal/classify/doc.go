// SPDX-License-Identifier: MPL-2.0

// Package classify assigns Chinese Library Classification (CLC) codes to
// catalog entries. Three tiers are tried in order: a CIP/CLC number parsed
// from provider metadata, an optional LLM classifier, and a keyword scoring
// fallback that always produces a result.
package classify
