// SPDX-License-Identifier: MPL-2.0

// Package nlp implements the heuristic text layer for catalog queries:
// cleaning raw lines (file names, CSV cells, pasted lists), splitting them
// into title and author candidates, and recognizing ISBNs.
//
// The heuristics target the conventions of Chinese book listings (trailing
// 著/编/译 author suffixes, CJK brackets, enumerated lines) but degrade
// gracefully on plain Latin input.
package nlp
