// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared helpers for working with CUE files.
//
// bookmeta validates its configuration file against an embedded CUE schema;
// this package turns CUE's error aggregates into single, path-prefixed
// messages (e.g. "config.cue: server.port: expected int, got string") that
// are fit for CLI display.
package cueutil
