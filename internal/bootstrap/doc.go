// SPDX-License-Identifier: MPL-2.0

// Package bootstrap prepares the environment for a catalog run: it checks
// required tools on PATH, provisions the data directory tree, applies the
// .env file and runs the configured pre-launch hooks through an embedded
// POSIX shell.
package bootstrap
