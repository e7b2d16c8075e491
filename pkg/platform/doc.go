// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// This package centralizes platform-specific concerns such as GOOS string
// constants and opening URLs in the user's default browser.
package platform
