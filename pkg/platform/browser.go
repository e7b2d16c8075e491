// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"fmt"
	"os/exec"
	"runtime"
)

// OpenBrowser opens the given URL in the user's default browser.
// The launch is fire-and-forget: the spawned process is not waited on, so a
// browser that blocks until its window closes does not block the caller.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case Windows:
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case Darwin:
		cmd = exec.Command("open", url)
	default:
		// Linux and the BSDs ship xdg-open with any desktop environment.
		if _, err := exec.LookPath("xdg-open"); err != nil {
			return fmt.Errorf("no browser opener found: %w", err)
		}
		cmd = exec.Command("xdg-open", url)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
