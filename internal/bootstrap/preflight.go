// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"bookmeta-cli/internal/issue"
)

// toolNamePattern validates tool names from the config before PATH lookup.
// CUE schema constrains them at parse time as well.
var toolNamePattern = regexp.MustCompile(`^[A-Za-z0-9._+\-/]+$`)

// CheckTools verifies every configured tool resolves on PATH. All tools are
// checked before reporting so the user sees the complete list of gaps.
func CheckTools(tools []string) error {
	var missing []string
	for _, tool := range tools {
		if !toolNamePattern.MatchString(tool) {
			missing = append(missing, fmt.Sprintf("%s - invalid tool name", tool))
			continue
		}
		if _, err := exec.LookPath(tool); err != nil {
			missing = append(missing, fmt.Sprintf("%s - not found in PATH", tool))
		}
	}
	if len(missing) == 0 {
		return nil
	}

	return issue.NewErrorContext().
		WithOperation("check required tools").
		WithResource(strings.Join(missing, "; ")).
		WithSuggestion("install the missing tools or remove them from preflight.tools in config.cue").
		Build()
}
