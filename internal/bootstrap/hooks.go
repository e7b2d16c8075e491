// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// HookError reports a pre-launch hook that exited non-zero. The exit code
// is propagated so 'bookmeta up' can exit with the hook's own status.
type HookError struct {
	Hook     string
	ExitCode int
}

func (e *HookError) Error() string {
	return fmt.Sprintf("pre-launch hook failed with exit code %d: %s", e.ExitCode, e.Hook)
}

// RunHooks executes the configured pre-launch commands sequentially through
// the embedded POSIX shell. The first failing hook aborts the sequence with
// a HookError; subsequent hooks do not run.
func RunHooks(ctx context.Context, hooks []string, workDir string, stdout, stderr io.Writer, logger *log.Logger) error {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	for _, hook := range hooks {
		hook = strings.TrimSpace(hook)
		if hook == "" {
			continue
		}
		if logger != nil {
			logger.Debug("running pre-launch hook", "hook", hook)
		}

		prog, err := syntax.NewParser().Parse(strings.NewReader(hook), "pre_launch")
		if err != nil {
			return fmt.Errorf("failed to parse hook %q: %w", hook, err)
		}

		runner, err := interp.New(
			interp.Dir(workDir),
			interp.StdIO(os.Stdin, stdout, stderr),
		)
		if err != nil {
			return fmt.Errorf("failed to create interpreter: %w", err)
		}

		if err := runner.Run(ctx, prog); err != nil {
			var exitStatus interp.ExitStatus
			if errors.As(err, &exitStatus) {
				return &HookError{Hook: hook, ExitCode: int(exitStatus)}
			}
			return fmt.Errorf("hook execution failed: %w", err)
		}
	}
	return nil
}
