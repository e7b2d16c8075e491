// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestConfirmPurge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes confirms", "yes\n", true},
		{"yes without newline confirms", "yes", true},
		{"padded yes confirms", "  yes  \n", true},
		{"no aborts", "no\n", false},
		{"y aborts", "y\n", false},
		{"empty input aborts", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := &cobra.Command{}
			cmd.SetIn(strings.NewReader(tt.input))
			if got := confirmPurge(cmd); got != tt.want {
				t.Errorf("confirmPurge(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
