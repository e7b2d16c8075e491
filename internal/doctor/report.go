// SPDX-License-Identifier: MPL-2.0

package doctor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders the report as a markdown document.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("# bookmeta doctor\n\n")

	for _, c := range r.Checks {
		b.WriteString(fmt.Sprintf("- %s **%s**: %s\n", statusMark(c.Status), c.Name, c.Detail))
	}

	b.WriteString("\n")
	if r.Fixed > 0 {
		b.WriteString(fmt.Sprintf("Applied %d fixes.\n\n", r.Fixed))
	}
	if r.Healthy() {
		b.WriteString("All checks passed.\n")
	} else {
		b.WriteString("Some checks failed. Resolve the items marked ✗ and run doctor again.\n")
	}
	return b.String()
}

// Render renders the report for the terminal. It falls back to the raw
// markdown when the renderer cannot be constructed.
func (r *Report) Render(width int) string {
	md := r.Markdown()

	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

func statusMark(s Status) string {
	switch s {
	case StatusOK:
		return "✓"
	case StatusWarn:
		return "⚠"
	default:
		return "✗"
	}
}
