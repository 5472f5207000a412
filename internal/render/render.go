// Package render prints a navigator projection to a terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agenthands/annex/internal/navigator"
)

var (
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	linkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	fieldStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	chipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	openStyle    = chipStyle.Underline(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

type Options struct {
	// MaxFields caps the fields printed per record; 0 prints all.
	MaxFields int
}

// Tree prints one block per record. The projection's indent is taken as a column count,
// so callers project with a small unit such as 2.
func Tree(view []navigator.RenderedEntry, opts Options) string {
	var b strings.Builder
	for _, e := range view {
		pad := strings.Repeat(" ", e.Indent)

		head := fmt.Sprintf("#%d", e.RecordID)
		if e.LinkName != "" {
			head = linkStyle.Render(e.LinkGlyph+" "+e.LinkName) + " " + head
		}
		for _, l := range e.Labels {
			head += " " + labelStyle.Render("["+l+"]")
		}
		if e.Waiting {
			head += " …"
		}
		b.WriteString(pad + head + "\n")

		fields := e.Fields
		if opts.MaxFields > 0 && len(fields) > opts.MaxFields {
			fields = fields[:opts.MaxFields]
		}
		for _, f := range fields {
			b.WriteString(pad + "  " + fieldStyle.Render(f.Name+": "+f.Value) + "\n")
		}

		if len(e.Chips) > 0 {
			chips := make([]string, 0, len(e.Chips))
			for _, c := range e.Chips {
				text := fmt.Sprintf("%s %s (%d)", c.Glyph, c.Name, c.Count)
				if c.Open {
					chips = append(chips, openStyle.Render(text))
				} else {
					chips = append(chips, chipStyle.Render(text))
				}
			}
			b.WriteString(pad + "  " + strings.Join(chips, "  ") + "\n")
		}
	}
	return b.String()
}

// StatusLine formats the navigator status, or returns "" when there is nothing to say.
func StatusLine(st navigator.Status) string {
	var parts []string
	if st.Message != "" {
		if st.IsError {
			parts = append(parts, errorStyle.Render("error: "+st.Message))
		} else {
			parts = append(parts, st.Message)
		}
	}
	if st.Warning != "" {
		parts = append(parts, warningStyle.Render("warning: "+st.Warning))
	}
	if st.Waiting {
		parts = append(parts, "waiting for server…")
	}
	return strings.Join(parts, " | ")
}
