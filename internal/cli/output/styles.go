package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used for text output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Muted   lipgloss.Style
	Warning lipgloss.Style
}

// NewStyles creates styles bound to w, so color is only emitted when w
// supports it.
func NewStyles(w io.Writer) *Styles {
	lr := lipgloss.NewRenderer(w)

	return &Styles{
		Header1: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Muted:   lr.NewStyle().Foreground(lipgloss.Color("8")),
		Warning: lr.NewStyle().Foreground(lipgloss.Color("11")),
	}
}
