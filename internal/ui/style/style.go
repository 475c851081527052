// Package style holds the colours, icons and lipgloss styles shared by the
// log handler and the library panel.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
	Sky    = lipgloss.Color("#0EA5E9")
)

// Icons.
const (
	Check    = "✓"
	Cross    = "✗"
	Warning  = "!"
	Dot      = "●"
	Circle   = "○"
	Expanded = "▾"
	Folded   = "▸"
)

// Panel holds the styles of the library panel.
type Panel struct {
	// Path renders a library row's file name.
	Path lipgloss.Style
	// Loaded marks a live library.
	Loaded lipgloss.Style
	// Unloaded marks a library known only from its cached snapshot.
	Unloaded lipgloss.Style
	// LowRes tags a library linked from its low-res file.
	LowRes lipgloss.Style
	// RenderHigh tags a library flagged to render at high resolution.
	RenderHigh lipgloss.Style
	// Detail renders the indented line of an expanded row.
	Detail lipgloss.Style
}

// NewPanel creates panel styles bound to r, so they follow r's colour profile.
func NewPanel(r *lipgloss.Renderer) Panel {
	return Panel{
		Path:       r.NewStyle().Bold(true),
		Loaded:     r.NewStyle().Foreground(Green),
		Unloaded:   r.NewStyle().Foreground(Slate),
		LowRes:     r.NewStyle().Foreground(Sky),
		RenderHigh: r.NewStyle().Foreground(Iris).Bold(true),
		Detail:     r.NewStyle().Foreground(Slate).PaddingLeft(4),
	}
}
