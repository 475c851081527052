package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/linkman/internal/core/domain"
	"go.trai.ch/linkman/internal/ui/output"
	"go.trai.ch/linkman/internal/ui/style"
)

// PanelRow is one library line of the panel.
type PanelRow struct {
	// Base is the resolution-independent key of the library.
	Base string
	// Path is the normalized path of the live library, or the remembered one.
	Path string
	// Name is the file name shown on the row.
	Name       string
	Expanded   bool
	Loaded     bool
	LowRes     bool
	RenderHigh bool
}

// Panel lists the libraries in the order they first appeared. Libraries that
// were unloaded but are still cached are included; hidden high-res copies are not.
func (a *App) Panel(ctx context.Context) ([]PanelRow, domain.Report) {
	var rows []PanelRow
	r := a.inspect(ctx, "list", "", func(context.Context) domain.Report {
		rows = a.panelRows()
		return domain.Finished(fmt.Sprintf("%d libraries", len(rows)))
	})
	return rows, r
}

func (a *App) panelRows() []PanelRow {
	norm := a.policy.Normalizer()

	var current []string
	inScene := make(map[string]bool)
	for _, lib := range a.doc.Libraries() {
		p := norm.Normalize(lib.Path)
		current = append(current, p)
		inScene[a.policy.BaseKey(p)] = true
		a.session.NoteLibrary(a.policy.BaseKey(p), p)
	}

	var rows []PanelRow
	for _, entry := range a.session.Order() {
		_, known := a.session.Active(entry.Path)
		if !inScene[entry.Base] && !known {
			continue
		}

		live := entry.Path
		for _, p := range current {
			if a.policy.BaseKey(p) == entry.Base && !a.session.IsEphemeralPath(p) {
				live = p
				break
			}
		}
		if a.session.IsEphemeralPath(live) {
			continue
		}

		loaded, known := a.session.Active(live)
		if !known {
			loaded = true
		}
		row := PanelRow{
			Base:     entry.Base,
			Path:     live,
			Name:     filepath.Base(a.doc.ToAbsolute(live)),
			Expanded: a.session.Expanded(entry.Base),
			Loaded:   loaded,
			LowRes:   a.policy.IsLowRes(live),
		}
		if row.LowRes {
			if rs, ok := a.session.Resolution(live); ok {
				row.RenderHigh = rs.HighResForRender
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// List writes the panel to w.
func (a *App) List(ctx context.Context, w io.Writer) domain.Report {
	rows, r := a.Panel(ctx)
	if !r.OK() {
		return r
	}
	_, _ = io.WriteString(w, FormatPanel(w, rows, a.policy.Token()))
	return r
}

// FormatPanel renders rows with styles matching w's colour profile.
func FormatPanel(w io.Writer, rows []PanelRow, token string) string {
	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(output.ColorProfile())
	st := style.NewPanel(renderer)

	var b strings.Builder
	fmt.Fprintf(&b, "Linked files (low-res suffix %s):\n", token)
	if len(rows) == 0 {
		b.WriteString(st.Detail.Render("none") + "\n")
		return b.String()
	}

	width := 0
	for _, row := range rows {
		width = max(width, lipgloss.Width(row.Name))
	}

	for _, row := range rows {
		fold := style.Folded
		if row.Expanded {
			fold = style.Expanded
		}
		name := st.Path.Render(row.Name) + pad(row.Name, width)

		state := st.Loaded.Render(style.Dot+" loaded") + pad("loaded", len("unloaded"))
		if !row.Loaded {
			state = st.Unloaded.Render(style.Circle + " unloaded")
		}

		res := "high"
		if row.LowRes {
			res = st.LowRes.Render("low")
		}

		line := fmt.Sprintf("%s %s  %s  %s", fold, name, state, res)
		if row.RenderHigh {
			line += "  " + st.RenderHigh.Render("renders high")
		}
		b.WriteString(line + "\n")
		if row.Expanded {
			b.WriteString(st.Detail.Render(row.Path) + "\n")
		}
	}
	return b.String()
}

func pad(s string, width int) string {
	return strings.Repeat(" ", max(0, width-lipgloss.Width(s)))
}
