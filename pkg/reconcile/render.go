package reconcile

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// RenderOptions controls text rendering of a View.
type RenderOptions struct {
	NoColor bool
}

type palette struct {
	title   *color.Color
	added   *color.Color
	removed *color.Color
	muted   *color.Color
	pinned  *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		title:   color.New(color.Bold),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
		muted:   color.New(color.Faint),
		pinned:  color.New(color.FgCyan, color.Bold),
	}
	if noColor {
		for _, c := range []*color.Color{p.title, p.added, p.removed, p.muted, p.pinned} {
			c.DisableColor()
		}
	}
	return p
}

// Render writes v to w as plain text, one block per constraint.
// Older versions are listed first and the pinned latest version always closes each block.
func Render(w io.Writer, v View, opts RenderOptions) error {
	p := newPalette(opts.NoColor)

	header := fmt.Sprintf(
		"%d constraints changed (%d modified, %d added, %d removed)\n\n",
		v.Stats.Total, v.Stats.Modified, v.Stats.Added, v.Stats.Removed,
	)
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	for _, row := range v.Rows {
		if _, err := fmt.Fprintf(w, "%s  %s\n", p.title.Sprint(row.Title), p.muted.Sprintf("[score %d]", row.Score)); err != nil {
			return err
		}

		for _, name := range v.Columns {
			if err := renderCell(w, p, name, row.Cells[name], false); err != nil {
				return err
			}
		}

		if v.Pinned != "" {
			if err := renderCell(w, p, v.Pinned, row.Cells[v.Pinned], true); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	return nil
}

func renderCell(w io.Writer, p palette, name string, cell Cell, pinned bool) error {
	label := name
	if pinned {
		label = p.pinned.Sprintf("%s (latest)", name)
	}

	if _, err := fmt.Fprintf(w, "  %s %s\n", label, statusLabel(p, cell.Status)); err != nil {
		return err
	}

	for _, l := range cell.Lines {
		var text string
		switch l.Tag {
		case TagAdded:
			text = p.added.Sprintf("+ %s", l.Text)
		case TagRemoved:
			text = p.removed.Sprintf("- %s", l.Text)
		default:
			text = "  " + l.Text
		}
		if _, err := fmt.Fprintf(w, "    %s\n", text); err != nil {
			return err
		}
	}

	return nil
}

func statusLabel(p palette, s Status) string {
	label := "[" + string(s) + "]"
	switch s {
	case StatusAdded:
		return p.added.Sprint(label)
	case StatusRemoved:
		return p.removed.Sprint(label)
	case StatusModified:
		return p.pinned.Sprint(label)
	case StatusNotPresent:
		return p.muted.Sprint(label)
	}
	return label
}
