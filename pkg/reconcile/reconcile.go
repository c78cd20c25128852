package reconcile

import (
	"fmt"
	"sort"
	"strings"
)

// Reconcile folds the pairwise comparisons of versions into a Table.
//
// For each constraint diff, the lines that existed before the change (unchanged and
// removed) merge into the cell of the comparison's From version, and the lines that
// exist after it (unchanged and added) merge into the cell of its To version. Merges
// are conservative: lines already recorded are never dropped or duplicated.
//
// Every row receives exactly one cell per version. The first version is the baseline
// and is never reported as a change. Later versions take the status the comparisons
// recorded for them, falling back to unchanged or not-present depending on whether the
// cell holds any lines. Removal is never inferred from absence.
func Reconcile(versions []VersionInfo, comparisons []Comparison) Table {
	rows := make(map[string]*Row)
	targets := make(map[string]map[string]Status)

	for _, c := range comparisons {
		for _, diff := range c.ChangesByConstraint {
			title := diff.ConstraintTitle

			row, ok := rows[title]
			if !ok {
				row = &Row{Title: title, Cells: make(map[string]Cell)}
				rows[title] = row
				targets[title] = make(map[string]Status)
			}

			targets[title][c.To] = diff.Status
			mergeCell(row, c.From, previousView(diff.Changes))
			mergeCell(row, c.To, currentView(diff.Changes))
		}
	}

	names := make([]string, len(versions))
	for i, v := range versions {
		names[i] = v.VersionName
	}

	result := make([]Row, 0, len(rows))
	for title, row := range rows {
		result = append(result, finalize(row, names, targets[title]))
	}

	sort.SliceStable(result, func(i, j int) bool {
		return lessTitle(result[i].Title, result[j].Title)
	})

	return Table{
		Versions: versions,
		Rows:     result,
		Stats:    computeStats(result),
	}
}

// CheckSequence verifies that comparisons hold one entry per adjacent version pair.
// Cell assignment depends on the comparisons following version order, which can
// only be checked through the list length.
func CheckSequence(versions []VersionInfo, comparisons []Comparison) error {
	want := max(len(versions)-1, 0)
	if len(comparisons) != want {
		return fmt.Errorf(
			"%w: got %d comparisons for %d versions, want %d",
			ErrSequence, len(comparisons), len(versions), want,
		)
	}
	return nil
}

func previousView(changes []Change) []Line {
	return viewOf(changes, TagRemoved)
}

func currentView(changes []Change) []Line {
	return viewOf(changes, TagAdded)
}

func viewOf(changes []Change, side Tag) []Line {
	lines := make([]Line, 0, len(changes))
	for _, ch := range changes {
		if ch.Tag == TagUnchanged || ch.Tag == side {
			lines = append(lines, Line{Text: ch.Text, Tag: ch.Tag})
		}
	}
	return lines
}

func mergeCell(row *Row, version string, lines []Line) {
	cell := row.Cells[version]
	for _, l := range lines {
		cell.Lines = mergeLine(cell.Lines, l)
	}
	row.Cells[version] = cell
}

// mergeLine adds l to lines unless an identical (tag, text) line is recorded.
// A changed line refines an unchanged line carrying the same text rather than
// duplicating it, and an unchanged line is redundant next to any line of the same text.
// A middle version's cell is fed by the comparison into it and the one out of it, so
// a line kept from the previous version and removed in the next ends up as one line
// tagged removed.
func mergeLine(lines []Line, l Line) []Line {
	sameText := -1
	for i, existing := range lines {
		if existing.Text != l.Text {
			continue
		}
		if existing.Tag == l.Tag {
			return lines
		}
		if sameText < 0 {
			sameText = i
		}
	}

	if sameText >= 0 {
		if l.Tag == TagUnchanged {
			return lines
		}
		if lines[sameText].Tag == TagUnchanged {
			lines[sameText].Tag = l.Tag
			return lines
		}
	}

	return append(lines, l)
}

func finalize(row *Row, names []string, targets map[string]Status) Row {
	cells := make(map[string]Cell, len(names))

	for i, name := range names {
		cell, ok := row.Cells[name]
		if !ok || len(cell.Lines) == 0 {
			cell = Cell{Status: StatusNotPresent, Lines: []Line{}}
		}

		status, recorded := targets[name]
		switch {
		case i > 0 && recorded:
			cell.Status = status
		case len(cell.Lines) > 0:
			cell.Status = StatusUnchanged
		default:
			cell.Status = StatusNotPresent
		}

		cells[name] = cell
	}

	return Row{Title: row.Title, Cells: cells}
}

func computeStats(rows []Row) Stats {
	var s Stats
	for _, row := range rows {
		var modified, added, removed bool
		for _, cell := range row.Cells {
			switch cell.Status {
			case StatusModified:
				modified = true
			case StatusAdded:
				added = true
			case StatusRemoved:
				removed = true
			}
		}
		if modified {
			s.Modified++
		}
		if added {
			s.Added++
		}
		if removed {
			s.Removed++
		}
	}
	s.Total = s.Modified + s.Added + s.Removed
	return s
}

func lessTitle(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}
