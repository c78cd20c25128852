package reconcile

import (
	"fmt"
	"sort"
)

// SortMode selects the row ordering of a View.
type SortMode string

// Supported sort modes.
const (
	SortAlpha        SortMode = "alpha"
	SortMostChanged  SortMode = "most-changed"
	SortLatestChange SortMode = "latest-change"
)

// ParseSortMode converts s to a SortMode. An empty string yields SortAlpha.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case "", SortAlpha:
		return SortAlpha, nil
	case SortMostChanged:
		return SortMostChanged, nil
	case SortLatestChange:
		return SortLatestChange, nil
	}
	return "", fmt.Errorf("unknown sort mode %q", s)
}

// Query holds the display toggles applied to a Table.
// The zero value shows every line and row in alphabetical order.
type Query struct {
	HideUnchanged bool     `json:"hide_unchanged"`
	HideAdded     bool     `json:"hide_added"`
	HideRemoved   bool     `json:"hide_removed"`
	ChangedOnly   bool     `json:"changed_only"`
	Sort          SortMode `json:"sort"`
}

func (q Query) shows(tag Tag) bool {
	switch tag {
	case TagUnchanged:
		return !q.HideUnchanged
	case TagAdded:
		return !q.HideAdded
	case TagRemoved:
		return !q.HideRemoved
	}
	return true
}

// ViewRow is a Row prepared for display.
// Score counts the non-baseline cells that record a change.
type ViewRow struct {
	Title string          `json:"constraint_title"`
	Score int             `json:"change_score"`
	Cells map[string]Cell `json:"cells"`
}

// View is a filtered and sorted projection of a Table.
// Columns lists the older versions, oldest first. Pinned is always the latest version
// and is rendered fixed after the older columns regardless of the query.
type View struct {
	Columns []string  `json:"columns"`
	Pinned  string    `json:"pinned"`
	Rows    []ViewRow `json:"rows"`
	Stats   Stats     `json:"stats"`
}

var latestPrecedence = map[Status]int{
	StatusModified:   0,
	StatusAdded:      1,
	StatusRemoved:    2,
	StatusUnchanged:  3,
	StatusNotPresent: 4,
}

// View applies q to the table without mutating it.
func (t Table) View(q Query) View {
	names := t.Names()

	v := View{
		Columns: []string{},
		Rows:    make([]ViewRow, 0, len(t.Rows)),
		Stats:   t.Stats,
	}
	if len(names) > 0 {
		v.Columns = names[:len(names)-1]
		v.Pinned = names[len(names)-1]
	}

	for _, row := range t.Rows {
		score := changeScore(row, names)
		if q.ChangedOnly && score == 0 {
			continue
		}
		v.Rows = append(v.Rows, ViewRow{
			Title: row.Title,
			Score: score,
			Cells: filterCells(row.Cells, q),
		})
	}

	sortRows(v.Rows, q.Sort, v.Pinned)
	return v
}

func changeScore(row Row, names []string) int {
	score := 0
	for i := 1; i < len(names); i++ {
		if row.Cells[names[i]].Status.IsChange() {
			score++
		}
	}
	return score
}

func filterCells(cells map[string]Cell, q Query) map[string]Cell {
	out := make(map[string]Cell, len(cells))
	for name, cell := range cells {
		lines := make([]Line, 0, len(cell.Lines))
		for _, l := range cell.Lines {
			if q.shows(l.Tag) {
				lines = append(lines, l)
			}
		}
		out[name] = Cell{Status: cell.Status, Lines: lines}
	}
	return out
}

func sortRows(rows []ViewRow, mode SortMode, latest string) {
	switch mode {
	case SortMostChanged:
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Score != rows[j].Score {
				return rows[i].Score > rows[j].Score
			}
			return lessTitle(rows[i].Title, rows[j].Title)
		})
	case SortLatestChange:
		sort.SliceStable(rows, func(i, j int) bool {
			pi := precedence(rows[i].Cells[latest].Status)
			pj := precedence(rows[j].Cells[latest].Status)
			if pi != pj {
				return pi < pj
			}
			if rows[i].Score != rows[j].Score {
				return rows[i].Score > rows[j].Score
			}
			return lessTitle(rows[i].Title, rows[j].Title)
		})
	default:
		sort.SliceStable(rows, func(i, j int) bool {
			return lessTitle(rows[i].Title, rows[j].Title)
		})
	}
}

func precedence(s Status) int {
	if p, ok := latestPrecedence[s]; ok {
		return p
	}
	return len(latestPrecedence)
}
