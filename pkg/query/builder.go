package query

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// SortField is one ORDER BY term, named by projection field.
type SortField struct {
	Field      string
	Descending bool
}

// ParseSortFields reads a comma-separated list such as "Name,-CreatedAt".
// A leading "-" sorts descending. Empty input yields nil.
func ParseSortFields(s string) []SortField {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// binder hands out numbered placeholders in the order arguments are bound.
type binder struct {
	args []any
}

func (b *binder) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// condition renders one WHERE term, binding its arguments as it goes.
type condition func(b *binder) string

// Builder composes a SELECT against a ProjectionMap. Conditions are joined
// with AND and their placeholders are numbered in the order they were added.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	order       []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder. defaultSort applies when OrderByFields is not called
// or names no mapped field.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// WhereEquals adds field = value. Nil values, including typed nil pointers, are skipped.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	col := b.projection.Column(field)
	b.conditions = append(b.conditions, func(bd *binder) string {
		return col + " = " + bd.bind(value)
	})
	return b
}

// WhereContains adds a case-insensitive substring match on field.
// Nil or empty values are skipped.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	col := b.projection.Column(field)
	pattern := "%" + *value + "%"
	b.conditions = append(b.conditions, func(bd *binder) string {
		return col + " ILIKE " + bd.bind(pattern)
	})
	return b
}

// WhereSearch matches search as a substring of any of fields.
// Nil or empty searches are skipped.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = b.projection.Column(f)
	}
	pattern := "%" + *search + "%"
	b.conditions = append(b.conditions, func(bd *binder) string {
		terms := make([]string, len(cols))
		for i, col := range cols {
			terms[i] = col + " ILIKE " + bd.bind(pattern)
		}
		return "(" + strings.Join(terms, " OR ") + ")"
	})
	return b
}

// OrderByFields replaces the default sort. Fields missing from the projection
// are dropped, so request input never reaches ORDER BY verbatim.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.order = fields
	return b
}

// Build returns the filtered and ordered SELECT.
func (b *Builder) Build() (string, []any) {
	return b.selectStmt("")
}

// BuildPage returns Build limited to one 1-indexed page.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	return b.selectStmt(fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize))
}

// First returns Build limited to the first row.
func (b *Builder) First() (string, []any) {
	return b.selectStmt(" LIMIT 1")
}

// BuildCount counts the rows matching the conditions.
func (b *Builder) BuildCount() (string, []any) {
	var bd binder
	where := b.where(&bd)
	return "SELECT COUNT(*) FROM " + b.projection.Table() + where, bd.args
}

// BuildSingle selects the row whose idField equals id, ignoring other conditions.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		b.projection.Columns(),
		b.projection.Table(),
		b.projection.Column(idField),
	)
	return sql, []any{id}
}

func (b *Builder) selectStmt(tail string) (string, []any) {
	var bd binder
	sql := "SELECT " + b.projection.Columns() +
		" FROM " + b.projection.Table() +
		b.where(&bd) +
		b.orderBy() +
		tail
	return sql, bd.args
}

func (b *Builder) where(bd *binder) string {
	if len(b.conditions) == 0 {
		return ""
	}
	terms := make([]string, len(b.conditions))
	for i, c := range b.conditions {
		terms[i] = c(bd)
	}
	return " WHERE " + strings.Join(terms, " AND ")
}

func (b *Builder) orderBy() string {
	terms := b.sortTerms(b.order)
	if len(terms) == 0 {
		terms = b.sortTerms(b.defaultSort)
	}
	if len(terms) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

func (b *Builder) sortTerms(fields []SortField) []string {
	var terms []string
	for _, f := range fields {
		col, ok := b.projection.Lookup(f.Field)
		if !ok {
			continue
		}
		if f.Descending {
			terms = append(terms, col+" DESC")
		} else {
			terms = append(terms, col+" ASC")
		}
	}
	return terms
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}
