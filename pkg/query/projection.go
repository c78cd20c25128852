// Package query builds parameterized SELECT statements over a projection of
// one table's columns onto the field names of a Go type.
package query

import "strings"

// ProjectionMap maps field names to alias-qualified columns of a single table.
// The order of Project calls is the SELECT order and must match the scan order.
type ProjectionMap struct {
	from    string
	alias   string
	byField map[string]string
	ordered []string
}

// NewProjectionMap creates an empty projection over schema.table, aliased as alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		from:    schema + "." + table + " " + alias,
		alias:   alias,
		byField: make(map[string]string),
	}
}

// Project maps field to column and appends the column to the SELECT list.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.byField[field] = qualified
	p.ordered = append(p.ordered, qualified)
	return p
}

// Table returns the FROM target, for example "public.projects p".
func (p *ProjectionMap) Table() string {
	return p.from
}

// Columns returns the SELECT list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.ordered, ", ")
}

// Column returns the qualified column for field. Unmapped fields are returned as given.
func (p *ProjectionMap) Column(field string) string {
	if col, ok := p.byField[field]; ok {
		return col
	}
	return field
}

// Lookup reports the qualified column for field and whether field is mapped.
func (p *ProjectionMap) Lookup(field string) (string, bool) {
	col, ok := p.byField[field]
	return col, ok
}
