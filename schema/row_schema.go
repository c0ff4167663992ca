package schema

import (
	"fmt"
	"strings"
)

type RowSchema struct {
	Columns []*ColumnSchema `json:"columns"`
}

// ColumnNames returns the column names in schema order
func (r *RowSchema) ColumnNames() []string {
	res := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		res[i] = c.ColumnName
	}
	return res
}

func (r *RowSchema) AsMap() map[string]*ColumnSchema {
	var res = make(map[string]*ColumnSchema, len(r.Columns))
	for _, c := range r.Columns {
		res[c.ColumnName] = c
	}
	return res
}

// SelectList returns a quoted, comma separated column list for use in a SELECT clause
func (r *RowSchema) SelectList() string {
	cols := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		cols[i] = fmt.Sprintf(`"%s"`, c.ColumnName)
	}
	return strings.Join(cols, ", ")
}

// CreateTableStatement returns a DuckDB CREATE TABLE statement for this schema
func (r *RowSchema) CreateTableStatement(table string) string {
	cols := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		cols[i] = c.Definition()
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(cols, ", "))
}

// Validate checks that the given column names match the schema, in order
func (r *RowSchema) Validate(columnNames []string) error {
	expected := r.ColumnNames()
	if len(expected) != len(columnNames) {
		return fmt.Errorf("expected %d columns %v, got %d %v", len(expected), expected, len(columnNames), columnNames)
	}
	for i, name := range columnNames {
		if expected[i] != name {
			return fmt.Errorf("column %d: expected '%s', got '%s'", i, expected[i], name)
		}
	}
	return nil
}
