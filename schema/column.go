package schema

import "fmt"

type ColumnSchema struct {
	// SourceName is the Go struct field name
	SourceName string `json:"-"`
	ColumnName string `json:"name"`
	// DuckDB type for the column
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// Definition returns the column as it would appear in a DuckDB CREATE TABLE statement
func (c *ColumnSchema) Definition() string {
	if c.Nullable {
		return fmt.Sprintf(`"%s" %s`, c.ColumnName, c.Type)
	}
	return fmt.Sprintf(`"%s" %s NOT NULL`, c.ColumnName, c.Type)
}
