package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// ParquetTag represents the components of a parquet struct tag, in the form
// `parquet:"<name>[,<option>...]"`
type ParquetTag struct {
	Name     string
	Optional bool
	Skip     bool
}

// options understood by the parquet writer which do not affect the logical schema
var passthroughOptions = map[string]struct{}{
	"snappy": {},
	"gzip":   {},
	"zstd":   {},
	"lz4":    {},
	"plain":  {},
	"dict":   {},
	"delta":  {},
}

// ParseParquetTag parses and validates a parquet tag string
func ParseParquetTag(tag string) (*ParquetTag, error) {
	pt := &ParquetTag{}

	// NOTE: if tag is "-" then skip the field
	if tag == "-" {
		pt.Skip = true
		return pt, nil
	}

	parts := strings.Split(tag, ",")
	pt.Name = strings.TrimSpace(parts[0])
	for _, part := range parts[1:] {
		option := strings.TrimSpace(part)
		switch option {
		case "optional":
			pt.Optional = true
		case "":
			return nil, fmt.Errorf("invalid parquet tag: %s - empty option", tag)
		default:
			if _, ok := passthroughOptions[option]; !ok {
				return nil, fmt.Errorf("invalid parquet tag: %s, option '%s' not recognized", tag, option)
			}
		}
	}

	return pt.validate()
}

var (
	quotedRegex   = regexp.MustCompile(`^".*"$`)
	unquotedRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)
)

var reservedKeywords = map[string]struct{}{
	"ALL":    {},
	"AND":    {},
	"AS":     {},
	"ASC":    {},
	"CASE":   {},
	"CAST":   {},
	"COLUMN": {},
	"CREATE": {},
	"DESC":   {},
	"FROM":   {},
	"GROUP":  {},
	"HAVING": {},
	"IN":     {},
	"IS":     {},
	"JOIN":   {},
	"LIMIT":  {},
	"NOT":    {},
	"NULL":   {},
	"OR":     {},
	"ORDER":  {},
	"SELECT": {},
	"TABLE":  {},
	"TO":     {},
	"UNION":  {},
	"WHERE":  {},
	"WITH":   {},
}

func (t *ParquetTag) validate() (*ParquetTag, error) {
	// an empty name means the column name is derived from the field name
	if t.Name == "" {
		return t, nil
	}
	// quoted identifiers can use any keyword or character https://duckdb.org/docs/sql/dialect/keywords_and_identifiers.html#identifiers
	if quotedRegex.MatchString(t.Name) {
		return t, nil
	}
	if !unquotedRegex.MatchString(t.Name) {
		return nil, fmt.Errorf("invalid parquet tag: name '%s' must be a valid DuckDB identifier", t.Name)
	}
	if _, reserved := reservedKeywords[strings.ToUpper(t.Name)]; reserved {
		return nil, fmt.Errorf("invalid parquet tag: name '%s' cannot be a reserved keyword", t.Name)
	}
	return t, nil
}
