package schema

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/iancoleman/strcase"
)

func SchemaFromStruct(s any) (*RowSchema, error) {
	return SchemaFromType(reflect.TypeOf(s))
}

func SchemaFromType(t reflect.Type) (*RowSchema, error) {
	// reflect over parquet tags to build schema
	var res = &RowSchema{}

	// If rowStruct is a pointer, get the element type
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot build a schema from %s: expected a struct", t)
	}

	var errorList []error
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		var p = &ParquetTag{}
		if tag, ok := field.Tag.Lookup("parquet"); ok {
			var err error
			p, err = ParseParquetTag(tag)
			if err != nil {
				errorList = append(errorList, fmt.Errorf("field %s: %w", field.Name, err))
				continue
			}
			if p.Skip {
				continue
			}
		}

		// if the tag does not specify a name, use the field name
		if p.Name == "" {
			p.Name = strcase.ToSnake(field.Name)
		}

		columnType, err := getColumnType(field.Type)
		if err != nil {
			errorList = append(errorList, fmt.Errorf("failed to get schema for field %s: %w", field.Name, err))
			continue
		}

		res.Columns = append(res.Columns, &ColumnSchema{
			SourceName: field.Name,
			ColumnName: p.Name,
			Type:       columnType,
			Nullable:   p.Optional || field.Type.Kind() == reflect.Ptr,
		})
	}

	if len(errorList) > 0 {
		return nil, errors.Join(errorList...)
	}

	return res, nil
}

func getColumnType(t reflect.Type) (string, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Bool:
		return "BOOLEAN", nil
	case reflect.Int8:
		return "TINYINT", nil
	case reflect.Int16:
		return "SMALLINT", nil
	case reflect.Int32:
		return "INTEGER", nil
	case reflect.Int, reflect.Int64:
		return "BIGINT", nil
	case reflect.Uint8:
		return "UTINYINT", nil
	case reflect.Uint16:
		return "USMALLINT", nil
	case reflect.Uint32:
		return "UINTEGER", nil
	case reflect.Uint, reflect.Uint64:
		return "UBIGINT", nil
	case reflect.Float32:
		return "FLOAT", nil
	case reflect.Float64:
		return "DOUBLE", nil
	case reflect.String:
		return "VARCHAR", nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return "BLOB", nil
		}
	}
	// nested and repeated types are not used by any pipeline artifact
	return "", fmt.Errorf("unsupported type %s", t)
}
