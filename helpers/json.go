package helpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexString is a nullable string which also accepts a JSON number or boolean, kept as its JSON text.
// JSON null, an object, an array and an absent field all leave Valid false.
type FlexString struct {
	Value string
	Valid bool
}

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*s = FlexString{}
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString{Value: str, Valid: true}
	case 't', 'f':
		*s = FlexString{Value: string(data), Valid: true}
	case '{', '[', 'n':
		// objects and arrays have no scalar form, so like null they leave the field unset
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected a JSON value, got %s", data)
		}
		*s = FlexString{Value: n.String(), Valid: true}
	}
	return nil
}

// Ptr returns nil for an invalid value
func (s FlexString) Ptr() *string {
	if !s.Valid {
		return nil
	}
	v := s.Value
	return &v
}

// FlexFloat is a nullable float which also accepts a numeric JSON string.
// Any value which is not a number, including an empty or non-numeric string, is treated as null.
type FlexFloat struct {
	Value float64
	Valid bool
}

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = FlexFloat{}
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			*f = FlexFloat{Value: v, Valid: true}
		}
	case 't', 'f', '{', '[', 'n':
		// not a number: the field is left unset
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("expected a JSON value, got %s", data)
		}
		*f = FlexFloat{Value: v, Valid: true}
	}
	return nil
}

// Ptr returns nil for an invalid value
func (f FlexFloat) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}
