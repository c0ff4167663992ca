package helpers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexString_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  FlexString
	}{
		{name: "string", input: `{"v":"b54b16e1"}`, want: FlexString{Value: "b54b16e1", Valid: true}},
		{name: "integer", input: `{"v":1}`, want: FlexString{Value: "1", Valid: true}},
		{name: "empty string is valid", input: `{"v":""}`, want: FlexString{Value: "", Valid: true}},
		{name: "null", input: `{"v":null}`, want: FlexString{}},
		{name: "absent", input: `{}`, want: FlexString{}},
		{name: "bool", input: `{"v":true}`, want: FlexString{Value: "true", Valid: true}},
		{name: "object is null", input: `{"v":{"line1":"1 Main St"}}`, want: FlexString{}},
		{name: "array is null", input: `{"v":["a"]}`, want: FlexString{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var target struct {
				V FlexString `json:"v"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.input), &target))
			assert.Equal(t, tt.want, target.V)
		})
	}
}

func TestFlexFloat_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  FlexFloat
	}{
		{name: "number", input: `{"v":-97.46818222}`, want: FlexFloat{Value: -97.46818222, Valid: true}},
		{name: "numeric string", input: `{"v":"44.08683531"}`, want: FlexFloat{Value: 44.08683531, Valid: true}},
		{name: "empty string", input: `{"v":""}`, want: FlexFloat{}},
		{name: "null", input: `{"v":null}`, want: FlexFloat{}},
		{name: "absent", input: `{}`, want: FlexFloat{}},
		{name: "not numeric is null", input: `{"v":"north"}`, want: FlexFloat{}},
		{name: "bool is null", input: `{"v":false}`, want: FlexFloat{}},
		{name: "object is null", input: `{"v":{"deg":1}}`, want: FlexFloat{}},
		{name: "padded numeric string", input: `{"v":" 1.5 "}`, want: FlexFloat{Value: 1.5, Valid: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var target struct {
				V FlexFloat `json:"v"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.input), &target))
			assert.Equal(t, tt.want, target.V)
		})
	}
}

func TestFlex_Ptr(t *testing.T) {
	assert.Nil(t, FlexString{}.Ptr())
	assert.Nil(t, FlexFloat{}.Ptr())
	assert.Equal(t, "CA", *FlexString{Value: "CA", Valid: true}.Ptr())
	assert.Equal(t, 1.5, *FlexFloat{Value: 1.5, Valid: true}.Ptr())
}
