package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type untaggedRow struct {
	StateCode    string
	BreweryCount int64
	Score        *float32
	Active       bool
	Payload      []byte
	hidden       string
}

func TestSchemaFromStruct(t *testing.T) {
	got, err := SchemaFromStruct(&untaggedRow{})
	require.NoError(t, err)

	assert.Equal(t, []*ColumnSchema{
		{SourceName: "StateCode", ColumnName: "state_code", Type: "VARCHAR"},
		{SourceName: "BreweryCount", ColumnName: "brewery_count", Type: "BIGINT"},
		{SourceName: "Score", ColumnName: "score", Type: "FLOAT", Nullable: true},
		{SourceName: "Active", ColumnName: "active", Type: "BOOLEAN"},
		{SourceName: "Payload", ColumnName: "payload", Type: "BLOB"},
	}, got.Columns)
}

func TestSchemaFromStruct_Errors(t *testing.T) {
	type badTag struct {
		Field string `parquet:"from"`
	}
	type badType struct {
		Field map[string]string
	}

	_, err := SchemaFromStruct(badTag{})
	assert.ErrorContains(t, err, "reserved keyword")

	_, err = SchemaFromStruct(badType{})
	assert.ErrorContains(t, err, "unsupported type")

	_, err = SchemaFromStruct("not a struct")
	assert.Error(t, err)
}

func TestPartitionSchema(t *testing.T) {
	s := PartitionSchema()

	assert.Equal(t, []string{"id", "name", "brewery_type", "city", "state", "country", "longitude", "latitude"}, s.ColumnNames())
	cols := s.AsMap()
	assert.False(t, cols["state"].Nullable)
	assert.False(t, cols["country"].Nullable)
	assert.True(t, cols["city"].Nullable)
	assert.Equal(t, "DOUBLE", cols["latitude"].Type)
}

func TestAggregateSchema(t *testing.T) {
	s := AggregateSchema()

	assert.Equal(t, []string{"country", "state", "brewery_type", "brewery_count"}, s.ColumnNames())
	assert.Equal(t, "BIGINT", s.AsMap()["brewery_count"].Type)
	assert.Equal(t, `CREATE TABLE gold ("country" VARCHAR NOT NULL, "state" VARCHAR NOT NULL, "brewery_type" VARCHAR NOT NULL, "brewery_count" BIGINT NOT NULL)`,
		s.CreateTableStatement("gold"))
	assert.Equal(t, `"country", "state", "brewery_type", "brewery_count"`, s.SelectList())
}

func TestRowSchema_Validate(t *testing.T) {
	s := AggregateSchema()

	assert.NoError(t, s.Validate([]string{"country", "state", "brewery_type", "brewery_count"}))
	assert.Error(t, s.Validate([]string{"country", "state", "brewery_count", "brewery_type"}))
	assert.Error(t, s.Validate([]string{"country", "state"}))
}
