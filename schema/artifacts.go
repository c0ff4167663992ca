package schema

import (
	"github.com/turbot/brewery-pipeline/types"
)

// PartitionSchema returns the schema of a silver partition file
func PartitionSchema() *RowSchema {
	return mustSchema(types.Brewery{})
}

// AggregateSchema returns the schema of the gold artifact
func AggregateSchema() *RowSchema {
	return mustSchema(types.BreweryAggregate{})
}

func mustSchema(s any) *RowSchema {
	res, err := SchemaFromStruct(s)
	if err != nil {
		// artifact row types are fixed at compile time
		panic(err)
	}
	return res
}
