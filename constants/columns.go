package constants

// parquet column names - these follow the field names served by the brewery API
const (
	ColumnId           = "id"
	ColumnName         = "name"
	ColumnBreweryType  = "brewery_type"
	ColumnCity         = "city"
	ColumnState        = "state"
	ColumnCountry      = "country"
	ColumnLongitude    = "longitude"
	ColumnLatitude     = "latitude"
	ColumnBreweryCount = "brewery_count"
)
