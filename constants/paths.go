package constants

const (
	DefaultSourceURL  = "https://api.openbrewerydb.org/v1/breweries"
	DefaultRawPath    = "/opt/airflow/data/raw/breweries_raw.json"
	DefaultSilverRoot = "/opt/airflow/data/silver"
	DefaultGoldRoot   = "/opt/airflow/data/gold"
	DefaultSchedule   = "@daily"

	PartitionFileName = "breweries.parquet"
	AggregateFileName = "breweries_aggregated.parquet"
	ParquetExtension  = ".parquet"

	// RawJSONIndent matches the indentation used for the raw snapshot
	RawJSONIndent = "    "
)
