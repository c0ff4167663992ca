package constants

const (
	EnvLogLevel   = "BREWERY_LOG_LEVEL"
	EnvConfigPath = "BREWERY_CONFIG"
)
