package parse

// Config is implemented by every struct ParseConfig decodes into
type Config interface {
	Validate() error
}

// configPtr constrains a type parameter to *T where *T implements Config
type configPtr[T any] interface {
	*T
	Config
}
