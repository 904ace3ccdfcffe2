package scope

// Option configures a Renderer during creation.
//
// Example:
//
//	// Backend from the registry (Config.Backend, "raster" by default)
//	r, err := scope.New(cfg, 4)
//
//	// Explicit backend (dependency injection)
//	r, err := scope.New(cfg, 4, scope.WithBackend(record.New()))
type Option func(*options)

// options holds optional configuration for Renderer creation.
type options struct {
	backend Backend
}

// WithBackend sets the backend used to create the surface,
// bypassing the registry lookup of Config.Backend.
func WithBackend(b Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}
