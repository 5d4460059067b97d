// Package config provides configuration management for the schema
// evolution registry service, following the koanf-based layered
// loader used across this codebase's ambient stack.
package config

// Config is the registry service's top-level configuration.
type Config struct {
	Server   ServerConfig  `koanf:"server" validate:"required"`
	Log      LogConfig     `koanf:"log" validate:"required"`
	Strategy string        `koanf:"strategy" validate:"oneof=none backward forward full"`
	Cache    CacheConfig   `koanf:"cache"`
	Metrics  MetricsConfig `koanf:"metrics"`
}

// ServerConfig holds the HTTP API server's bind settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port" validate:"required,min=1,max=65535"`
}

// LogConfig controls the logrus logger's level and output format.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

// CacheConfig sizes the in-memory LRU cache of parsed schemas keyed by
// content hash.
type CacheConfig struct {
	Size int `koanf:"size" validate:"min=1"`
}

// MetricsConfig controls exposure of the Prometheus /metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}
