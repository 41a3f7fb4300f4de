package core

import (
	"context"
)

// Source represents a search backend that can answer free-text queries
// with video results. All sources in vidmux implement this interface to
// participate in aggregated searches.
//
// Sources are self-contained units that:
// - Know how to query their specific backend (HTTP API, local catalog, etc.)
// - Convert backend responses into Video values
// - Manage their own configuration and lifecycle
//
// Key concepts:
// - Type vs Name: Type is the source category (e.g., "invidious"), Name is
//   the instance (e.g., "invidious_main"). Two instances of the same type
//   pointed at different servers are distinct sources.
// - Isolation: a failing source never fails the aggregate search; the
//   engine records the error and merges whatever the other sources return.
// - Configuration: sources validate and manage their own settings.
//
// Example implementation pattern:
//
//	type MySource struct {
//		config       *Config
//		client       *http.Client
//		instanceName string
//	}
//
//	func (s *MySource) Type() string { return "myapi" }
//	func (s *MySource) Name() string { return s.instanceName }
//	// ... implement other methods
//
// Registration pattern:
//
//	func init() {
//		prototype := &MySource{}
//		RegisterSourcePrototype("myapi", prototype)
//	}
type Source interface {
	// Type returns the source type identifier.
	// This should be a constant string that identifies the kind of backend
	// (e.g., "invidious", "peertube", "static").
	// Used for factory registration and configuration matching.
	Type() string

	// Name returns the unique instance name for this source.
	// This is the value stamped onto every Video the instance returns and
	// the value users toggle in the source facet, so it must be stable
	// across searches.
	Name() string

	// Search runs a free-text query against the backend and returns up to
	// limit results, ordered by the backend's own relevance. Implementations
	// must stamp Source, ContentType and Rank on every returned Video and
	// respect context cancellation.
	Search(ctx context.Context, query string, limit int) ([]Video, error)

	// ConfigType returns a pointer to an empty config struct of the type
	// this source expects. The registry decodes raw configuration into it
	// before constructing an instance.
	ConfigType() interface{}

	// SetConfig applies a validated configuration to the source.
	// Returns an error if the config is of the wrong type or invalid.
	SetConfig(config interface{}) error

	// GetConfig returns the current configuration.
	// Used to inspect or serialize a configured instance's settings.
	GetConfig() interface{}

	// Close releases any resources held by the source.
	Close() error

	// Factory creates a fully configured instance from a prototype.
	// Called by the registry; instanceName becomes the new source's Name.
	Factory(instanceName string, config interface{}) (Source, error)
}
