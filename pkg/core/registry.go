package core

import (
	"errors"
	"fmt"
	"sync"
)

// Process-wide prototype set, filled by source packages from init() and
// copied into every registry handed out afterwards.
var (
	protoMu    sync.RWMutex
	prototypes = make(map[string]Source)
)

// RegisterSourcePrototype makes a source type constructible by name.
// Source packages call this during init().
func RegisterSourcePrototype(name string, prototype Source) {
	protoMu.Lock()
	defer protoMu.Unlock()
	prototypes[name] = prototype
}

// GetGlobalRegistry returns a fresh registry seeded with every prototype
// registered so far. Each caller gets an independent instance set, so
// closing one registry's sources does not touch another's.
func GetGlobalRegistry() *Registry {
	protoMu.RLock()
	defer protoMu.RUnlock()

	registry := NewRegistry()
	for name, prototype := range prototypes {
		registry.prototypes[name] = prototype
	}
	return registry
}

// ConfigDecoder fills a source's config struct from whatever raw form
// the caller holds, typically a parsed TOML table. A nil decoder leaves
// the struct zeroed.
type ConfigDecoder func(into interface{}) error

// Registry holds one session's configured source instances and the
// prototypes they are built from.
type Registry struct {
	mu         sync.RWMutex
	prototypes map[string]Source
	sources    map[string]Source
}

func NewRegistry() *Registry {
	return &Registry{
		prototypes: make(map[string]Source),
		sources:    make(map[string]Source),
	}
}

// RegisterPrototype adds a prototype to this registry only.
func (r *Registry) RegisterPrototype(name string, prototype Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.prototypes[name]; exists {
		return fmt.Errorf("source prototype %s already registered", name)
	}
	r.prototypes[name] = prototype
	return nil
}

// CreateSource builds a configured instance from a registered prototype
// and stores it under instanceName. The decoder fills the prototype's
// config struct, which is validated before the factory runs, so the
// registry never holds a half-configured source. Creating over an
// existing name closes the previous instance.
func (r *Registry) CreateSource(instanceName, factoryType string, decode ConfigDecoder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prototype, exists := r.prototypes[factoryType]
	if !exists {
		return fmt.Errorf("source prototype %s not found", factoryType)
	}

	cfg := prototype.ConfigType()
	if decode != nil {
		if err := decode(cfg); err != nil {
			return fmt.Errorf("decoding config for source %s: %w", instanceName, err)
		}
	}
	if validator, ok := cfg.(interface{ Validate() error }); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("invalid config for source %s: %w", instanceName, err)
		}
	}

	source, err := prototype.Factory(instanceName, cfg)
	if err != nil {
		return fmt.Errorf("creating source %s: %w", instanceName, err)
	}

	if existing, exists := r.sources[instanceName]; exists {
		if err := existing.Close(); err != nil {
			return fmt.Errorf("closing existing source %s: %w", instanceName, err)
		}
	}

	r.sources[instanceName] = source
	return nil
}

func (r *Registry) GetSource(name string) (Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source, exists := r.sources[name]
	if !exists {
		return nil, fmt.Errorf("source %s not found", name)
	}
	return source, nil
}

// GetAllSources returns a copy of the instance map.
func (r *Registry) GetAllSources() map[string]Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]Source, len(r.sources))
	for name, src := range r.sources {
		result[name] = src
	}
	return result
}

// SourcesNamed returns the configured sources matching names, in the
// given order. Names nothing answers to are skipped, so callers can
// pass identifier lists that outlived their configuration.
func (r *Registry) SourcesNamed(names []string) []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]Source, 0, len(names))
	for _, name := range names {
		if src, ok := r.sources[name]; ok {
			matched = append(matched, src)
		}
	}
	return matched
}

// Close closes every instance and empties the registry. Prototypes
// survive, so the registry can build sources again afterwards.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, source := range r.sources {
		if err := source.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing source %s: %w", name, err))
		}
	}
	r.sources = make(map[string]Source)
	return errors.Join(errs...)
}
