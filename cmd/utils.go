package cmd

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"vidmux/pkg/config"
	"vidmux/pkg/core"
)

// createSourcesFromConfig builds every source declared in the config,
// decoding each raw [sources.NAME.config] table into the prototype's
// config struct.
func createSourcesFromConfig(registry *core.Registry, cfg *config.Config) error {
	for name := range cfg.Sources {
		srcType, rawConfig, err := cfg.GetSourceConfig(name)
		if err != nil {
			return fmt.Errorf("getting config for source %s: %w", name, err)
		}
		if err := registry.CreateSource(name, srcType, tomlDecoder(rawConfig)); err != nil {
			return fmt.Errorf("configuring source %s: %w", name, err)
		}
	}
	return nil
}

// tomlDecoder adapts a raw config table, as go-toml leaves it after
// parsing into interface{}, to the registry's decoder contract via a
// marshal round-trip. A source block without a config table decodes to
// nothing and keeps the zeroed struct.
func tomlDecoder(raw interface{}) core.ConfigDecoder {
	if raw == nil {
		return nil
	}
	return func(into interface{}) error {
		data, err := toml.Marshal(raw)
		if err != nil {
			return fmt.Errorf("marshaling raw config: %w", err)
		}
		return toml.Unmarshal(data, into)
	}
}
