// Package cache persists the last search results so a session can restore
// them instantly on mount instead of re-running the fan-out. One bundle is
// kept per query; the newest bundle wins at load time.
package cache

import (
	"time"

	"vidmux/pkg/core"
)

// Bundle is one cached result set: the query it answered, the merged
// results, and the sources that produced them.
type Bundle struct {
	Query            string       `json:"query"`
	Results          []core.Video `json:"results"`
	AvailableSources []string     `json:"available_sources"`
	SavedAt          time.Time    `json:"saved_at"`
}

// Store is the cache boundary a session talks to.
type Store interface {
	// Load returns the most recently saved bundle, or nil when the cache
	// is empty.
	Load() (*Bundle, error)

	// Save stores a bundle, replacing any previous bundle for the same
	// query.
	Save(bundle Bundle) error

	// Clear removes all cached bundles.
	Clear() error

	// Close releases the underlying storage.
	Close() error
}
