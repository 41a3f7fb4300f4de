// Package settings holds the process-wide user preferences that steer a
// search session: which sources are enabled and how results are sorted.
// A Store publishes changes to subscribers synchronously; a Watcher feeds
// the store from the config file so edits apply without a restart.
package settings

import "vidmux/pkg/core"

// SourceSetting is the per-source toggle as users see it.
type SourceSetting struct {
	ID      string `json:"id"`
	Enabled bool   `json:"enabled"`
}

// Settings is the full preference snapshot handed to subscribers.
type Settings struct {
	Sources []SourceSetting `json:"sources"`
	SortBy  core.SortBy     `json:"sort_by"`
}

// EnabledSourceIDs returns the IDs of all enabled sources, in declaration
// order.
func (s Settings) EnabledSourceIDs() []string {
	ids := make([]string, 0, len(s.Sources))
	for _, src := range s.Sources {
		if src.Enabled {
			ids = append(ids, src.ID)
		}
	}
	return ids
}

// Enabled reports whether the source with the given ID is enabled.
func (s Settings) Enabled(id string) bool {
	for _, src := range s.Sources {
		if src.ID == id {
			return src.Enabled
		}
	}
	return false
}

// Clone returns a deep copy so subscribers can hold onto a snapshot
// without racing later mutations.
func (s Settings) Clone() Settings {
	out := s
	out.Sources = append([]SourceSetting(nil), s.Sources...)
	return out
}
