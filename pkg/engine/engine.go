// Package engine implements the parallel-search engine behind a session:
// fan-out of one query to many sources, streaming aggregation of their
// results, and the observable loading/progress state a view renders from.
package engine

import (
	"errors"

	"vidmux/pkg/core"
)

// ErrNoSources is returned by Search when called with an empty source
// list. The session guards against this itself; the sentinel keeps a
// direct caller from silently searching nothing.
var ErrNoSources = errors.New("no sources to search")

// Snapshot is a point-in-time copy of the engine's observable state.
// Slices are copies; holders can keep a snapshot as long as they like.
type Snapshot struct {
	// Loading is true from fan-out start until the last source reports.
	Loading bool

	// Results is the merged result list, ordered by the current sort
	// preference. Partial while Loading.
	Results []core.Video

	// AvailableSources names the sources participating in the current
	// result set (the sources searched, or the sources a cached bundle
	// was built from).
	AvailableSources []string

	// CompletedSources counts sources that have reported, successfully
	// or not. Monotonically non-decreasing within one search; reset by
	// Search, Reset and LoadCached.
	CompletedSources int

	// TotalSources is the fan-out width of the current search.
	TotalSources int
}

// Settled reports whether a search ran to completion.
func (s Snapshot) Settled() bool {
	return !s.Loading && s.TotalSources > 0 && s.CompletedSources == s.TotalSources
}

// Engine is the search fan-out boundary a session talks to. One
// implementation ships here (Parallel); tests substitute fakes.
type Engine interface {
	// Search starts a fan-out for query across sources. It returns
	// immediately; progress and results stream to subscribers. A previous
	// in-flight search is abandoned: its late results are discarded.
	Search(query string, sources []core.Source, sortBy core.SortBy) error

	// Reset cancels in-flight work and zeroes all observable state.
	Reset()

	// LoadCached restores a previous result set without touching the
	// network. The engine reports settled: completed == total ==
	// len(availableSources), not loading.
	LoadCached(results []core.Video, availableSources []string)

	// ApplySorting re-sorts the current results in memory and notifies
	// subscribers. No fan-out.
	ApplySorting(sortBy core.SortBy)

	// State returns the current snapshot.
	State() Snapshot

	// Subscribe registers a callback invoked with a fresh snapshot after
	// every state change. The returned function unsubscribes.
	Subscribe(fn func(Snapshot)) func()
}
