// Package session is the orchestration core of a search: it owns the
// query lifecycle and wires the parallel-search engine, the settings
// store, the result cache and the two facet synchronizers into one
// coherent state machine.
//
// A Session is event-driven. State changes on user calls (HandleSearch,
// HandleReset), on settings store notifications, on navigator callbacks
// and on engine snapshots. All transitions serialize through one mutex,
// and the session never calls a collaborator while holding it, so
// callbacks are free to call back in.
package session

import (
	"strings"
	"sync"

	"vidmux/pkg/cache"
	"vidmux/pkg/core"
	"vidmux/pkg/engine"
	"vidmux/pkg/facet"
	"vidmux/pkg/log"
	"vidmux/pkg/nav"
	"vidmux/pkg/settings"
)

// URL parameter names shared between the session and anything that seeds
// or inspects locations.
const (
	QueryParam   = "q"
	SourcesParam = "sources"
	TypesParam   = "types"
)

// Session drives one search session from mount to close.
type Session struct {
	navigator nav.Navigator
	engine    engine.Engine
	store     *settings.Store
	registry  *core.Registry
	cache     cache.Store

	sources *facet.Synchronizer
	types   *facet.Synchronizer

	mu                  sync.Mutex
	query               string
	hasSearched         bool
	searchedWithSources bool
	pendingSave         bool
	sortBy              core.SortBy
	mounted             bool
	unsubscribe         []func()

	writeQuery func(query string)

	logger *log.Logger
}

// Option adjusts a Session at construction time.
type Option func(*Session)

// WithQueryWriter replaces the function that mirrors the query into the
// URL. The default writes the q parameter through the navigator; an
// embedding UI can substitute its own address handling.
func WithQueryWriter(fn func(query string)) Option {
	return func(s *Session) {
		s.writeQuery = fn
	}
}

// New creates a session over its collaborators. The cache store may be
// nil, in which case mount-time restoration is skipped and settled
// results are not persisted. The sort preference is seeded from the
// settings store so the first search already uses it.
func New(navigator nav.Navigator, eng engine.Engine, store *settings.Store, registry *core.Registry, cacheStore cache.Store, opts ...Option) *Session {
	s := &Session{
		navigator: navigator,
		engine:    eng,
		store:     store,
		registry:  registry,
		cache:     cacheStore,
		sortBy:    store.Get().SortBy,
		logger:    log.ForComponent("session"),
	}
	s.sources = facet.NewSynchronizer(SourcesParam, facet.SourceOf, navigator)
	s.types = facet.NewSynchronizer(TypesParam, facet.TypeOf, navigator)
	s.writeQuery = s.defaultQueryWriter

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mount starts the session: hydrate the facet synchronizers from the
// URL, restore cached results when they answer the URL's query, fall
// back to a fresh search otherwise, and establish the navigator, engine
// and settings subscriptions. Mount runs at most once; further calls are
// no-ops.
func (s *Session) Mount() {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return
	}
	s.mounted = true
	s.mu.Unlock()

	s.sources.Hydrate()
	s.types.Hydrate()

	unsubNav := s.navigator.Subscribe(s.locationChanged)
	unsubEngine := s.engine.Subscribe(s.snapshotChanged)
	s.mu.Lock()
	s.unsubscribe = append(s.unsubscribe, unsubNav, unsubEngine)
	s.mu.Unlock()

	query := strings.TrimSpace(s.navigator.Current().Params.Get(QueryParam))
	if query != "" && !s.restoreFromCache(query) {
		s.HandleSearch(query)
	}

	// Subscribed last: the store calls back synchronously, and that
	// initial call must observe the latch left by restoration or by the
	// first search, or it would dispatch a duplicate.
	unsubSettings := s.store.Subscribe(s.settingsChanged)
	s.mu.Lock()
	s.unsubscribe = append(s.unsubscribe, unsubSettings)
	s.mu.Unlock()
}

// Close tears down the subscriptions established by Mount. The
// navigator, engine, settings store and cache outlive the session and
// are left untouched.
func (s *Session) Close() {
	s.mu.Lock()
	unsubs := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}

// HandleSearch runs a user-initiated search. Blank and whitespace-only
// queries are ignored. The query is mirrored into the URL before the
// fan-out is dispatched.
func (s *Session) HandleSearch(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	s.mu.Lock()
	s.query = query
	s.hasSearched = true
	s.mu.Unlock()

	s.writeQuery(query)
	s.ExecuteSearch(query)
}

// ExecuteSearch dispatches query to the enabled configured sources. With
// zero enabled sources it reports false and changes no state; the
// settings subscription retries once sources appear. Otherwise the
// searched-with-sources latch is set before the fan-out starts, so
// settings notifications arriving mid-search cannot dispatch the same
// query a second time.
func (s *Session) ExecuteSearch(query string) bool {
	enabled := s.enabledSources(s.store.Get())
	if len(enabled) == 0 {
		s.logger.Debugf("no enabled sources for %q, deferring", query)
		return false
	}

	s.mu.Lock()
	s.searchedWithSources = true
	s.pendingSave = true
	sortBy := s.sortBy
	s.mu.Unlock()

	if err := s.engine.Search(query, enabled, sortBy); err != nil {
		s.logger.Warnf("search %q did not start: %v", query, err)
		s.mu.Lock()
		s.searchedWithSources = false
		s.pendingSave = false
		s.mu.Unlock()
		return false
	}
	return true
}

// HandleReset returns the session to idle: query cleared, latch cleared,
// engine state zeroed, URL replaced with the bare root. The facet
// synchronizers are reconciled against the cleaned URL so selections do
// not leak into the next search.
func (s *Session) HandleReset() {
	s.mu.Lock()
	s.query = ""
	s.hasSearched = false
	s.searchedWithSources = false
	s.pendingSave = false
	s.mu.Unlock()

	s.engine.Reset()
	s.navigator.Replace(nav.NewLocation("/"), nav.ReplaceOptions{PreserveScroll: true})

	loc := s.navigator.Current()
	s.sources.LocationChanged(loc)
	s.types.LocationChanged(loc)
}

// Query returns the current query, empty when idle.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// HasSearched reports whether this session has run a search or restored
// one from cache.
func (s *Session) HasSearched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasSearched
}

// SortBy returns the sort preference the session last adopted from the
// settings store.
func (s *Session) SortBy() core.SortBy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortBy
}

// Sources returns the synchronizer for the source facet.
func (s *Session) Sources() *facet.Synchronizer {
	return s.sources
}

// Types returns the synchronizer for the content type facet.
func (s *Session) Types() *facet.Synchronizer {
	return s.types
}

// State returns the engine's current snapshot.
func (s *Session) State() engine.Snapshot {
	return s.engine.State()
}

// FilteredResults applies both facet selections to the engine's current
// result list.
func (s *Session) FilteredResults() []core.Video {
	snap := s.engine.State()
	return s.types.Filter(s.sources.Filter(snap.Results))
}

// restoreFromCache loads the cached bundle and restores it when it
// answers exactly the mounted query with a non-empty result set. A load
// error counts as a miss.
func (s *Session) restoreFromCache(query string) bool {
	if s.cache == nil {
		return false
	}

	bundle, err := s.cache.Load()
	if err != nil {
		s.logger.Warnf("cache load failed: %v", err)
		return false
	}
	if bundle == nil || bundle.Query != query || len(bundle.Results) == 0 {
		return false
	}

	s.mu.Lock()
	s.query = query
	s.hasSearched = true
	s.searchedWithSources = true
	s.mu.Unlock()

	s.logger.Infof("restored %d cached results for %q", len(bundle.Results), query)
	s.engine.LoadCached(bundle.Results, bundle.AvailableSources)
	return true
}

// settingsChanged is the settings-store callback. It adopts sort
// changes, dispatches the deferred search once sources become available,
// and re-sorts settled results in place when only the sort changed.
func (s *Session) settingsChanged(st settings.Settings) {
	snap := s.engine.State()
	enabled := s.enabledSources(st)

	s.mu.Lock()
	sortChanged := st.SortBy != s.sortBy
	s.sortBy = st.SortBy

	deferred := s.query != "" && len(enabled) > 0 && !s.searchedWithSources && !snap.Loading
	query := s.query
	if deferred {
		s.hasSearched = true
		s.searchedWithSources = true
		s.pendingSave = true
	}
	s.mu.Unlock()

	if deferred {
		s.logger.Infof("sources available, dispatching deferred search %q", query)
		if err := s.engine.Search(query, enabled, st.SortBy); err != nil {
			s.logger.Warnf("deferred search %q did not start: %v", query, err)
			s.mu.Lock()
			s.searchedWithSources = false
			s.pendingSave = false
			s.mu.Unlock()
		}
		return
	}

	if sortChanged && snap.Settled() && len(snap.Results) > 0 {
		s.engine.ApplySorting(st.SortBy)
	}
}

// snapshotChanged is the engine callback. It prunes facet selections
// against what the new state actually offers and persists the bundle
// once a dispatched search settles.
func (s *Session) snapshotChanged(snap engine.Snapshot) {
	s.sources.SetAvailable(snap.AvailableSources)
	if len(snap.Results) > 0 {
		s.types.SetAvailable(typeValues(snap.Results))
	}

	var saveQuery string
	s.mu.Lock()
	if snap.Settled() && s.pendingSave {
		s.pendingSave = false
		saveQuery = s.query
	}
	s.mu.Unlock()

	if saveQuery == "" || s.cache == nil {
		return
	}
	bundle := cache.Bundle{
		Query:            saveQuery,
		Results:          snap.Results,
		AvailableSources: snap.AvailableSources,
	}
	if err := s.cache.Save(bundle); err != nil {
		s.logger.Warnf("failed to cache results for %q: %v", saveQuery, err)
	}
}

// locationChanged is the navigator callback for external navigation
// (push, back, forward). Replace never lands here, so the synchronizers'
// own URL writes do not echo back as inbound changes.
func (s *Session) locationChanged(loc nav.Location) {
	s.sources.LocationChanged(loc)
	s.types.LocationChanged(loc)
}

// defaultQueryWriter mirrors the query into the URL's q parameter: set
// when non-empty, removed when empty, skipped entirely when the URL
// already agrees.
func (s *Session) defaultQueryWriter(query string) {
	loc := s.navigator.Current()
	if query == "" {
		if !loc.Params.Has(QueryParam) {
			return
		}
		loc.Params.Del(QueryParam)
	} else {
		if loc.Params.Get(QueryParam) == query {
			return
		}
		loc.Params.Set(QueryParam, query)
	}
	s.navigator.Replace(loc, nav.ReplaceOptions{PreserveScroll: true})
}

// enabledSources maps the store's enabled IDs to configured sources,
// skipping IDs nothing in the registry answers to.
func (s *Session) enabledSources(st settings.Settings) []core.Source {
	return s.registry.SourcesNamed(st.EnabledSourceIDs())
}

// typeValues lists the distinct content types present in videos, in
// badge order.
func typeValues(videos []core.Video) []string {
	badges := facet.CountTypes(videos)
	values := make([]string, 0, len(badges))
	for _, b := range badges {
		values = append(values, b.Value)
	}
	return values
}
