package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"vidmux/pkg/core"
	"vidmux/pkg/log"
)

// Config tunes a Parallel engine. Zero values get sensible defaults.
type Config struct {
	// ResultLimit is the per-source result cap passed to Source.Search.
	ResultLimit int

	// Concurrency bounds how many sources are queried at once.
	Concurrency int64

	// SourceTimeout bounds each individual source query. A slow source
	// times out alone; the rest of the fan-out is unaffected.
	SourceTimeout time.Duration
}

const (
	defaultResultLimit   = 25
	defaultConcurrency   = 4
	defaultSourceTimeout = 15 * time.Second
)

// Parallel is the production Engine: one goroutine per source, bounded by
// a weighted semaphore, each completion merged into the shared result list
// under a mutex and pushed to subscribers.
//
// A generation counter fences out stale work: Search, Reset and
// LoadCached each bump the generation, and a source completion belonging
// to an older generation is discarded instead of merged. That is what
// makes Reset's "no further partial results" guarantee hold even while
// source goroutines are still unwinding.
//
// Snapshots reach subscribers in the order they were captured. Completions
// land on different goroutines, so captured snapshots go through a queue
// drained by one goroutine at a time; without it, a subscriber could see
// the settled snapshot and then a stale partial one, with the completion
// counter moving backwards.
type Parallel struct {
	cfg Config

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	loading    bool
	results    []core.Video
	available  []string
	completed  int
	total      int
	sortBy     core.SortBy
	subs       map[int]func(Snapshot)
	nextID     int
	pending    []delivery
	delivering bool

	logger *log.Logger
}

// delivery is one captured snapshot waiting to reach the subscribers that
// were registered at capture time.
type delivery struct {
	snapshot Snapshot
	subs     []func(Snapshot)
}

var _ Engine = (*Parallel)(nil)

// NewParallel creates an engine with the given tuning.
func NewParallel(cfg Config) *Parallel {
	if cfg.ResultLimit <= 0 {
		cfg.ResultLimit = defaultResultLimit
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.SourceTimeout <= 0 {
		cfg.SourceTimeout = defaultSourceTimeout
	}
	return &Parallel{
		cfg:    cfg,
		sortBy: core.DefaultSort,
		subs:   make(map[int]func(Snapshot)),
		logger: log.ForComponent("engine"),
	}
}

// Search starts a new fan-out, abandoning any search still in flight.
func (p *Parallel) Search(query string, sources []core.Source, sortBy core.SortBy) error {
	if len(sources) == 0 {
		return ErrNoSources
	}

	searchID := uuid.New().String()[:8]

	ctx, cancel := context.WithCancel(context.Background())

	p.mu.Lock()
	p.generation++
	gen := p.generation
	if p.cancel != nil {
		p.cancel()
	}
	p.cancel = cancel
	p.loading = true
	p.results = nil
	p.available = sourceNames(sources)
	p.completed = 0
	p.total = len(sources)
	p.sortBy = sortBy
	p.publishLocked()
	p.mu.Unlock()

	p.logger.Infof("search %s: %q across %d sources", searchID, query, len(sources))
	p.deliver()

	sem := semaphore.NewWeighted(p.cfg.Concurrency)
	for _, src := range sources {
		go p.searchOne(ctx, sem, gen, searchID, src, query)
	}

	return nil
}

// searchOne queries a single source and merges its outcome.
func (p *Parallel) searchOne(ctx context.Context, sem *semaphore.Weighted, gen uint64, searchID string, src core.Source, query string) {
	if err := sem.Acquire(ctx, 1); err != nil {
		// Canceled while queued. The generation fence makes recording
		// the completion harmless, and skipping it would strand the
		// progress counter if cancellation raced the last acquire.
		p.complete(gen, searchID, src.Name(), nil, err)
		return
	}
	defer sem.Release(1)

	queryCtx, cancel := context.WithTimeout(ctx, p.cfg.SourceTimeout)
	defer cancel()

	started := time.Now()
	videos, err := src.Search(queryCtx, query, p.cfg.ResultLimit)
	if err != nil {
		p.logger.Warnf("search %s: source %s failed after %v: %v", searchID, src.Name(), time.Since(started).Round(time.Millisecond), err)
	} else {
		p.logger.Debugf("search %s: source %s returned %d results in %v", searchID, src.Name(), len(videos), time.Since(started).Round(time.Millisecond))
	}

	p.complete(gen, searchID, src.Name(), videos, err)
}

// complete merges one source's outcome into the engine state, unless the
// generation moved on. A failed source contributes no results but still
// advances the completion counter; beyond that counter, failure is
// indistinguishable from an empty result.
func (p *Parallel) complete(gen uint64, searchID, sourceName string, videos []core.Video, err error) {
	p.mu.Lock()
	if p.generation != gen {
		p.mu.Unlock()
		p.logger.Debugf("search %s: discarding stale completion from %s", searchID, sourceName)
		return
	}

	p.completed++
	if err == nil && len(videos) > 0 {
		p.results = append(p.results, videos...)
		core.SortVideos(p.results, p.sortBy)
	}
	if p.completed >= p.total {
		p.loading = false
	}
	done := !p.loading
	merged := len(p.results)
	p.publishLocked()
	p.mu.Unlock()

	if done {
		p.logger.Infof("search %s: settled with %d results", searchID, merged)
	}
	p.deliver()
}

// Reset cancels in-flight work and zeroes all observable state.
func (p *Parallel) Reset() {
	p.mu.Lock()
	p.generation++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.loading = false
	p.results = nil
	p.available = nil
	p.completed = 0
	p.total = 0
	p.publishLocked()
	p.mu.Unlock()

	p.deliver()
}

// LoadCached restores a previous result set, fencing out any in-flight
// search.
func (p *Parallel) LoadCached(results []core.Video, availableSources []string) {
	p.mu.Lock()
	p.generation++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.loading = false
	p.results = append([]core.Video(nil), results...)
	p.available = append([]string(nil), availableSources...)
	p.completed = len(availableSources)
	p.total = len(availableSources)
	p.publishLocked()
	p.mu.Unlock()

	p.logger.Infof("restored %d cached results from %d sources", len(results), len(availableSources))
	p.deliver()
}

// ApplySorting re-sorts current results in memory.
func (p *Parallel) ApplySorting(sortBy core.SortBy) {
	p.mu.Lock()
	p.sortBy = sortBy
	core.SortVideos(p.results, sortBy)
	p.publishLocked()
	p.mu.Unlock()

	p.deliver()
}

// State returns the current snapshot.
func (p *Parallel) State() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Subscribe registers a callback for state changes.
func (p *Parallel) Subscribe(fn func(Snapshot)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// snapshotLocked copies the state. Callers hold p.mu.
func (p *Parallel) snapshotLocked() Snapshot {
	return Snapshot{
		Loading:          p.loading,
		Results:          append([]core.Video(nil), p.results...),
		AvailableSources: append([]string(nil), p.available...),
		CompletedSources: p.completed,
		TotalSources:     p.total,
	}
}

// publishLocked queues the current state for the current subscribers.
// Callers hold p.mu and call deliver after unlocking.
func (p *Parallel) publishLocked() {
	subs := make([]func(Snapshot), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.pending = append(p.pending, delivery{snapshot: p.snapshotLocked(), subs: subs})
}

// deliver drains queued snapshots in capture order. The first caller
// becomes the drainer and hands out whatever accumulates while it runs;
// callers arriving mid-drain return immediately, their snapshot already
// queued behind earlier ones. No lock is held during a callback, so
// subscribers are free to call State or trigger further engine calls.
func (p *Parallel) deliver() {
	p.mu.Lock()
	if p.delivering {
		p.mu.Unlock()
		return
	}
	p.delivering = true
	for len(p.pending) > 0 {
		next := p.pending[0]
		p.pending = p.pending[1:]
		p.mu.Unlock()

		for _, fn := range next.subs {
			fn(next.snapshot)
		}

		p.mu.Lock()
	}
	p.pending = nil
	p.delivering = false
	p.mu.Unlock()
}

func sourceNames(sources []core.Source) []string {
	names := make([]string, 0, len(sources))
	for _, src := range sources {
		names = append(names, src.Name())
	}
	return names
}
