package settings

import "sync"

// Store is the process-wide holder of the current Settings. It outlives
// any single session; sessions subscribe on mount and unsubscribe on
// close. Mutations come from elsewhere (the config watcher, a settings
// command), subscribers only read.
//
// Callbacks run synchronously on the mutating goroutine, and Subscribe
// invokes the callback once with the current value before returning.
// That initial call is what lets a session resolve the "query arrived
// before sources finished loading" race without polling.
type Store struct {
	mu      sync.Mutex
	current Settings
	version uint64
	subs    map[int]func(Settings)
	nextID  int
}

// NewStore creates a store seeded with initial.
func NewStore(initial Settings) *Store {
	return &Store{
		current: initial.Clone(),
		subs:    make(map[int]func(Settings)),
	}
}

// Get returns a copy of the current settings.
func (s *Store) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Version returns a counter incremented on every mutation. Useful for
// logging and for tests asserting that a write happened.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Set replaces the settings and notifies all subscribers.
func (s *Store) Set(settings Settings) {
	s.mu.Lock()
	s.current = settings.Clone()
	s.version++
	value, subs := s.snapshotLocked()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(value.Clone())
	}
}

// Update applies fn to a copy of the current settings and stores the
// result, notifying subscribers. Convenient for toggling one source.
func (s *Store) Update(fn func(*Settings)) {
	s.mu.Lock()
	updated := s.current.Clone()
	s.mu.Unlock()

	fn(&updated)
	s.Set(updated)
}

// Subscribe registers fn and invokes it synchronously with the current
// value before returning. The returned function unsubscribes and is safe
// to call more than once.
func (s *Store) Subscribe(fn func(Settings)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	current := s.current.Clone()
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// snapshotLocked copies the current value and subscriber list so
// callbacks run outside the lock; callbacks routinely call Get.
func (s *Store) snapshotLocked() (Settings, []func(Settings)) {
	subs := make([]func(Settings), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return s.current.Clone(), subs
}
