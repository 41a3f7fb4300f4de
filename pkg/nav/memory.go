package nav

import "sync"

// Memory is an in-process Navigator backed by a history stack. It is the
// navigator used by the CLI and by tests; Push, Back and Forward stand in
// for the external navigation a browser would produce.
type Memory struct {
	mu     sync.Mutex
	stack  []Location
	index  int
	scroll int
	subs   map[int]func(Location)
	nextID int
}

var _ Navigator = (*Memory)(nil)

// NewMemory returns a navigator positioned at the given location.
func NewMemory(initial Location) *Memory {
	return &Memory{
		stack: []Location{initial.Clone()},
		subs:  make(map[int]func(Location)),
	}
}

// Current returns a copy of the current location.
func (m *Memory) Current() Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stack[m.index].Clone()
}

// Replace overwrites the current history entry in place. No new entry is
// created and subscribers are not notified. The scroll offset is reset
// unless opts.PreserveScroll is set.
func (m *Memory) Replace(loc Location, opts ReplaceOptions) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stack[m.index] = loc.Clone()
	if !opts.PreserveScroll {
		m.scroll = 0
	}
}

// Push adds a new history entry, discarding any forward entries, and
// notifies subscribers.
func (m *Memory) Push(loc Location) {
	m.mu.Lock()
	m.stack = append(m.stack[:m.index+1], loc.Clone())
	m.index = len(m.stack) - 1
	m.scroll = 0
	current, subs := m.snapshotLocked()
	m.mu.Unlock()

	notify(subs, current)
}

// Back moves one entry back in history, if possible, and notifies
// subscribers. Returns false when already at the oldest entry.
func (m *Memory) Back() bool {
	m.mu.Lock()
	if m.index == 0 {
		m.mu.Unlock()
		return false
	}
	m.index--
	m.scroll = 0
	current, subs := m.snapshotLocked()
	m.mu.Unlock()

	notify(subs, current)
	return true
}

// Forward moves one entry forward in history, if possible, and notifies
// subscribers. Returns false when already at the newest entry.
func (m *Memory) Forward() bool {
	m.mu.Lock()
	if m.index >= len(m.stack)-1 {
		m.mu.Unlock()
		return false
	}
	m.index++
	m.scroll = 0
	current, subs := m.snapshotLocked()
	m.mu.Unlock()

	notify(subs, current)
	return true
}

// Subscribe registers a callback for external navigation.
func (m *Memory) Subscribe(fn func(Location)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// SetScroll records the scroll offset of whatever view renders this
// session. Non-preserving navigation resets it to zero.
func (m *Memory) SetScroll(offset int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scroll = offset
}

// Scroll returns the current scroll offset.
func (m *Memory) Scroll() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scroll
}

// snapshotLocked copies the current location and subscriber list so
// callbacks run outside the lock. Callbacks commonly call back into the
// navigator (reading Current, replacing a parameter), which would deadlock
// if invoked while the lock is held.
func (m *Memory) snapshotLocked() (Location, []func(Location)) {
	current := m.stack[m.index].Clone()
	subs := make([]func(Location), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	return current, subs
}

func notify(subs []func(Location), loc Location) {
	for _, fn := range subs {
		fn(loc.Clone())
	}
}
