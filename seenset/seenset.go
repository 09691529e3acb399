// Package seenset persists the set of listing identifiers that have already
// been notified on. The set only ever grows; there is no eviction.
package seenset

// Store is a loaded seen-set. Implementations load their backing storage at
// open time, treat missing or corrupt storage as an empty set, and write back
// at Flush only when the set grew since open. Stores are used from a single
// goroutine per cycle.
type Store interface {
	// Contains reports whether id has been recorded, now or in any earlier
	// cycle.
	Contains(id string) bool

	// Record adds id to the set and reports whether it was newly added.
	Record(id string) bool

	// Len returns the current size of the set.
	Len() int

	// Flush persists additions made since open. A no-op when nothing was
	// recorded.
	Flush() error
}

// Memory is an unpersisted Store. It backs tests and serves as the fallback
// when persistent storage cannot be opened: the cycle still runs with an
// empty initial set and Flush never fails.
type Memory struct {
	ids map[string]struct{}
}

// New creates an empty in-memory store.
func New() *Memory {
	return &Memory{ids: make(map[string]struct{})}
}

func (m *Memory) Contains(id string) bool {
	_, ok := m.ids[id]
	return ok
}

func (m *Memory) Record(id string) bool {
	if _, ok := m.ids[id]; ok {
		return false
	}
	m.ids[id] = struct{}{}
	return true
}

func (m *Memory) Len() int { return len(m.ids) }

func (m *Memory) Flush() error { return nil }
