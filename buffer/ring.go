package buffer

// Ring is the bounded topology: a fixed number of slots reused in place,
// with cursors advancing modulo the capacity. No slot is allocated or freed
// after construction. A producer must not write while the write-cursor slot
// is still filled and a consumer must not read while the read-cursor slot
// is empty; the engine enforces both by blocking on CanWrite/CanRead.
//
// At any instant the number of filled slots is between 0 and Cap.
type Ring struct {
	slots []slot
	write int // producer-side state
	read  int // consumer-side state
}

// NewRing returns a ring of n empty slots. n must be positive.
func NewRing(n int) *Ring {
	if n <= 0 {
		panic("buffer: ring capacity must be positive")
	}
	return &Ring{slots: make([]slot, n)}
}

// Bounded reports whether the topology can run out of writable slots.
// A ring can.
func (r *Ring) Bounded() bool { return true }

// CanWrite reports whether the write-cursor slot is empty.
func (r *Ring) CanWrite() bool { return !r.slots[r.write].filled.Load() }

// Write stores item in the write-cursor slot, marks it filled and advances
// the cursor. Producer-side exclusion required; the caller must have
// observed CanWrite.
func (r *Ring) Write(item int) {
	s := &r.slots[r.write]
	s.item = item
	// The flag is set last; the consumer side keys its visibility off it.
	s.filled.Store(true)
	r.write = (r.write + 1) % len(r.slots)
}

// CanRead reports whether the read-cursor slot is filled.
func (r *Ring) CanRead() bool { return r.slots[r.read].filled.Load() }

// Read drains the read-cursor slot and advances the cursor. Consumer-side
// exclusion required; the caller must have observed CanRead.
func (r *Ring) Read() int {
	s := &r.slots[r.read]
	item := s.item
	s.filled.Store(false)
	r.read = (r.read + 1) % len(r.slots)
	return item
}

// Cap returns the fixed slot count.
func (r *Ring) Cap() int { return len(r.slots) }

// Len counts the currently filled slots. The count is a moving snapshot
// under concurrent use but each flag read is atomic, so it always lands in
// [0, Cap].
func (r *Ring) Len() int {
	n := 0
	for i := range r.slots {
		if r.slots[i].filled.Load() {
			n++
		}
	}
	return n
}
