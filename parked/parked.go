// Package parked implements a FIFO-fair mutual exclusion lock that parks
// waiting goroutines instead of spinning. It keeps the same strict
// admission-order contract as the ticket package: contenders enter the
// critical section in the exact order they queued.
//
// The lock is a Mellor-Crummey Scott style queue: each contender appends a
// node to an implicit wait queue with one atomic swap, then blocks on its
// own channel until its predecessor hands the lock over. Each waiter blocks
// on private state, so a release wakes exactly the next contender and
// nothing else. Queue nodes are recycled through a sync.Pool.
//
// Use this variant when critical sections are long enough that burning CPU
// in a spin loop is a real cost; the ticket lock remains the better choice
// for very short sections.
package parked

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// waiter is one contender's position in the wait queue.
type waiter struct {
	next  atomic.Pointer[waiter]
	ready chan struct{} // buffered; predecessor hands the lock over here
}

// Lock is a FIFO-fair queue lock with parked waiting.
//
// The zero value is an unlocked Lock ready for use. A Lock must not be
// copied after first use. Unlock must be called exactly once per successful
// Lock or TryLock; a missing Unlock starves every queued contender.
type Lock struct {
	tail atomic.Pointer[waiter]

	// owner is the holder's queue node. It is written at the end of Lock
	// and read at the start of Unlock, both inside the critical section,
	// so the lock itself guards it.
	owner *waiter

	pool sync.Pool
}

// New returns an unlocked parked lock.
func New() *Lock { return new(Lock) }

// Lock queues the caller and blocks until every earlier contender has
// released. The caller parks on its own channel; no spinning occurs while
// predecessors hold the lock.
func (l *Lock) Lock() {
	w := l.node()
	pred := l.tail.Swap(w) // atomically take the last place in line

	if pred != nil {
		// Link behind our predecessor and sleep until it hands over.
		pred.next.Store(w)
		<-w.ready
	}
	l.owner = w
}

// TryLock acquires the lock only if nobody holds it or waits for it.
// Returns true if the lock was acquired. A failed TryLock leaves no trace
// in the queue.
func (l *Lock) TryLock() bool {
	w := l.node()
	if l.tail.CompareAndSwap(nil, w) {
		l.owner = w
		return true
	}
	l.free(w)
	return false
}

// Unlock hands the lock to the next queued contender, if any.
func (l *Lock) Unlock() {
	w := l.owner
	l.owner = nil

	succ := w.next.Load()
	if succ == nil {
		// Nobody visibly queued. If the tail is still us, the queue is
		// empty and we are done.
		if l.tail.CompareAndSwap(w, nil) {
			l.free(w)
			return
		}
		// A contender swapped the tail but has not linked in yet; wait
		// for the link to appear.
		for {
			if succ = w.next.Load(); succ != nil {
				break
			}
			runtime.Gosched()
		}
	}

	succ.ready <- struct{}{}
	l.free(w)
}

// IsFree returns true if the lock is currently free.
func (l *Lock) IsFree() bool { return l.tail.Load() == nil }

func (l *Lock) node() *waiter {
	if v := l.pool.Get(); v != nil {
		return v.(*waiter)
	}
	return &waiter{ready: make(chan struct{}, 1)}
}

func (l *Lock) free(w *waiter) {
	w.next.Store(nil)
	l.pool.Put(w)
}
