// Package ticket provides a fair mutual exclusion lock built on a ticket
// dispenser. Every caller of Lock draws a monotonically increasing ticket
// with a single atomic increment (ticket assignment is wait-free) and is
// admitted strictly in ticket order, so contenders enter the critical
// section in the exact order they arrived regardless of scheduling jitter.
//
// Waiting is busy-polling: a contender yields the processor between checks
// of the serving counter rather than parking. This trades CPU for
// simplicity and minimal handoff latency. For a goroutine-parking lock with
// the same FIFO contract, see the parked package.
package ticket

import (
	"runtime"
	"sync/atomic"
	"time"
)

// Lock is a FIFO-fair spin lock.
//
// The zero value is an unlocked Lock ready for use. A Lock must not be
// copied after first use.
//
// Unlock must be called exactly once per successful Lock or TryLock. The
// lock cannot detect a missing Unlock: the holder's ticket stays current
// forever and every later ticket holder starves. That obligation rests on
// the caller, same as with sync.Mutex.
type Lock struct {
	next    uint32 // next ticket to hand out
	serving uint32 // ticket currently admitted to the critical section
}

// New returns an unlocked ticket lock.
func New() *Lock { return &Lock{} }

// sleepDistance is the queue depth beyond which a waiter sleeps instead of
// yielding. Far back in the line a wakeup is not imminent, so burning
// scheduler passes on Gosched only steals cycles from the goroutines ahead.
const sleepDistance = 16

// Lock draws a ticket and blocks until that ticket is being served.
// Contenders are admitted in strict ticket order.
func (l *Lock) Lock() {
	me := atomic.AddUint32(&l.next, 1) - 1

	for {
		cur := atomic.LoadUint32(&l.serving)
		if cur == me {
			return
		}
		// me-cur is the number of holders that must release before our
		// turn; wraparound-safe because me is always >= cur modulo 2^32.
		if me-cur > sleepDistance {
			time.Sleep(time.Millisecond)
		} else {
			runtime.Gosched()
		}
	}
}

// TryLock acquires the lock only if no ticket is outstanding. It returns
// true if the lock was acquired. A false return draws no ticket, so a
// failed TryLock never delays other contenders.
func (l *Lock) TryLock() bool {
	t := atomic.LoadUint32(&l.next)
	if atomic.LoadUint32(&l.serving) != t {
		return false
	}
	// serving == next means no holder and no waiters. Claiming ticket t
	// succeeds only if nobody else drew a ticket in between; serving then
	// still equals t and the lock is ours.
	return atomic.CompareAndSwapUint32(&l.next, t, t+1)
}

// Unlock advances the serving counter, admitting the next ticket holder.
// It must be called exactly once per acquisition.
func (l *Lock) Unlock() { atomic.AddUint32(&l.serving, 1) }

// isFree reports whether no ticket is outstanding.
func (l *Lock) isFree() bool {
	return atomic.LoadUint32(&l.serving) == atomic.LoadUint32(&l.next)
}
