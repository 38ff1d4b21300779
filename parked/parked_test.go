package parked

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockConcurrentAccess(t *testing.T) {
	lock := New()
	const numGoroutines = 100
	const iterations = 500
	counter := 0
	var wg sync.WaitGroup

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				lock.Lock()
				counter++
				lock.Unlock()
			}
		}()
	}
	wg.Wait()

	expected := numGoroutines * iterations
	assert.Equal(t, expected, counter, "Expected counter to be %d, got %d", expected, counter)
}

// TestLockQueueOrder verifies FIFO handoff: waiters queued one at a time
// while the lock is held must be admitted in queueing order. Queue position
// is fixed by the tail swap, so each waiter is only started once the
// previous one is visibly in line.
func TestLockQueueOrder(t *testing.T) {
	lock := New()
	lock.Lock()

	const numWaiters = 8
	var order []int
	var mu sync.Mutex
	var wg sync.WaitGroup

	wg.Add(numWaiters)
	for i := 0; i < numWaiters; i++ {
		prevTail := lock.tail.Load()
		go func(id int) {
			defer wg.Done()
			lock.Lock()
			mu.Lock()
			order = append(order, id)
			mu.Unlock()
			lock.Unlock()
		}(i)

		// Wait until this waiter has taken its place in the queue before
		// starting the next one.
		for lock.tail.Load() == prevTail {
			time.Sleep(time.Microsecond)
		}
	}

	lock.Unlock()
	wg.Wait()

	expected := make([]int, numWaiters)
	for i := range expected {
		expected[i] = i
	}
	assert.Equal(t, expected, order, "waiters must be admitted in queueing order")
}

func TestTryLock(t *testing.T) {
	lock := New()

	assert.True(t, lock.TryLock(), "TryLock on a free lock should succeed")
	assert.False(t, lock.TryLock(), "TryLock on a held lock should fail")

	lock.Unlock()
	assert.True(t, lock.IsFree(), "lock should be free after Unlock")
	assert.True(t, lock.TryLock(), "TryLock should succeed again after Unlock")
	lock.Unlock()
}

func TestUnlockWithLateLinker(t *testing.T) {
	// Exercise the handoff window where a contender has swapped the tail
	// but not yet linked behind its predecessor when Unlock runs.
	lock := New()
	const rounds = 10000
	var wg sync.WaitGroup

	wg.Add(2)
	for g := 0; g < 2; g++ {
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				lock.Lock()
				lock.Unlock()
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("lock handoff stalled")
	}
	assert.True(t, lock.IsFree())
}

func TestLockStress(t *testing.T) {
	lock := New()
	const numGoroutines = 10
	const iterations = 10000
	var wg sync.WaitGroup

	start := time.Now()
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				lock.Lock()
				lock.Unlock()
			}
		}()
	}

	wg.Wait()
	duration := time.Since(start)

	assert.Less(t, duration, 10*time.Second, "Lock stress test took too long: %v", duration)
}

// BenchmarkParkedLockUncontended tests parked lock performance with no contention
func BenchmarkParkedLockUncontended(b *testing.B) {
	lock := New()
	for i := 0; i < b.N; i++ {
		lock.Lock()
		lock.Unlock()
	}
}

// BenchmarkParkedLockContended tests parked lock performance under contention
func BenchmarkParkedLockContended(b *testing.B) {
	lock := New()
	shared := 0
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			lock.Lock()
			shared++
			lock.Unlock()
		}
	})
}

// BenchmarkMutexContended is the sync.Mutex baseline for the contended case
func BenchmarkMutexContended(b *testing.B) {
	var mu sync.Mutex
	shared := 0
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			mu.Lock()
			shared++
			mu.Unlock()
		}
	})
}
