// Package buffer provides the slot topologies a fair producer/consumer
// engine coordinates over: an unbounded growable chain and a fixed-capacity
// circular ring.
//
// The topologies hold no locks of their own. Write-side state (the write
// cursor) must only be touched under the engine's producer-side exclusion
// and read-side state (the read cursor) under its consumer side; see the
// engine package. The one piece of state crossing that boundary is each
// slot's filled flag, which is atomic so that a consumer observing a filled
// slot also observes the item written into it even though the two sides
// synchronize on different locks.
package buffer

import "sync/atomic"

// slot is a single-item storage cell with a binary filled/empty state.
// A slot transitions Empty -> Filled on a write and Filled -> Empty on a
// read; no other transitions exist.
type slot struct {
	item   int
	filled atomic.Bool
}
