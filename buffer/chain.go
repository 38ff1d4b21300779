package buffer

import "sync"

// node is a chain link owning one slot. next is written by the producer
// side before the slot's filled flag is set and read by the consumer side
// only after observing the flag, so the atomic flag carries its visibility.
type node struct {
	slot
	next *node
}

// Chain is the unbounded topology: a singly linked, growing sequence of
// slots. Producers fill the slot at the write cursor and append a fresh
// unfilled slot behind it, so a producer always has a slot to write into
// and never blocks. Consumers drain the slot at the read cursor; each
// drained node is recycled through a pool rather than dropped on the floor.
//
// A standing placeholder node always exists: the write cursor points at the
// next slot to fill, which is unfilled by construction, so neither cursor
// is ever nil even when the chain is logically empty. Every slot strictly
// between the read and write cursors is filled.
type Chain struct {
	write *node // next slot a producer fills; producer-side state
	read  *node // next slot a consumer drains; consumer-side state
	pool  sync.Pool
}

// NewChain returns an empty chain holding only the placeholder slot.
func NewChain() *Chain {
	n := new(node)
	return &Chain{write: n, read: n}
}

// Bounded reports whether the topology can run out of writable slots.
// A chain cannot.
func (c *Chain) Bounded() bool { return false }

// CanWrite always returns true: unbounded growth guarantees a writable slot.
func (c *Chain) CanWrite() bool { return true }

// Write stores item in the write-cursor slot, links a fresh placeholder
// behind it, marks the slot filled and advances the cursor. Producer-side
// exclusion required.
func (c *Chain) Write(item int) {
	w := c.write
	w.item = item

	n := c.newNode()
	w.next = n
	// The flag is set last: a consumer that sees it also sees item and next.
	w.filled.Store(true)
	c.write = n
}

// CanRead reports whether the read-cursor slot is filled.
func (c *Chain) CanRead() bool { return c.read.filled.Load() }

// Read drains the read-cursor slot, advances the cursor and recycles the
// drained node. Consumer-side exclusion required; the caller must have
// observed CanRead.
func (c *Chain) Read() int {
	r := c.read
	item := r.item
	r.filled.Store(false)
	c.read = r.next

	r.next = nil
	c.pool.Put(r)
	return item
}

func (c *Chain) newNode() *node {
	if v := c.pool.Get(); v != nil {
		return v.(*node)
	}
	return new(node)
}
