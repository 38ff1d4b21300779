// Package engine coordinates producers and consumers over a shared slot
// topology with fair producer admission and per-operation wait-time
// instrumentation.
//
// Producers are admitted through a FIFO-fair lock (a ticket lock by
// default), so produce calls enter the buffer in the exact order they
// arrived. Consumers synchronize on an ordinary mutex and condition, which
// makes no wake-order promise: consumer service order is deliberately NOT
// FIFO. That asymmetry mirrors the system under study and is part of the
// contract.
//
// On the bounded topology a producer that is blocked waiting for a free
// slot keeps holding its admission ticket, so later producers cannot
// overtake it even when their target slots free up earlier. This
// head-of-line blocking is intentional: admission order stays strict at the
// cost of throughput under a full buffer.
package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ahrav/go-fairbuf/ticket"
)

// Buffer is the slot topology an Engine coordinates over. Implementations
// carry no locks: the engine calls CanWrite/Write under its producer-side
// exclusion and CanRead/Read under its consumer side. buffer.Chain and
// buffer.Ring implement it.
type Buffer interface {
	// Bounded reports whether Write can ever find the cursor slot filled.
	Bounded() bool
	// CanWrite reports whether the write-cursor slot is free.
	CanWrite() bool
	// Write fills the write-cursor slot and advances the cursor.
	Write(item int)
	// CanRead reports whether the read-cursor slot is filled.
	CanRead() bool
	// Read drains the read-cursor slot and advances the cursor.
	Read() int
}

// Stats holds the cumulative busy time of each side: lock and condition
// wait plus critical-section work, summed over completed calls. The
// accumulators only grow; reading them twice with no intervening operation
// yields identical values.
type Stats struct {
	ProduceBusy time.Duration
	ConsumeBusy time.Duration
}

// Engine binds one topology to the locks and conditions that coordinate
// producers and consumers, and emits one instrumentation Event per call.
//
// An Engine is ready for use by any number of goroutines after New. After
// Close it is torn down for good: further Produce or Consume calls panic.
type Engine struct {
	buf  Buffer
	sink Sink

	// admit orders producers. Must be strictly FIFO for the fairness
	// guarantee to hold.
	admit sync.Locker

	prodMu  sync.Mutex // guards write-side cursor state on bounded topologies
	notFull *sync.Cond

	consMu   sync.Mutex // guards read-side cursor state
	notEmpty *sync.Cond

	start  time.Time
	closed atomic.Bool

	produceBusy atomic.Int64 // ns
	consumeBusy atomic.Int64 // ns
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink routes instrumentation events to s instead of discarding them.
func WithSink(s Sink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithAdmission replaces the producer admission lock. l must admit callers
// in strict FIFO order (ticket.Lock and parked.Lock both qualify);
// a barging lock such as sync.Mutex silently voids the fairness guarantee.
func WithAdmission(l sync.Locker) Option {
	return func(e *Engine) { e.admit = l }
}

// New returns an engine coordinating over buf. Events are discarded unless
// WithSink is given.
func New(buf Buffer, opts ...Option) *Engine {
	e := &Engine{
		buf:   buf,
		sink:  NopSink{},
		admit: ticket.New(),
		start: time.Now(),
	}
	e.notFull = sync.NewCond(&e.prodMu)
	e.notEmpty = sync.NewCond(&e.consMu)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Produce writes item into the buffer on behalf of actor. On the unbounded
// topology it never blocks; on the bounded topology it blocks until the
// write-cursor slot is free, holding its admission ticket throughout.
// Exactly one Event is emitted per call. Panics if the engine is closed.
func (e *Engine) Produce(item, actor int) {
	if e.closed.Load() {
		panic("engine: Produce on closed engine")
	}

	requested := time.Now()
	e.admit.Lock()

	bounded := e.buf.Bounded()
	if bounded {
		e.prodMu.Lock()
		for !e.buf.CanWrite() {
			e.notFull.Wait()
		}
	}
	acquired := time.Now()

	e.buf.Write(item)

	now := time.Now()
	e.sink.Record(Event{
		Offset: now.Sub(e.start),
		Role:   RoleProducer,
		Actor:  actor,
		Item:   item,
		Wait:   acquired.Sub(requested),
	})

	if bounded {
		e.prodMu.Unlock()
		e.wakeConsumer()
		e.admit.Unlock()
	} else {
		e.admit.Unlock()
		e.wakeConsumer()
	}

	e.produceBusy.Add(int64(time.Since(requested)))
}

// Consume blocks until an item is available, drains it and returns it.
// Exactly one Event is emitted per call. Panics if the engine is closed.
func (e *Engine) Consume(actor int) int {
	if e.closed.Load() {
		panic("engine: Consume on closed engine")
	}

	requested := time.Now()
	e.consMu.Lock()
	for !e.buf.CanRead() {
		e.notEmpty.Wait()
	}
	acquired := time.Now()

	item := e.buf.Read()

	now := time.Now()
	e.sink.Record(Event{
		Offset: now.Sub(e.start),
		Role:   RoleConsumer,
		Actor:  actor,
		Item:   item,
		Wait:   acquired.Sub(requested),
	})

	e.consMu.Unlock()
	if e.buf.Bounded() {
		e.wakeProducer()
	}

	e.consumeBusy.Add(int64(time.Since(requested)))
	return item
}

// Stats returns the cumulative busy-time accumulators. Safe to call at any
// point, including concurrently with Produce and Consume.
func (e *Engine) Stats() Stats {
	return Stats{
		ProduceBusy: time.Duration(e.produceBusy.Load()),
		ConsumeBusy: time.Duration(e.consumeBusy.Load()),
	}
}

// Close tears the engine down. It must only be called once every producer
// and consumer has returned; it does not wake blocked callers. Any Produce
// or Consume after Close panics.
func (e *Engine) Close() { e.closed.Store(true) }

// Closed reports whether Close has been called.
func (e *Engine) Closed() bool { return e.closed.Load() }

// wakeConsumer signals not-empty. The slot flag was flipped under the
// producer side, not under consMu, so the signal is raised while holding
// consMu: a consumer between its predicate check and Wait is then
// guaranteed to be parked in Wait before the signal fires, closing the
// lost-wakeup window.
func (e *Engine) wakeConsumer() {
	e.consMu.Lock()
	e.notEmpty.Signal()
	e.consMu.Unlock()
}

// wakeProducer signals not-full under prodMu, for the same reason as
// wakeConsumer.
func (e *Engine) wakeProducer() {
	e.prodMu.Lock()
	e.notFull.Signal()
	e.prodMu.Unlock()
}
