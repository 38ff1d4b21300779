package engine

import (
	"sync"

	"github.com/eapache/queue"
)

// Sink receives instrumentation events from an Engine. Record is called on
// the hot path, in some cases while engine locks are held, so
// implementations must return promptly, must never block indefinitely and
// must not call back into the engine. A sink that cannot keep up should
// drop events; items flowing through the buffer are never affected by what
// a sink does.
type Sink interface {
	Record(Event)
}

// NopSink discards every event.
type NopSink struct{}

// Record implements Sink.
func (NopSink) Record(Event) {}

// MemorySink retains every event in memory, in emission order per caller.
// It is safe for concurrent use. Intended for tests and short-lived runs;
// it grows without bound.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

// Record implements Sink.
func (s *MemorySink) Record(e Event) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

// Events returns a copy of everything recorded so far.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Len returns the number of recorded events.
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Reset discards all recorded events.
func (s *MemorySink) Reset() {
	s.mu.Lock()
	s.events = nil
	s.mu.Unlock()
}

// BufferedSink holds up to limit events for a downstream reader to drain.
// When full it drops the oldest event and counts the drop; Record never
// blocks beyond its own short mutex. This is the best-effort boundary for
// slow collectors: the event stream degrades, the data path does not.
type BufferedSink struct {
	mu      sync.Mutex
	q       *queue.Queue
	limit   int
	dropped uint64
}

// NewBufferedSink returns a sink retaining at most limit events.
// limit must be positive.
func NewBufferedSink(limit int) *BufferedSink {
	if limit <= 0 {
		panic("engine: buffered sink limit must be positive")
	}
	return &BufferedSink{q: queue.New(), limit: limit}
}

// Record implements Sink, dropping the oldest buffered event when full.
func (s *BufferedSink) Record(e Event) {
	s.mu.Lock()
	if s.q.Length() >= s.limit {
		s.q.Remove()
		s.dropped++
	}
	s.q.Add(e)
	s.mu.Unlock()
}

// Drain removes and returns all buffered events, oldest first.
func (s *BufferedSink) Drain() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, 0, s.q.Length())
	for s.q.Length() > 0 {
		out = append(out, s.q.Remove().(Event))
	}
	return out
}

// Len returns the number of currently buffered events.
func (s *BufferedSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.Length()
}

// Dropped returns how many events were discarded to stay within the limit.
func (s *BufferedSink) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}
