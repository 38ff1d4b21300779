package engine

import (
	"fmt"
	"time"
)

// Role identifies which side of the buffer emitted an event.
type Role uint8

const (
	// RoleProducer marks an event emitted by a Produce call.
	RoleProducer Role = iota + 1
	// RoleConsumer marks an event emitted by a Consume call.
	RoleConsumer
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleProducer:
		return "producer"
	case RoleConsumer:
		return "consumer"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// Event is one wait-time instrumentation record, emitted exactly once per
// Produce or Consume call. Events are immutable once emitted. Emission
// order across goroutines follows wall time at emission, which is not
// guaranteed monotonic across threads; downstream readers needing a total
// order sort by Offset.
type Event struct {
	// Offset is the elapsed time since the engine was constructed,
	// measured after the slot mutation completed.
	Offset time.Duration

	// Role records whether the call produced or consumed.
	Role Role

	// Actor is the caller-supplied producer or consumer id.
	Actor int

	// Item is the value produced or consumed.
	Item int

	// Wait is the time spent between requesting admission and having both
	// the relevant lock and the slot condition satisfied.
	Wait time.Duration
}
