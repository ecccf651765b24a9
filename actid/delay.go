package actid

import (
	"math/rand/v2"
	"time"
)

// QueueDelay describes the minimum spacing the scheduler enforces between
// successive admissions into the same queue: either a fixed interval or a
// range sampled uniformly at random on each admission.
type QueueDelay struct {
	lo time.Duration
	hi time.Duration
}

// NoDelay admits effects back-to-back with zero spacing.
func NoDelay() QueueDelay { return QueueDelay{} }

// ConstantDelay enforces a fixed interval between admissions.
func ConstantDelay(d time.Duration) QueueDelay { return QueueDelay{lo: d, hi: d} }

// RangeDelay enforces an interval sampled uniformly from [lo, hi] on every
// admission. Sampling happens once per admission, inside the scheduler's
// critical section, and draws from math/rand/v2's global source, which
// cannot be seeded, so sampled values differ from run to run.
func RangeDelay(lo, hi time.Duration) QueueDelay {
	if hi < lo {
		lo, hi = hi, lo
	}
	return QueueDelay{lo: lo, hi: hi}
}

// Sample draws an interval for one admission. Constant delays always return
// the same value; range delays draw uniformly from [lo, hi].
func (d QueueDelay) Sample() time.Duration {
	if d.lo >= d.hi {
		return d.lo
	}
	span := d.hi - d.lo
	return d.lo + time.Duration(rand.Int64N(int64(span)+1))
}
