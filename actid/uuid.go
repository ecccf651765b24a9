package actid

import "github.com/google/uuid"

// NewRandomEffectID generates a fresh, globally unique EffectID for callers
// who have no meaningful domain key to give an effect (e.g. a one-off fetch
// that still wants independent cancellation from every other effect).
func NewRandomEffectID() EffectID {
	return NewEffectID(uuid.New())
}

// NewRandomQueueRef generates a fresh, globally unique QueueRef for callers
// who want an effect to have its own private queue without naming one.
func NewRandomQueueRef(policy QueuePolicy, delay QueueDelay) QueueRef {
	return NewQueue(uuid.New(), policy, delay)
}
