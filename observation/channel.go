// Package observation implements the state-observation broadcast channel:
// every committed state is published here from inside the scheduler's
// critical section, so subscribers see a linear history consistent with
// action order.
package observation

import "sync"

// Channel publishes a stream of states to subscribers in two modes:
//
//   - Subscribe: a "latest state" feed. Each subscriber gets a buffer of
//     one; a slow subscriber simply misses intermediate states and always
//     reads the most recent one available (drop-oldest for that
//     subscriber).
//   - SubscribeAll: a "every transition" feed, backed by an unbounded
//     per-subscriber queue, so no state is ever skipped regardless of how
//     slow the reader is.
//
// Every new subscriber of either kind immediately receives the current
// value before any subsequent Publish.
type Channel[S any] struct {
	mu     sync.Mutex
	latest S
	has    bool
	closed bool

	nextID int
	latestSubs map[int]chan S
	allSubs    map[int]*unboundedQueue[S]
}

// New creates a channel seeded with an initial value.
func New[S any](initial S) *Channel[S] {
	return &Channel[S]{
		latest:      initial,
		has:         true,
		latestSubs: make(map[int]chan S),
		allSubs:    make(map[int]*unboundedQueue[S]),
	}
}

// Publish commits a new state, updating the snapshot and notifying every
// subscriber. Callers are expected to hold whatever lock makes this appear
// atomic with respect to the state transition it reports (the scheduler
// calls Publish from inside its own critical section).
func (c *Channel[S]) Publish(s S) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.latest = s
	c.has = true
	for _, ch := range c.latestSubs {
		select {
		case ch <- s:
		default:
			// Drop the stale value sitting in the buffer, if any, then
			// push the new one. A concurrent reader may win the race and
			// drain it first, which is fine — the buffer always ends up
			// holding the newest value.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
	for _, q := range c.allSubs {
		q.push(s)
	}
}

// Snapshot returns the most recently published value.
func (c *Channel[S]) Snapshot() S {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest
}

// Subscribe returns a latest-state feed and an unsubscribe function. The
// returned channel has buffer 1 and coalesces rapid publishes into the
// newest value.
func (c *Channel[S]) Subscribe() (<-chan S, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan S, 1)
	if c.has {
		ch <- c.latest
	}
	id := c.nextID
	c.nextID++
	c.latestSubs[id] = ch

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if s, ok := c.latestSubs[id]; ok {
			delete(c.latestSubs, id)
			close(s)
		}
	}
}

// SubscribeAll returns an every-transition feed and an unsubscribe function.
// No published state is ever dropped for this kind of subscriber, no matter
// how far behind the reader falls.
func (c *Channel[S]) SubscribeAll() (<-chan S, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	q := newUnboundedQueue[S]()
	if c.has {
		q.push(c.latest)
	}
	id := c.nextID
	c.nextID++
	c.allSubs[id] = q

	return q.out, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if q, ok := c.allSubs[id]; ok {
			delete(c.allSubs, id)
			q.close()
		}
	}
}

// Close shuts down the channel, closing every subscriber's feed. Publish
// becomes a no-op afterward.
func (c *Channel[S]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for id, ch := range c.latestSubs {
		delete(c.latestSubs, id)
		close(ch)
	}
	for id, q := range c.allSubs {
		delete(c.allSubs, id)
		q.close()
	}
}
