// Package store defines the durability hook shared by the Postgres and
// SQLite backends: a Snapshotter persists every committed state, in order,
// without ever calling back into the scheduler that feeds it.
package store

import "context"

// Snapshotter persists one committed state. Implementations must not
// block indefinitely: a slow Snapshotter only slows its own subscriber
// goroutine, never the scheduler's critical section, since Save is called
// from a SubscribeChanges consumer loop, not from inside Send.
type Snapshotter[S any] interface {
	Save(ctx context.Context, state S) error
}

// Drive runs a consumer loop that persists every state from an
// every-transition feed (e.g. Actomaton.SubscribeChanges) until the feed
// closes or ctx is done. Save errors are reported to onError rather than
// stopping the loop, so one bad write does not silently end persistence.
func Drive[S any](ctx context.Context, feed <-chan S, snap Snapshotter[S], onError func(error)) {
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-feed:
			if !ok {
				return
			}
			if err := snap.Save(ctx, s); err != nil && onError != nil {
				onError(err)
			}
		}
	}
}
