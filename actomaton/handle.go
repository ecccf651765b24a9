package actomaton

import (
	"context"
	"errors"

	"github.com/nextlevelbuilder/actomaton/actid"
)

// taskHandle is the scheduler's private record of one admitted, running
// effect task. It is registered in the running-tasks and queue-tasks
// tables until the task body terminates.
type taskHandle struct {
	id       actid.EffectID
	queueKey any // nil when the effect was not queued

	cancel context.CancelFunc
	done   chan struct{}
	err    error // set exactly once, before done is closed
}

func (h *taskHandle) isDone() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Handle is returned by Send and represents every task directly spawned by
// that one send. Cancelling it cancels exactly those tasks; waiting on it
// waits for all of them (and, when tracks_feedbacks was requested, their
// entire feedback tree, which is already folded in by the time each direct
// task finishes — see §4.4.3).
//
// A nil *Handle is returned when a send spawned no tasks; every method is
// nil-safe and treats that as already complete.
type Handle struct {
	tasks []*taskHandle
}

// Wait blocks until every directly spawned task completes, or ctx is done.
// It returns an aggregate of any BodyThrew/StreamThrew errors; cancellation
// never appears in the result (§7: "never surfaces as an error from send's
// returned handle").
func (h *Handle) Wait(ctx context.Context) error {
	if h == nil {
		return nil
	}
	for _, t := range h.tasks {
		select {
		case <-t.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	var errs []error
	for _, t := range h.tasks {
		if t.err != nil && !errors.Is(t.err, context.Canceled) {
			errs = append(errs, t.err)
		}
	}
	return errors.Join(errs...)
}

// Cancel cancels every task this handle represents.
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	for _, t := range h.tasks {
		t.cancel()
	}
}

// Done reports whether every task this handle represents has completed.
func (h *Handle) Done() bool {
	if h == nil {
		return true
	}
	for _, t := range h.tasks {
		if !t.isDone() {
			return false
		}
	}
	return true
}

func newHandle(tasks []*taskHandle) *Handle {
	if len(tasks) == 0 {
		return nil
	}
	return &Handle{tasks: tasks}
}
